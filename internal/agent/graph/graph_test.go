package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/intent"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/slots"
)

// scriptedGen serves the classifier and extractor with queued replies so the
// scenario below is fully deterministic.
type scriptedGen struct {
	replies []string
	calls   int
}

func (g *scriptedGen) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	g.calls++
	if len(g.replies) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return schema.AssistantMessage(reply, nil), nil
}

// fakeResponseModel counts invocations and returns numbered replies.
type fakeResponseModel struct {
	requests [][]*schema.Message
}

func (f *fakeResponseModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.requests = append(f.requests, input)
	return schema.AssistantMessage(fmt.Sprintf("reply %d", len(f.requests)), nil), nil
}

func (f *fakeResponseModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type fakeProvider struct {
	queries []string
}

func (f *fakeProvider) Context(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return "AutoStream info:\n1. AutoStream turns recordings into short clips.\n", nil
}

type countingSink struct {
	captured []leads.Lead
}

func (c *countingSink) Capture(ctx context.Context, lead leads.Lead) error {
	c.captured = append(c.captured, lead)
	return nil
}

func TestBuildGraphValidation(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	assert.Error(t, err)

	_, err = BuildGraph(context.Background(), &GraphConfig{})
	assert.Error(t, err)
}

// TestTurnGraphLeadCaptureFlow walks a full session: greeting, product
// inquiry, then a lead-capture flow that fills one slot per turn and fires
// the sink exactly once.
func TestTurnGraphLeadCaptureFlow(t *testing.T) {
	ctx := context.Background()

	gen := &scriptedGen{replies: []string{
		"greeting", // turn 1 classification
		"inquiry",  // turn 2 classification
		"NONE",     // turn 3 name extraction: not stated yet
		"Jane",     // turn 4 name extraction
	}}
	respModel := &fakeResponseModel{}
	provider := &fakeProvider{}
	sink := &countingSink{}

	promptCfg := model.PromptConfig{BusinessName: "AutoStream"}
	runnable, err := BuildGraph(ctx, &GraphConfig{
		Classifier:        intent.NewClassifier(gen, promptCfg),
		Extractor:         slots.NewExtractor(gen),
		Retriever:         provider,
		Sink:              sink,
		ResponseModel:     respModel,
		ResponseModelName: "fake-model",
		Prompt:            promptCfg,
		RecentTurns:       2,
	})
	require.NoError(t, err)

	state := model.NewConversationState()
	turn := func(text string) *model.TurnOutput {
		t.Helper()
		out, err := runnable.Invoke(ctx, model.TurnInput{
			SessionID: "s1",
			Query:     text,
			State:     state,
		})
		require.NoError(t, err)
		state = out.State
		return out
	}

	// Turn 1: small talk, classified by the LLM.
	out := turn("Hi there!")
	assert.Equal(t, model.IntentGreeting, out.Intent)
	assert.False(t, out.LeadCaptured)
	assert.Equal(t, "reply 1", out.Reply)
	assert.Empty(t, provider.queries, "greetings skip retrieval")

	// Turn 2: product question goes through retrieval.
	out = turn("What do you offer?")
	assert.Equal(t, model.IntentInquiry, out.Intent)
	assert.Equal(t, []string{"What do you offer?"}, provider.queries)

	// Turn 3: keyword-matched lead intent; name not extractable yet.
	out = turn("I want to make videos for my YouTube channel")
	assert.Equal(t, model.IntentHighIntentLead, out.Intent)
	assert.Empty(t, state.Slots.Name)
	assert.False(t, out.LeadCaptured)

	// Turn 4: sticky intent holds without re-classification; name fills.
	out = turn("I'm Jane")
	assert.Equal(t, model.IntentHighIntentLead, out.Intent)
	assert.Equal(t, "Jane", state.Slots.Name)
	assert.False(t, out.LeadCaptured)

	// Turn 5: email comes out of the regex, no LLM involved.
	out = turn("jane@example.com")
	assert.Equal(t, model.IntentHighIntentLead, out.Intent)
	assert.Equal(t, "jane@example.com", state.Slots.Email)
	assert.False(t, out.LeadCaptured, "platform still missing")

	// Turn 6: platform recovered from the turn-3 history mention; the lead
	// completes and the sink fires.
	out = turn("that's everything")
	assert.Equal(t, model.IntentHighIntentLead, out.Intent)
	assert.Equal(t, "YouTube", state.Slots.Platform)
	assert.True(t, out.LeadCaptured)
	require.Len(t, sink.captured, 1)
	assert.Equal(t, leads.Lead{
		ID:         sink.captured[0].ID,
		Name:       "Jane",
		Email:      "jane@example.com",
		Platform:   "YouTube",
		CapturedAt: sink.captured[0].CapturedAt,
	}, sink.captured[0])

	// Turn 7: renewed lead signal after capture stays idempotent.
	out = turn("I want to sign up now")
	assert.Equal(t, model.IntentHighIntentLead, out.Intent)
	assert.True(t, out.LeadCaptured)
	assert.Len(t, sink.captured, 1, "capture fires at most once per session")

	// Four LLM calls total: two classifications, two name extractions. All
	// other turns resolved via keywords, stickiness, regex or history scan.
	assert.Equal(t, 4, gen.calls)

	// Every turn produced a reply through the response model, and history
	// grew by a user and an assistant message per turn.
	assert.Len(t, respModel.requests, 7)
	assert.Len(t, state.History, 14)

	// The response prompt window stays bounded: system message plus the two
	// most recent history entries.
	last := respModel.requests[len(respModel.requests)-1]
	require.Len(t, last, 3)
	assert.Equal(t, schema.System, last[0].Role)
	assert.Equal(t, "I want to sign up now", last[len(last)-1].Content)
}

func TestTurnGraphRetrieverFailureAborts(t *testing.T) {
	ctx := context.Background()

	gen := &scriptedGen{replies: []string{"inquiry"}}
	runnable, err := BuildGraph(ctx, &GraphConfig{
		Classifier:        intent.NewClassifier(gen, model.PromptConfig{}),
		Extractor:         slots.NewExtractor(gen),
		Retriever:         failingProvider{},
		Sink:              &countingSink{},
		ResponseModel:     &fakeResponseModel{},
		ResponseModelName: "fake-model",
		Prompt:            model.PromptConfig{BusinessName: "AutoStream"},
		RecentTurns:       2,
	})
	require.NoError(t, err)

	_, err = runnable.Invoke(ctx, model.TurnInput{
		SessionID: "s1",
		Query:     "what are the plans?",
		State:     model.NewConversationState(),
	})
	assert.Error(t, err, "index failures surface instead of producing a reply")
}

type failingProvider struct{}

func (failingProvider) Context(ctx context.Context, query string) (string, error) {
	return "", errors.New("index unavailable")
}
