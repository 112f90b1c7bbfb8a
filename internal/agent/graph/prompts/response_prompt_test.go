package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
)

func TestRenderResponseSystemSelectsCase(t *testing.T) {
	ctx := context.Background()
	cfg := model.PromptConfig{BusinessName: "AutoStream"}

	render := func(v ResponseVars) string {
		t.Helper()
		out, err := RenderResponseSystem(ctx, cfg, v)
		require.NoError(t, err)
		return out
	}

	got := render(ResponseVars{Intent: model.IntentGreeting})
	assert.Contains(t, got, "Greet the user")
	assert.Contains(t, got, "AutoStream")

	got = render(ResponseVars{
		Intent:  model.IntentInquiry,
		Context: "AutoStream info:\n1. Plans start free.\n",
	})
	assert.Contains(t, got, "Plans start free.")
	assert.Contains(t, got, "at most 60 words")
}

func TestRenderResponseSystemLeadFlowAsksNextMissing(t *testing.T) {
	ctx := context.Background()
	cfg := model.PromptConfig{BusinessName: "AutoStream"}

	render := func(slots model.LeadSlots) string {
		t.Helper()
		out, err := RenderResponseSystem(ctx, cfg, ResponseVars{
			Intent:     model.IntentHighIntentLead,
			Slots:      slots,
			Validation: leads.Validate(slots),
		})
		require.NoError(t, err)
		return out
	}

	got := render(model.LeadSlots{})
	assert.Contains(t, got, "Ask for their name")

	got = render(model.LeadSlots{Name: "Jane"})
	assert.Contains(t, got, "Ask Jane for their email")

	got = render(model.LeadSlots{Name: "Jane", Email: "jane@example.com"})
	assert.Contains(t, got, "which platform")
	assert.Contains(t, got, "jane@example.com")

	got = render(model.LeadSlots{Name: "Jane", Email: "jane@example.com", Platform: "YouTube"})
	assert.Contains(t, got, "Confirm their signup")
	assert.True(t, strings.Contains(got, "Jane") && strings.Contains(got, "YouTube"))
}

func TestRenderResponseSystemUnknownIntent(t *testing.T) {
	_, err := RenderResponseSystem(context.Background(), model.PromptConfig{}, ResponseVars{Intent: "other"})
	assert.Error(t, err)
}

func TestRenderIntentSystem(t *testing.T) {
	out, err := RenderIntentSystem(context.Background(), model.PromptConfig{BusinessName: "AutoStream"})
	require.NoError(t, err)
	assert.Contains(t, out, "high_intent_lead")
	assert.Contains(t, out, "AutoStream")
}
