package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/conversations"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/prompts"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/intent"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/slots"
	"github.com/JayanthSrinivas06/autostream-agent/internal/rag"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
)

// Node names for the turn graph.
const (
	NodeClassify          = "classify_intent"
	NodeRetrieve          = "retrieve"
	NodeExtract           = "extract_info"
	NodeCapture           = "capture_lead"
	NodeResponseAssembler = "response_assembler"
	NodeResponseChatModel = "response_chat_model"
	NodeFinalizer         = "finalize"
)

// NewClassifyPreHandler seeds the per-turn graph state from the input: it
// adopts the prior ConversationState (or a fresh one), appends the incoming
// user message to history, and clears the transient retrieval context.
func NewClassifyPreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.SessionID = in.SessionID
		s.Query = in.Query
		s.Conv = in.State
		if s.Conv == nil {
			s.Conv = model.NewConversationState()
		}
		s.Conv.History = append(s.Conv.History, schema.UserMessage(in.Query))
		s.Conv.Context = ""
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewClassifyNode resolves the turn's intent via the classifier.
func NewClassifyNode(classifier *intent.Classifier) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (model.Intent, error) {
		var conv *model.ConversationState
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			conv = s.Conv
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		return classifier.Classify(ctx, in.Query, conv)
	})
}

// NewClassifyPostHandler records the resolved intent in the turn state.
func NewClassifyPostHandler() func(context.Context, model.Intent, *model.TurnState) (model.Intent, error) {
	return func(ctx context.Context, out model.Intent, s *model.TurnState) (model.Intent, error) {
		s.Conv.Intent = out
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", string(out)).
			Msg("Intent classified")
		return out, nil
	}
}

// NewIntentBranchCondition routes the turn by intent: greeting straight to
// response, inquiry through retrieval, lead intent through extraction.
func NewIntentBranchCondition() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, in model.Intent) (string, error) {
		switch in {
		case model.IntentGreeting:
			return NodeResponseAssembler, nil
		case model.IntentInquiry:
			return NodeRetrieve, nil
		case model.IntentHighIntentLead:
			return NodeExtract, nil
		}
		return "", fmt.Errorf("unroutable intent %q", in)
	}
}

// NewRetrieveNode fetches knowledge context for the current query and stores
// it in the turn state for the response prompt. Index failures propagate.
func NewRetrieveNode(provider rag.ContextProvider) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) (model.Intent, error) {
		var query string
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			query = s.Query
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}

		knowledge, err := provider.Context(ctx, query)
		if err != nil {
			return in, fmt.Errorf("retrieve knowledge: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Conv.Context = knowledge
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}
		return in, nil
	})
}

// NewExtractNode attempts to fill the next missing lead slot from the current
// turn and history. Already-set slots are never overwritten.
func NewExtractNode(extractor *slots.Extractor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) (model.Intent, error) {
		var (
			query   string
			history []*schema.Message
			current model.LeadSlots
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			query = s.Query
			history = s.Conv.History
			current = s.Conv.Slots
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}

		updated, err := extractor.Extract(ctx, query, history, current)
		if err != nil {
			return in, fmt.Errorf("extract slots: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Conv.Slots = updated
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}
		return in, nil
	})
}

// NewCaptureCondition routes to lead capture when the slots just became
// complete, otherwise on to the response.
func NewCaptureCondition() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, in model.Intent) (string, error) {
		var complete bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			complete = leads.Validate(s.Conv.Slots).IsComplete
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		if complete {
			return NodeCapture, nil
		}
		return NodeResponseAssembler, nil
	}
}

// NewCaptureNode fires the capture sink exactly once per session. The
// lead_captured flag is monotonic: it never resets, so repeated complete
// states are no-ops.
func NewCaptureNode(sink leads.CaptureSink) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) (model.Intent, error) {
		var (
			captured  bool
			lead      leads.Lead
			sessionID string
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			captured = s.Conv.LeadCaptured
			sessionID = s.SessionID
			if !captured {
				lead = leads.NewLead(s.Conv.Slots)
			}
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}

		if captured {
			return in, nil
		}

		if err := sink.Capture(ctx, lead); err != nil {
			return in, fmt.Errorf("capture lead: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Conv.LeadCaptured = true
			return nil
		})
		if err != nil {
			return in, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Info().Str("session_id", sessionID).Str("lead_id", lead.ID).Msg("Lead capture fired")
		return in, nil
	})
}

// NewResponseAssemblerNode renders the per-case system instruction and bounds
// the replayed history for the response model.
func NewResponseAssemblerNode(promptCfg model.PromptConfig, recentTurns int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) ([]*schema.Message, error) {
		var (
			vars    prompts.ResponseVars
			history []*schema.Message
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			vars = prompts.ResponseVars{
				Intent:     in,
				Context:    s.Conv.Context,
				Slots:      s.Conv.Slots,
				Validation: leads.Validate(s.Conv.Slots),
			}
			history = s.Conv.History
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		systemPrompt, err := prompts.RenderResponseSystem(ctx, promptCfg, vars)
		if err != nil {
			return nil, fmt.Errorf("render response prompt: %w", err)
		}

		return conversations.BuildResponseContext(systemPrompt, history, recentTurns), nil
	})
}

// NewResponseChatModelPostHandler appends the reply to history and accounts
// LLM usage cost for the turn.
func NewResponseChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, s *model.TurnState) (*schema.Message, error) {
		if out == nil {
			return nil, fmt.Errorf("response model returned nil message")
		}

		if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			s.TotalCostUSD += totalC
			logx.Debug().
				Str("session_id", s.SessionID).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", s.TotalCostUSD).
				Msg("LLM usage")
		}

		if strings.TrimSpace(out.Content) != "" {
			s.Conv.History = append(s.Conv.History, schema.AssistantMessage(out.Content, nil))
		}
		return out, nil
	}
}

// NewFinalizerNode packages the reply and updated state for the caller, which
// owns persistence.
func NewFinalizerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *schema.Message) (*model.TurnOutput, error) {
		var out *model.TurnOutput
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			out = &model.TurnOutput{
				Reply:        in.Content,
				Intent:       s.Conv.Intent,
				LeadCaptured: s.Conv.LeadCaptured,
				State:        s.Conv,
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return out, nil
	})
}
