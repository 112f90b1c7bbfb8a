// Package intent classifies user turns into the agent's three intents.
//
// Classification order:
//  1. Sticky rule: an open, incomplete lead-capture flow suppresses
//     re-classification.
//  2. Keyword table (instant, no LLM call).
//  3. LLM fallback, normalized into the closed label set.
package intent

import (
	"context"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/prompts"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
)

// Generator is the narrow LLM contract the classifier needs. Satisfied by any
// Eino chat model; tests supply a scripted fake.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

type Classifier struct {
	gen    Generator
	prompt model.PromptConfig
}

func NewClassifier(gen Generator, prompt model.PromptConfig) *Classifier {
	return &Classifier{gen: gen, prompt: prompt}
}

// Classify resolves the intent of the current user turn. Malformed LLM output
// never surfaces as an error: it always resolves to a label via NormalizeLabel.
// Transport failures of the LLM call propagate to the caller.
func (c *Classifier) Classify(ctx context.Context, text string, state *model.ConversationState) (model.Intent, error) {
	// Sticky intent: an open lead-capture flow stays open until the slots
	// complete. Takes priority over re-classification.
	if state.Intent == model.IntentHighIntentLead && !state.LeadCaptured {
		if v := leads.Validate(state.Slots); !v.IsComplete {
			logx.Debug().Msg("Sticky intent - lead capture flow still open")
			return model.IntentHighIntentLead, nil
		}
	}

	if MatchHighIntent(text) {
		logx.Debug().Msg("High-intent keyword matched")
		return model.IntentHighIntentLead, nil
	}

	sys, err := prompts.RenderIntentSystem(ctx, c.prompt)
	if err != nil {
		return "", err
	}

	out, err := c.gen.Generate(ctx, []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage("'" + text + "'"),
	})
	if err != nil {
		return "", err
	}

	label := NormalizeLabel(out.Content)
	logx.Debug().Str("raw", out.Content).Str("intent", string(label)).Msg("LLM intent classification")
	return label, nil
}

// NormalizeLabel maps raw model output onto the closed label set. Exact
// labels (after trim + lowercase) pass through; otherwise substring
// containment decides, with inquiry as the final fallback.
func NormalizeLabel(raw string) model.Intent {
	label := strings.ToLower(strings.TrimSpace(raw))
	if in := model.Intent(label); in.Valid() {
		return in
	}
	switch {
	case strings.Contains(label, "greeting"):
		return model.IntentGreeting
	case strings.Contains(label, "high_intent"), strings.Contains(label, "high intent"):
		return model.IntentHighIntentLead
	default:
		return model.IntentInquiry
	}
}
