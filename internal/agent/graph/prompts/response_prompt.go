package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
)

//go:embed template/greeting_prompt.txt
var greetingPrompt string

//go:embed template/inquiry_prompt.txt
var inquiryPrompt string

//go:embed template/lead_name_prompt.txt
var leadNamePrompt string

//go:embed template/lead_email_prompt.txt
var leadEmailPrompt string

//go:embed template/lead_platform_prompt.txt
var leadPlatformPrompt string

//go:embed template/lead_confirm_prompt.txt
var leadConfirmPrompt string

// ResponseVars carries everything the response instruction depends on:
// the classified intent, the retrieved context for inquiries, and the slot
// state for the lead-capture flow.
type ResponseVars struct {
	Intent     model.Intent
	Context    string
	Slots      model.LeadSlots
	Validation leads.Validation
}

// RenderResponseSystem selects and renders the system instruction for the
// response model. For an incomplete lead flow it asks specifically for the
// next missing field per the validator's priority order, referencing
// already-known slot values for continuity.
func RenderResponseSystem(ctx context.Context, cfg model.PromptConfig, in ResponseVars) (string, error) {
	vars := map[string]any{
		"BusinessName": cfg.BusinessName,
		"Context":      in.Context,
		"Name":         in.Slots.Name,
		"Email":        in.Slots.Email,
		"Platform":     in.Slots.Platform,
	}

	switch in.Intent {
	case model.IntentGreeting:
		return render(ctx, greetingPrompt, vars)
	case model.IntentInquiry:
		return render(ctx, inquiryPrompt, vars)
	case model.IntentHighIntentLead:
		if in.Validation.IsComplete {
			return render(ctx, leadConfirmPrompt, vars)
		}
		switch in.Validation.NextMissing() {
		case leads.FieldName:
			return render(ctx, leadNamePrompt, vars)
		case leads.FieldEmail:
			return render(ctx, leadEmailPrompt, vars)
		case leads.FieldPlatform:
			return render(ctx, leadPlatformPrompt, vars)
		}
		return render(ctx, leadConfirmPrompt, vars)
	}
	return "", fmt.Errorf("unknown intent %q", in.Intent)
}
