package prompts

import (
	"context"
	_ "embed"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

// RenderIntentSystem renders the three-label classification instruction.
func RenderIntentSystem(ctx context.Context, cfg model.PromptConfig) (string, error) {
	return render(ctx, intentSystemPrompt, map[string]any{
		"BusinessName": cfg.BusinessName,
	})
}
