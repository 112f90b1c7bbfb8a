package prompts

import (
	"context"
	_ "embed"
)

//go:embed template/extract_name_prompt.txt
var nameExtractPrompt string

//go:embed template/extract_platform_prompt.txt
var platformExtractPrompt string

// RenderNameExtract renders the name extraction instruction for a user turn.
func RenderNameExtract(ctx context.Context, text string) (string, error) {
	return render(ctx, nameExtractPrompt, map[string]any{"Text": text})
}

// RenderPlatformExtract renders the vocabulary-constrained platform
// extraction instruction for a user turn.
func RenderPlatformExtract(ctx context.Context, text string) (string, error) {
	return render(ctx, platformExtractPrompt, map[string]any{"Text": text})
}
