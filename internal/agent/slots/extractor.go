// Package slots fills the lead slots (name, email, platform) from user turns.
// Per turn it attempts only the single highest-priority missing slot, in the
// validator's order, and never overwrites a slot that is already set.
package slots

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph/prompts"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/leads"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
)

// noneSentinel is what the extraction prompts instruct the model to return
// when the requested value is absent.
const noneSentinel = "NONE"

// maxNameLen bounds accepted name extractions (exclusive).
const maxNameLen = 50

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// platformVocabulary is the ordered, canonical platform list. First match
// wins; matching is case-insensitive substring.
var platformVocabulary = []struct {
	keyword   string
	canonical string
}{
	{"youtube", "YouTube"},
	{"instagram", "Instagram"},
	{"tiktok", "TikTok"},
	{"facebook", "Facebook"},
	{"twitter", "Twitter"},
	{"linkedin", "LinkedIn"},
	{"twitch", "Twitch"},
}

// Generator is the narrow LLM contract the extractor needs.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

type Extractor struct {
	gen Generator
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract returns an updated copy of slots with at most one newly filled
// value. Failed extraction leaves the slot unset and is not an error; LLM
// transport failures propagate.
func (e *Extractor) Extract(ctx context.Context, text string, history []*schema.Message, slots model.LeadSlots) (model.LeadSlots, error) {
	v := leads.Validate(slots)
	if v.IsComplete {
		return slots, nil
	}

	switch v.NextMissing() {
	case leads.FieldName:
		name, err := e.extractName(ctx, text)
		if err != nil {
			return slots, err
		}
		if name != "" {
			slots.Name = name
			logx.Debug().Str("name", name).Msg("Name slot filled")
		}

	case leads.FieldEmail:
		// Pure regex, no LLM call. First match over the whole turn text.
		if m := emailPattern.FindString(text); m != "" {
			slots.Email = m
			logx.Debug().Str("email", m).Msg("Email slot filled")
		}

	case leads.FieldPlatform:
		platform := scanPlatform(history)
		if platform == "" {
			p, err := e.extractPlatform(ctx, text)
			if err != nil {
				return slots, err
			}
			platform = p
		}
		if platform != "" {
			slots.Platform = platform
			logx.Debug().Str("platform", platform).Msg("Platform slot filled")
		}
	}

	return slots, nil
}

func (e *Extractor) extractName(ctx context.Context, text string) (string, error) {
	instruction, err := prompts.RenderNameExtract(ctx, text)
	if err != nil {
		return "", err
	}

	out, err := e.gen.Generate(ctx, []*schema.Message{schema.UserMessage(instruction)})
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(out.Content)
	if name == noneSentinel || name == "" || utf8.RuneCountInString(name) >= maxNameLen {
		return "", nil
	}
	return name, nil
}

func (e *Extractor) extractPlatform(ctx context.Context, text string) (string, error) {
	instruction, err := prompts.RenderPlatformExtract(ctx, text)
	if err != nil {
		return "", err
	}

	out, err := e.gen.Generate(ctx, []*schema.Message{schema.UserMessage(instruction)})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(out.Content)
	if reply == noneSentinel {
		return "", nil
	}
	// The reply must resolve to the known vocabulary; anything else leaves
	// the slot unset and the agent asks again.
	return matchPlatform(reply), nil
}

// scanPlatform looks for a platform mention anywhere in the conversation so
// far, not just the current turn. First mention wins.
func scanPlatform(history []*schema.Message) string {
	for _, msg := range history {
		if msg == nil || msg.Content == "" {
			continue
		}
		if p := matchPlatform(msg.Content); p != "" {
			return p
		}
	}
	return ""
}

func matchPlatform(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range platformVocabulary {
		if strings.Contains(lower, entry.keyword) {
			return entry.canonical
		}
	}
	return ""
}
