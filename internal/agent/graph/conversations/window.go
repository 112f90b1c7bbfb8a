// Package conversations assembles the bounded message windows fed into the
// response model.
package conversations

import (
	"github.com/cloudwego/eino/schema"
)

// Recent returns a copy of the trailing n messages.
func Recent(messages []*schema.Message, n int) []*schema.Message {
	if n <= 0 || len(messages) == 0 {
		return []*schema.Message{}
	}
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	result := make([]*schema.Message, len(messages))
	copy(result, messages)
	return result
}

// BuildResponseContext builds the prompt for the response model: the system
// instruction followed by the trailing recentTurns messages of history. The
// bound is a token-budget decision; storage keeps the full history.
func BuildResponseContext(systemPrompt string, history []*schema.Message, recentTurns int) []*schema.Message {
	messages := make([]*schema.Message, 0, recentTurns+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, Recent(history, recentTurns)...)
	return messages
}
