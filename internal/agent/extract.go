package agent

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// ExtractAnswer returns the text of the most recent assistant message that
// carries any, scanning backward. Assistant content is either a plain string
// or a list of typed segments; both shapes are handled explicitly here so no
// other code inspects message internals.
func ExtractAnswer(messages []*schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m == nil || m.Role != schema.Assistant {
			continue
		}
		if text := messageText(m); text != "" {
			return text
		}
	}
	return ""
}

func messageText(m *schema.Message) string {
	if text := strings.TrimSpace(m.Content); text != "" {
		return text
	}
	var parts []string
	for _, part := range m.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
