package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/logis-assistant/server/internal/agent/model"
	"github.com/logis-assistant/server/internal/agent/tools"
	"github.com/logis-assistant/server/internal/feedback"
)

//go:embed template/system_prompt.txt
var systemPromptTemplate string

// answerSnippetLen bounds how much of a prior answer is replayed as grounding
// context.
const answerSnippetLen = 200

// RenderSystem renders the behavioral rules for delegated requests,
// optionally augmented with recalled feedback for the current question.
func RenderSystem(ctx context.Context, cfg model.PromptConfig, matches []feedback.Match) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPromptTemplate),
	)
	vars := map[string]any{
		"AssistantName": cfg.AssistantName,
		"BusinessLine":  cfg.BusinessLine,
		"InspectTool":   tools.ToolInspectItem,
		"CriticalTool":  tools.ToolListCritical,
		"MutateTool":    tools.ToolMutateStock,
		"ListAllTool":   tools.ToolListAll,
		"RecallContext": renderRecallContext(matches),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}

func renderRecallContext(matches []feedback.Match) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range matches {
		answer := m.Answer
		if runes := []rune(answer); len(runes) > answerSnippetLen {
			answer = string(runes[:answerSnippetLen]) + "..."
		}
		fmt.Fprintf(&b, "- Pregunta: %s\n  Respuesta previa: %s\n", m.Question, answer)
	}
	return strings.TrimRight(b.String(), "\n")
}
