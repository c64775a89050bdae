package reasoning

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/aura-uw-poc/server/internal/underwriting/model"
)

//go:embed template/system_prompt.txt
var orchestratorSystemPrompt string

// RenderSystemPrompt renders the underwriting orchestrator system prompt for
// the configured carrier branding.
func RenderSystemPrompt(ctx context.Context, config model.PromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(orchestratorSystemPrompt),
	)
	vars := map[string]any{
		"AssistantName": config.AssistantName,
		"CompanyName":   config.CompanyName,
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
