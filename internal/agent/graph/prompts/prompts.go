package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

//go:embed template/rank_prompt.txt
var rankSystemPrompt string

// RenderIntentSystem renders the intent extraction system prompt via the Eino
// prompt component. Wrapping through the component triggers prompt callbacks.
func RenderIntentSystem(ctx context.Context) (string, error) {
	return render(ctx, intentSystemPrompt)
}

// RenderRankSystem renders the ranking system prompt via the Eino prompt
// component.
func RenderRankSystem(ctx context.Context) (string, error) {
	return render(ctx, rankSystemPrompt)
}

func render(ctx context.Context, content string) (string, error) {
	// Use a messages placeholder so templating never touches the JSON braces
	// inside the prompt body.
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render system prompt: empty result")
	}
	return msgs[0].Content, nil
}
