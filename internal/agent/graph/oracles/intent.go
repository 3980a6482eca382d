package oracles

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ksa-shopping-ranker/server/internal/agent/graph"
	"github.com/ksa-shopping-ranker/server/internal/agent/graph/parsers"
	"github.com/ksa-shopping-ranker/server/internal/agent/graph/prompts"
	"github.com/ksa-shopping-ranker/server/internal/agent/model"
)

// GeminiIntentResolver extracts structured shopping intent through a single
// chat model call.
type GeminiIntentResolver struct {
	cm        einomodel.BaseChatModel
	modelName string
}

func NewIntentResolver(cm einomodel.BaseChatModel, modelName string) *GeminiIntentResolver {
	return &GeminiIntentResolver{cm: cm, modelName: modelName}
}

func (r *GeminiIntentResolver) Resolve(ctx context.Context, query string) (*model.Intent, error) {
	system, err := prompts.RenderIntentSystem(ctx)
	if err != nil {
		return nil, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(fmt.Sprintf("User request:\n%s\n\nRespond with JSON.", query)),
	}

	out, err := r.cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("intent model call: %w", err)
	}
	logUsage("intent", r.modelName, out)

	return parsers.ParseIntentResponse(out.Content)
}

var _ graph.IntentResolver = (*GeminiIntentResolver)(nil)
