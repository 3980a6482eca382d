package oracles

import (
	"context"
	"encoding/json"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ksa-shopping-ranker/server/internal/agent/graph"
	"github.com/ksa-shopping-ranker/server/internal/agent/graph/parsers"
	"github.com/ksa-shopping-ranker/server/internal/agent/graph/prompts"
	"github.com/ksa-shopping-ranker/server/internal/agent/model"
)

// rankSchema is sent verbatim so the model returns exactly the result shape.
const rankSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "price", "currency", "retailer", "link", "reason"],
        "properties": {
          "name": {"type": "string"},
          "price": {"type": "number"},
          "currency": {"type": "string"},
          "retailer": {"type": "string"},
          "link": {"type": "string"},
          "image": {"type": ["string", "null"]},
          "reason": {"type": "string"}
        }
      }
    },
    "notes": {"type": ["string", "null"]}
  }
}`

// GeminiRankOracle performs policy-aware final selection with one chat model
// call over a bounded candidate list.
type GeminiRankOracle struct {
	cm        einomodel.BaseChatModel
	modelName string
}

func NewRankOracle(cm einomodel.BaseChatModel, modelName string) *GeminiRankOracle {
	return &GeminiRankOracle{cm: cm, modelName: modelName}
}

func (o *GeminiRankOracle) Rank(ctx context.Context, req graph.RankRequest) (*model.Result, error) {
	slim := slimCandidates(req.Offers)
	if len(slim) == 0 {
		return model.NewResult("No offers available for ranking."), nil
	}

	system, err := prompts.RenderRankSystem(ctx)
	if err != nil {
		return nil, err
	}

	policyJSON, err := json.Marshal(req.Intent.Policy(req.TrustedOnly))
	if err != nil {
		return nil, fmt.Errorf("marshal rank policy: %w", err)
	}
	offersJSON, err := json.Marshal(slim)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	user := fmt.Sprintf(
		"User query:\n%s\n\nShopping intent:\n%s\n\nCandidate offers:\n%s\n\nReturn schema:\n%s",
		req.Query, policyJSON, offersJSON, rankSchema,
	)

	out, err := o.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return nil, fmt.Errorf("ranking model call: %w", err)
	}
	logUsage("rank", o.modelName, out)

	result, err := parsers.ParseRankResponse(out.Content)
	if err != nil {
		return nil, err
	}
	if req.TopK > 0 && len(result.Items) > req.TopK {
		result.Items = result.Items[:req.TopK]
	}
	return result, nil
}

// slimCandidates converts offers to the bounded oracle shape, excluding any
// record without a link.
func slimCandidates(offers []*model.Offer) []model.SlimOffer {
	slim := make([]model.SlimOffer, 0, len(offers))
	for _, o := range offers {
		if o.Link == "" {
			continue
		}
		slim = append(slim, o.Slim())
	}
	return slim
}

var _ graph.RankOracle = (*GeminiRankOracle)(nil)
