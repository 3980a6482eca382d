package oracles

import (
	"github.com/cloudwego/eino/schema"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// logUsage records token usage and USD cost for one oracle invocation.
func logUsage(oracle, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(usage, pricing)

	logx.Debug().
		Str("oracle", oracle).
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
