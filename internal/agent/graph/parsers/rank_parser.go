package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
)

// ParseRankResponse decodes the ranking oracle's JSON output. Unlike intent
// parsing there is no degraded path here; a malformed ranking response is a
// hard failure because no fallback ranking exists.
func ParseRankResponse(content string) (*model.Result, error) {
	payload, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var out model.Result
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("unmarshal rank response: %w", err)
	}
	if out.Items == nil {
		out.Items = []model.RankedItem{}
	}
	return &out, nil
}
