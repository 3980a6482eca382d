package parsers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	errx "github.com/ksa-shopping-ranker/server/internal/core/error"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// rawIntent tolerates both the canonical field names and the legacy aliases
// some models still emit.
type rawIntent struct {
	NeedSummary      string   `json:"need_summary"`
	Category         string   `json:"category"`
	SearchQuery      string   `json:"search_query"`
	BudgetMin        *float64 `json:"budget_min"`
	BudgetMax        *float64 `json:"budget_max"`
	MustHave         []string `json:"must_have"`
	NiceToHave       []string `json:"nice_to_have"`
	MissingInfo      []string `json:"missing_info"`
	FollowUpQuestion *string  `json:"follow_up_question"`
	Ready            *bool    `json:"ready"`

	// legacy key names
	EnoughInformation *bool    `json:"enough_information"`
	MissingDetails    []string `json:"missing_details"`
}

// ParseIntentResponse normalizes the intent oracle's JSON output into the
// canonical intent shape: legacy keys are folded in, optional collections
// default to empty and blank follow-up questions become absent.
func ParseIntentResponse(content string) (intent *model.Intent, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "intent_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("intent parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			intent = nil
		}
	}()

	payload, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var raw rawIntent
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}

	ready := false
	switch {
	case raw.Ready != nil:
		ready = *raw.Ready
	case raw.EnoughInformation != nil:
		ready = *raw.EnoughInformation
	}

	missing := raw.MissingInfo
	if missing == nil {
		missing = raw.MissingDetails
	}

	out := &model.Intent{
		NeedSummary: raw.NeedSummary,
		Category:    raw.Category,
		SearchQuery: raw.SearchQuery,
		BudgetMin:   raw.BudgetMin,
		BudgetMax:   raw.BudgetMax,
		MustHave:    emptyIfNil(raw.MustHave),
		NiceToHave:  emptyIfNil(raw.NiceToHave),
		MissingInfo: emptyIfNil(missing),
		Ready:       ready,
	}

	// Whitespace-only follow-up questions are normalized to absent.
	if raw.FollowUpQuestion != nil {
		if q := strings.TrimSpace(*raw.FollowUpQuestion); q != "" {
			out.FollowUpQuestion = &q
		}
	}

	return out, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
