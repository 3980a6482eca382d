package model

// Intent is the structured extraction of the user's shopping need. It is set at
// most once per request and immutable after the planner accepts it as ready.
type Intent struct {
	NeedSummary      string   `json:"need_summary"`
	Category         string   `json:"category"`
	SearchQuery      string   `json:"search_query"`
	BudgetMin        *float64 `json:"budget_min"`
	BudgetMax        *float64 `json:"budget_max"`
	MustHave         []string `json:"must_have"`
	NiceToHave       []string `json:"nice_to_have"`
	MissingInfo      []string `json:"missing_info"`
	FollowUpQuestion *string  `json:"follow_up_question"`
	Ready            bool     `json:"ready"`
}

// RankPolicy is the oracle-facing slice of the intent plus the caller's
// trusted-only preference.
type RankPolicy struct {
	NeedSummary string   `json:"need_summary"`
	Category    string   `json:"category"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	MustHave    []string `json:"must_have"`
	NiceToHave  []string `json:"nice_to_have"`
	TrustedOnly bool     `json:"trusted_only"`
}

// Policy derives the ranking policy from an intent.
func (i *Intent) Policy(trustedOnly bool) RankPolicy {
	return RankPolicy{
		NeedSummary: i.NeedSummary,
		Category:    i.Category,
		BudgetMin:   i.BudgetMin,
		BudgetMax:   i.BudgetMax,
		MustHave:    i.MustHave,
		NiceToHave:  i.NiceToHave,
		TrustedOnly: trustedOnly,
	}
}

// FallbackIntent is the degraded intent used when the resolver fails: searching
// proceeds best-effort with the raw query.
func FallbackIntent(query string) *Intent {
	return &Intent{
		SearchQuery: query,
		MustHave:    []string{},
		NiceToHave:  []string{},
		MissingInfo: []string{},
		Ready:       true,
	}
}
