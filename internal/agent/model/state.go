package model

// Hard resource limits for a single request. The planner's budgets are the only
// termination guarantees of the loop.
const (
	MaxToolSteps      = 5
	MaxClarifications = 1
)

// Tool names as recorded in RequestContext.TriedTools.
const (
	ToolShoppingSearch       = "shopping_search"
	ToolSpecNormalizerBatch  = "spec_normalizer_batch"
	ToolProductPageFetch     = "product_page_fetch_batch"
	ToolPriceNormalizerBatch = "price_normalizer_batch"
)

// ToolCall is a closed sum of tool invocations. Each variant carries its own
// typed argument payload so the actor's dispatch is exhaustively checked
// instead of being keyed on strings.
type ToolCall interface {
	ToolName() string
	sealed()
}

// SearchCall runs the shopping search provider.
type SearchCall struct {
	Query string
	Limit int
}

func (SearchCall) ToolName() string { return ToolShoppingSearch }
func (SearchCall) sealed()          {}

// SpecNormalizeCall derives model/storage/condition over the full offer list.
type SpecNormalizeCall struct{}

func (SpecNormalizeCall) ToolName() string { return ToolSpecNormalizerBatch }
func (SpecNormalizeCall) sealed()          {}

// PageFetchCall enriches offers from their product pages.
type PageFetchCall struct {
	URLs []string
}

func (PageFetchCall) ToolName() string { return ToolProductPageFetch }
func (PageFetchCall) sealed()          {}

// PriceNormalizeCall computes SAR prices over the full offer list.
type PriceNormalizeCall struct{}

func (PriceNormalizeCall) ToolName() string { return ToolPriceNormalizerBatch }
func (PriceNormalizeCall) sealed()          {}

// RequestContext is the per-request loop state. Each request owns exactly one
// context for its lifetime; it is created at ingress and discarded with the
// response, so no locking is required.
type RequestContext struct {
	Query       string
	TrustedOnly bool

	Intent      *Intent
	SearchQuery string

	// Offers is append-only except for the observer's dedup pass, which
	// replaces it with a filtered copy.
	Offers []*Offer

	// TriedTools records every executed tool name, including failed runs, to
	// prevent retry loops.
	TriedTools []string

	Steps              int
	ClarificationCount int

	// Errors collects human-readable tool failure strings; never cleared.
	Errors []string

	Done             bool
	NeedsMoreInfo    bool
	FollowUpQuestion string

	// NextTool holds the planner's selection for the current cycle only; the
	// observer clears it after every actor execution.
	NextTool ToolCall
}

// NewRequestContext creates the loop state for one inbound query.
func NewRequestContext(query string, trustedOnly bool) *RequestContext {
	return &RequestContext{
		Query:       query,
		TrustedOnly: trustedOnly,
	}
}

// Tried reports whether the named tool has already been executed this request.
func (rc *RequestContext) Tried(name string) bool {
	for _, t := range rc.TriedTools {
		if t == name {
			return true
		}
	}
	return false
}

// RecordError appends a failure string without aborting the loop.
func (rc *RequestContext) RecordError(msg string) {
	rc.Errors = append(rc.Errors, msg)
}
