package graph

import (
	"context"
	"fmt"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// Planner decides the next tool for the current cycle, or marks the context
// done. Apart from the one-time intent resolution it is a pure function of the
// request context, evaluated in strict priority order; every path sets either
// NextTool or Done, so the loop terminates within the step budget.
type Planner struct {
	resolver      IntentResolver
	searchLimit   int
	maxFetchPages int
}

func NewPlanner(resolver IntentResolver, searchLimit, maxFetchPages int) *Planner {
	if searchLimit <= 0 {
		searchLimit = 40
	}
	if maxFetchPages <= 0 {
		maxFetchPages = 3
	}
	return &Planner{resolver: resolver, searchLimit: searchLimit, maxFetchPages: maxFetchPages}
}

// Decide mutates rc with the next tool selection or a terminal signal.
func (p *Planner) Decide(ctx context.Context, rc *model.RequestContext) {
	// Intent gate: resolve once, before any tool may run.
	if rc.Intent == nil {
		p.resolveIntent(ctx, rc)
		if rc.Done {
			return
		}
	}

	// Step budget is the hard ceiling on tool executions.
	if rc.Steps >= model.MaxToolSteps {
		rc.Done = true
		return
	}

	// A search that produced nothing terminates the request; the search tool
	// is never re-invoked regardless of outcome.
	if rc.Tried(model.ToolShoppingSearch) && len(rc.Offers) == 0 {
		rc.Done = true
		rc.RecordError("No offers found from shopping_search")
		return
	}

	if !rc.Tried(model.ToolShoppingSearch) {
		rc.NextTool = model.SearchCall{Query: rc.SearchQuery, Limit: p.searchLimit}
		return
	}

	if len(rc.Offers) > 0 && !rc.Tried(model.ToolSpecNormalizerBatch) {
		rc.NextTool = model.SpecNormalizeCall{}
		return
	}

	// Enrichment is best-effort and bounded. When no offer carries a link the
	// step is skipped without being marked tried; the condition is re-checked
	// on later cycles, which is harmless because the stages below still
	// guarantee termination.
	if len(rc.Offers) > 0 && !rc.Tried(model.ToolProductPageFetch) {
		urls := p.enrichmentURLs(rc.Offers)
		if len(urls) > 0 {
			rc.NextTool = model.PageFetchCall{URLs: urls}
			return
		}
	}

	if len(rc.Offers) > 0 && anyMissingSARPrice(rc.Offers) && !rc.Tried(model.ToolPriceNormalizerBatch) {
		rc.NextTool = model.PriceNormalizeCall{}
		return
	}

	rc.Done = true
}

// resolveIntent runs the intent oracle and applies the clarification budget.
func (p *Planner) resolveIntent(ctx context.Context, rc *model.RequestContext) {
	intent, err := p.resolver.Resolve(ctx, rc.Query)
	if err != nil {
		// Resolver failures follow the tool failure policy: log, degrade,
		// continue with a best-effort intent built from the raw query.
		rc.RecordError(fmt.Sprintf("intent_resolver: %v", err))
		logx.Warn().Err(err).Msg("intent resolution failed; proceeding with fallback intent")
		intent = model.FallbackIntent(rc.Query)
	}

	rc.Intent = intent
	rc.SearchQuery = intent.SearchQuery
	if rc.SearchQuery == "" {
		rc.SearchQuery = rc.Query
	}

	if !intent.Ready {
		if rc.ClarificationCount >= model.MaxClarifications {
			// Already asked once; proceed best-effort. The system never asks
			// a second clarifying question.
			intent.Ready = true
			intent.FollowUpQuestion = nil
			rc.NeedsMoreInfo = false
			rc.FollowUpQuestion = ""
			return
		}
		rc.NeedsMoreInfo = true
		if intent.FollowUpQuestion != nil {
			rc.FollowUpQuestion = *intent.FollowUpQuestion
		}
		rc.ClarificationCount++
		rc.Done = true
		return
	}

	rc.NeedsMoreInfo = false
	rc.FollowUpQuestion = ""
}

// enrichmentURLs takes the links of the first maxFetchPages offers, skipping
// offers without one.
func (p *Planner) enrichmentURLs(offers []*model.Offer) []string {
	head := offers
	if len(head) > p.maxFetchPages {
		head = head[:p.maxFetchPages]
	}
	var urls []string
	for _, o := range head {
		if o.Link != "" {
			urls = append(urls, o.Link)
		}
	}
	return urls
}

func anyMissingSARPrice(offers []*model.Offer) bool {
	for _, o := range offers {
		if o.PriceSAR == nil {
			return true
		}
	}
	return false
}
