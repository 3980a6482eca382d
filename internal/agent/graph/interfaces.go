package graph

import (
	"context"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	"github.com/ksa-shopping-ranker/server/internal/agent/tools"
)

// IntentResolver wraps the external reasoning call that extracts structured
// shopping intent from the raw query. Called at most once per request.
type IntentResolver interface {
	Resolve(ctx context.Context, query string) (*model.Intent, error)
}

// RankRequest carries everything the ranking oracle needs for one selection.
type RankRequest struct {
	Query       string
	Intent      *model.Intent
	TrustedOnly bool
	TopK        int
	Offers      []*model.Offer
}

// RankOracle wraps the external reasoning call that performs final semantic
// selection over a bounded, pre-sorted candidate list.
type RankOracle interface {
	Rank(ctx context.Context, req RankRequest) (*model.Result, error)
}

// Toolbox is the actor-facing surface over the tool adapters. Search and page
// fetch hit external services; spec and price normalization are deterministic.
type Toolbox interface {
	Search(ctx context.Context, query string, limit int) ([]*model.Offer, error)
	NormalizeSpec(name, retailer, condition string) tools.SpecResult
	FetchPages(ctx context.Context, urls []string) map[string]tools.FetchResult
	NormalizePrice(price float64, currency string) tools.PriceResult
}

// LiveToolbox wires the production tool adapters behind the Toolbox surface.
type LiveToolbox struct {
	SearchClient *tools.SearchClient
	PageFetcher  *tools.PageFetcher
}

func (t *LiveToolbox) Search(ctx context.Context, query string, limit int) ([]*model.Offer, error) {
	return t.SearchClient.Search(ctx, query, limit)
}

func (t *LiveToolbox) NormalizeSpec(name, retailer, condition string) tools.SpecResult {
	return tools.NormalizeSpec(name, retailer, condition)
}

func (t *LiveToolbox) FetchPages(ctx context.Context, urls []string) map[string]tools.FetchResult {
	return t.PageFetcher.FetchBatch(ctx, urls)
}

func (t *LiveToolbox) NormalizePrice(price float64, currency string) tools.PriceResult {
	return tools.NormalizePrice(price, currency)
}

var _ Toolbox = (*LiveToolbox)(nil)
