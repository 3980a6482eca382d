package graph

import (
	"context"
	"fmt"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	"github.com/ksa-shopping-ranker/server/internal/agent/tools"
)

// fakeResolver returns canned intents in sequence, one per Resolve call.
type fakeResolver struct {
	intents []*model.Intent
	err     error
	calls   int
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) (*model.Intent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.intents) {
		i = len(f.intents) - 1
	}
	return f.intents[i], nil
}

func readyIntent(searchQuery string) *model.Intent {
	return &model.Intent{
		SearchQuery: searchQuery,
		MustHave:    []string{},
		NiceToHave:  []string{},
		MissingInfo: []string{},
		Ready:       true,
	}
}

func notReadyIntent(question string) *model.Intent {
	i := readyIntent("")
	i.Ready = false
	if question != "" {
		i.FollowUpQuestion = &question
	}
	return i
}

// fakeToolbox serves canned search results and real normalization logic.
type fakeToolbox struct {
	searchOffers []*model.Offer
	searchErr    error
	searchCalls  int
	fetchResults map[string]tools.FetchResult
	fetchCalls   int
}

func (f *fakeToolbox) Search(ctx context.Context, query string, limit int) ([]*model.Offer, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchOffers, nil
}

func (f *fakeToolbox) NormalizeSpec(name, retailer, condition string) tools.SpecResult {
	return tools.NormalizeSpec(name, retailer, condition)
}

func (f *fakeToolbox) FetchPages(ctx context.Context, urls []string) map[string]tools.FetchResult {
	f.fetchCalls++
	if f.fetchResults != nil {
		return f.fetchResults
	}
	out := make(map[string]tools.FetchResult, len(urls))
	for _, u := range urls {
		out[u] = tools.FetchResult{}
	}
	return out
}

func (f *fakeToolbox) NormalizePrice(price float64, currency string) tools.PriceResult {
	return tools.NormalizePrice(price, currency)
}

// fakeOracle echoes its candidates back as ranked items.
type fakeOracle struct {
	err       error
	overcount int // when >0, return this many items regardless of TopK
	lastReq   RankRequest
	calls     int
}

func (f *fakeOracle) Rank(ctx context.Context, req RankRequest) (*model.Result, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}

	n := len(req.Offers)
	if f.overcount > 0 {
		n = f.overcount
	} else if req.TopK > 0 && n > req.TopK {
		n = req.TopK
	}

	items := make([]model.RankedItem, 0, n)
	for i := 0; i < n; i++ {
		o := req.Offers[i%len(req.Offers)]
		price, _ := o.EffectivePrice()
		items = append(items, model.RankedItem{
			Name:     o.Name,
			Price:    price,
			Currency: o.Currency,
			Retailer: o.Retailer,
			Link:     o.Link,
			Reason:   fmt.Sprintf("pick %d", i+1),
		})
	}
	return &model.Result{Items: items}, nil
}

func offer(name, retailer, link string, price float64) *model.Offer {
	return &model.Offer{Name: name, Retailer: retailer, Link: link, Price: price}
}
