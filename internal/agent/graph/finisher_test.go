package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	errx "github.com/ksa-shopping-ranker/server/internal/core/error"
)

func TestFinisherClarificationShortCircuit(t *testing.T) {
	oracle := &fakeOracle{}
	f := NewFinisher(oracle, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.NeedsMoreInfo = true
	rc.FollowUpQuestion = "كم ميزانيتك؟"

	res, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.NotNil(t, res.Notes)
	assert.Equal(t, "كم ميزانيتك؟", *res.Notes)
	assert.Zero(t, oracle.calls, "no ranking on the clarification path")
}

func TestFinisherClarificationDefaultNote(t *testing.T) {
	f := NewFinisher(&fakeOracle{}, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.NeedsMoreInfo = true

	res, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	require.NotNil(t, res.Notes)
	assert.Equal(t, defaultClarificationNote, *res.Notes)
}

func TestFilterBasic(t *testing.T) {
	min, max := 2000.0, 5000.0
	intent := &model.Intent{
		Category:  "iphone",
		BudgetMin: &min,
		BudgetMax: &max,
		MustHave:  []string{"pro"},
	}

	keep := offer("iPhone 15 Pro", "Noon", "https://x/ok", 3000)
	rejected := map[string]*model.Offer{
		"no link":           offer("iPhone 15 Pro", "Noon", "", 3000),
		"below budget":      offer("iPhone 15 Pro", "Noon", "https://x/cheap", 1500),
		"above budget":      offer("iPhone 15 Pro", "Noon", "https://x/dear", 6000),
		"wrong category":    offer("Galaxy S24", "Noon", "https://x/galaxy", 3000),
		"missing must-have": offer("iPhone 15", "Noon", "https://x/plain", 3000),
		"no price":          {Name: "iPhone 15 Pro", Retailer: "Noon", Link: "https://x/nop"},
	}

	offers := []*model.Offer{keep}
	for reason, o := range rejected {
		assert.Empty(t, filterBasic([]*model.Offer{o}, intent), reason)
		offers = append(offers, o)
	}

	out := filterBasic(offers, intent)

	require.Len(t, out, 1)
	assert.Equal(t, "https://x/ok", out[0].Link)
}

func TestFilterBasicPrefersNormalizedPrice(t *testing.T) {
	max := 1000.0
	intent := &model.Intent{BudgetMax: &max}

	sar := 750.0
	o := &model.Offer{Name: "iPhone", Link: "https://x/a", Price: 200, PriceSAR: &sar}

	out := filterBasic([]*model.Offer{o}, intent)
	require.Len(t, out, 1)

	over := 1200.0
	o.PriceSAR = &over
	assert.Empty(t, filterBasic([]*model.Offer{o}, intent), "price_sar wins over raw price")
}

func TestFinisherTrustedOnlyNoTrusted(t *testing.T) {
	oracle := &fakeOracle{}
	f := NewFinisher(oracle, 4, 20)
	rc := model.NewRequestContext("q", true)
	rc.Intent = readyIntent("q")
	rc.Offers = []*model.Offer{
		offer("iPhone 15", "Random Shop", "https://x/a", 3000),
		offer("iPhone 15", "Another Shop", "https://x/b", 3200),
	}

	res, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.NotNil(t, res.Notes)
	assert.Equal(t, noTrustedNote, *res.Notes)
	require.Len(t, rc.Errors, 1)
	assert.Equal(t, "No trusted offers found", rc.Errors[0])
	assert.Zero(t, oracle.calls)
}

func TestFinisherNoOffersAtAll(t *testing.T) {
	f := NewFinisher(&fakeOracle{}, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.Intent = readyIntent("q")

	res, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.NotNil(t, res.Notes)
	assert.Equal(t, noMatchesNote, *res.Notes)
}

func TestConditionRankTotalOrder(t *testing.T) {
	assert.Equal(t, 0, ConditionRank("New"))
	assert.Equal(t, 0, ConditionRank("new - sealed"))
	assert.Equal(t, 1, ConditionRank("Refurbished"))
	assert.Equal(t, 2, ConditionRank("Used - like new"))
	assert.Equal(t, 3, ConditionRank("Unknown"))
	assert.Equal(t, 3, ConditionRank(""))
}

func TestPresortOrdering(t *testing.T) {
	used := offer("used", "Noon", "https://x/used", 100)
	used.Condition = "Used"
	newer := offer("new", "Noon", "https://x/new", 200)
	newer.Condition = "New"
	refurb := offer("refurb", "Noon", "https://x/refurb", 50)
	refurb.Condition = "Refurbished"
	unknown := offer("unknown", "Noon", "https://x/unknown", 10)
	unknown.Condition = "OpenBox"
	untrusted := offer("untrusted new", "Some Shop", "https://x/untrusted", 1)
	untrusted.Condition = "New"

	offers := []*model.Offer{used, newer, refurb, unknown, untrusted}
	presort(offers)

	got := make([]string, len(offers))
	for i, o := range offers {
		got[i] = o.Name
	}
	// Trusted first, then New → Refurbished → Used → other.
	assert.Equal(t, []string{"new", "refurb", "used", "unknown", "untrusted new"}, got)
}

func TestPresortMissingPriceSortsLast(t *testing.T) {
	priced := offer("priced", "Noon", "https://x/priced", 500)
	unpriced := &model.Offer{Name: "unpriced", Retailer: "Noon", Link: "https://x/unpriced"}

	offers := []*model.Offer{unpriced, priced}
	presort(offers)

	assert.Equal(t, "priced", offers[0].Name)
}

func TestFinisherBoundsOracleInput(t *testing.T) {
	oracle := &fakeOracle{}
	f := NewFinisher(oracle, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.Intent = readyIntent("q")
	for i := 0; i < 30; i++ {
		rc.Offers = append(rc.Offers, offer("iPhone", "Noon", "https://x/"+string(rune('a'+i)), float64(100+i)))
	}

	_, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	assert.Len(t, oracle.lastReq.Offers, 20)
	assert.Equal(t, 4, oracle.lastReq.TopK)
}

func TestFinisherTruncatesOverReturningOracle(t *testing.T) {
	oracle := &fakeOracle{overcount: 9}
	f := NewFinisher(oracle, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.Intent = readyIntent("q")
	rc.Offers = []*model.Offer{offer("iPhone", "Noon", "https://x/a", 100)}

	res, err := f.Finish(context.Background(), rc)

	require.NoError(t, err)
	assert.Len(t, res.Items, 4)
}

func TestFinisherOracleFailureIsFatal(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("model overloaded")}
	f := NewFinisher(oracle, 4, 20)
	rc := model.NewRequestContext("q", false)
	rc.Intent = readyIntent("q")
	rc.Offers = []*model.Offer{offer("iPhone", "Noon", "https://x/a", 100)}

	_, err := f.Finish(context.Background(), rc)

	require.Error(t, err)
	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.OracleErrorMessage, appErr.Message)
}
