package graph

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	errx "github.com/ksa-shopping-ranker/server/internal/core/error"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

const (
	// defaultClarificationNote is the localized prompt returned when the
	// intent oracle marked the request not-ready without a follow-up question.
	defaultClarificationNote = "أحتاج مزيداً من التفاصيل لمساعدتك."

	noTrustedNote    = "No trusted KSA offers matched the query."
	noMatchesNote    = "No matching offers found after filtering."
	rawFallbackLimit = 5

	// missingPriceSentinel pushes offers without any price to the end of the
	// deterministic pre-sort.
	missingPriceSentinel = 9e9
)

// Finisher is the terminal stage: clarification short-circuit, multi-stage
// filtering, trust partitioning, deterministic pre-sort and delegation to the
// ranking oracle. It runs exactly once per request and never iterates.
type Finisher struct {
	oracle    RankOracle
	topK      int
	maxOffers int
}

func NewFinisher(oracle RankOracle, topK, maxOffers int) *Finisher {
	if topK <= 0 {
		topK = 4
	}
	if maxOffers <= 0 {
		maxOffers = 20
	}
	return &Finisher{oracle: oracle, topK: topK, maxOffers: maxOffers}
}

// Finish assembles the terminal result. The only fatal path is a ranking
// oracle failure, for which no offline fallback exists.
func (f *Finisher) Finish(ctx context.Context, rc *model.RequestContext) (*model.Result, error) {
	if rc.NeedsMoreInfo {
		note := rc.FollowUpQuestion
		if note == "" {
			note = defaultClarificationNote
		}
		return model.NewResult(note), nil
	}

	intent := rc.Intent
	if intent == nil {
		intent = model.FallbackIntent(rc.Query)
	}

	candidates := filterBasic(rc.Offers, intent)

	var trusted []*model.Offer
	for _, o := range candidates {
		if model.IsTrustedRetailer(o.Retailer) {
			trusted = append(trusted, o)
		}
	}

	if rc.TrustedOnly && len(trusted) == 0 {
		rc.RecordError("No trusted offers found")
		return model.NewResult(noTrustedNote), nil
	}

	// Base-set fallback chain: trusted → filtered → all collected offers →
	// a small raw sample, then give up with a note.
	base := candidates
	if rc.TrustedOnly && len(trusted) > 0 {
		base = trusted
	}
	if len(base) == 0 {
		base = rc.Offers
	}
	if len(base) == 0 && len(rc.Offers) > 0 {
		if len(rc.Offers) > rawFallbackLimit {
			base = rc.Offers[:rawFallbackLimit]
		} else {
			base = rc.Offers
		}
	}
	if len(base) == 0 {
		return model.NewResult(noMatchesNote), nil
	}

	presort(base)

	if len(base) > f.maxOffers {
		base = base[:f.maxOffers]
	}

	ranked, err := f.oracle.Rank(ctx, RankRequest{
		Query:       rc.Query,
		Intent:      intent,
		TrustedOnly: rc.TrustedOnly,
		TopK:        f.topK,
		Offers:      base,
	})
	if err != nil {
		return nil, errx.New(err, http.StatusBadGateway, errx.OracleErrorMessage)
	}
	if ranked == nil {
		ranked = model.NewResult("")
	}

	// Defensive truncation in case the oracle over-returns.
	if len(ranked.Items) > f.topK {
		ranked.Items = ranked.Items[:f.topK]
	}
	if ranked.Items == nil {
		ranked.Items = []model.RankedItem{}
	}

	for _, it := range ranked.Items {
		logx.Debug().Str("retailer", it.Retailer).Str("name", it.Name).
			Float64("price", it.Price).Str("currency", it.Currency).Msg("top pick")
	}

	rc.NeedsMoreInfo = false
	return ranked, nil
}

// filterBasic retains offers with a link, a usable price inside the budget
// window, a name containing the category and every must-have token.
func filterBasic(offers []*model.Offer, intent *model.Intent) []*model.Offer {
	category := strings.ToLower(intent.Category)

	var out []*model.Offer
	for _, o := range offers {
		if o.Link == "" {
			continue
		}
		price, ok := o.EffectivePrice()
		if !ok {
			continue
		}
		if intent.BudgetMin != nil && price < *intent.BudgetMin {
			continue
		}
		if intent.BudgetMax != nil && price > *intent.BudgetMax {
			continue
		}

		name := strings.ToLower(o.Name)
		if category != "" && !strings.Contains(name, category) {
			continue
		}
		if !hasAllTokens(name, intent.MustHave) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func hasAllTokens(name string, tokens []string) bool {
	for _, token := range tokens {
		t := strings.ToLower(token)
		if t != "" && !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

// ConditionRank orders conditions New < Refurbished < Used < anything else,
// by case-insensitive prefix match.
func ConditionRank(condition string) int {
	c := strings.ToLower(condition)
	switch {
	case strings.HasPrefix(c, "new"):
		return 0
	case strings.HasPrefix(c, "refurb"):
		return 1
	case strings.HasPrefix(c, "used"):
		return 2
	default:
		return 3
	}
}

// presort stable-sorts the base set ascending by (trusted-first, condition
// rank, price with missing-price sentinel).
func presort(offers []*model.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]

		at, bt := sortTrust(a), sortTrust(b)
		if at != bt {
			return at < bt
		}

		ac, bc := ConditionRank(a.Condition), ConditionRank(b.Condition)
		if ac != bc {
			return ac < bc
		}

		return sortPrice(a) < sortPrice(b)
	})
}

func sortTrust(o *model.Offer) int {
	if model.IsTrustedRetailer(o.Retailer) {
		return 0
	}
	return 1
}

func sortPrice(o *model.Offer) float64 {
	if price, ok := o.EffectivePrice(); ok {
		return price
	}
	return missingPriceSentinel
}
