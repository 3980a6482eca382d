package graph

import (
	"github.com/ksa-shopping-ranker/server/internal/agent/model"
)

// Observe runs the bookkeeping pass after every actor execution: it counts the
// completed step, deduplicates offers by link and clears the transient tool
// selection. No other state is touched.
func Observe(rc *model.RequestContext) {
	rc.Steps++
	rc.Offers = DedupOffers(rc.Offers)
	rc.NextTool = nil
}

// DedupOffers keeps the first occurrence of every non-empty link, preserving
// order and dropping records without a link. The pass is idempotent.
func DedupOffers(offers []*model.Offer) []*model.Offer {
	seen := make(map[string]struct{}, len(offers))
	deduped := make([]*model.Offer, 0, len(offers))
	for _, o := range offers {
		if o == nil || o.Link == "" {
			continue
		}
		if _, dup := seen[o.Link]; dup {
			continue
		}
		seen[o.Link] = struct{}{}
		deduped = append(deduped, o)
	}
	return deduped
}
