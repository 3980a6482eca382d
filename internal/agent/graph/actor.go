package graph

import (
	"context"
	"fmt"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// Actor executes the tool selected by the planner and merges results into the
// request context. A tool failure is recorded and never aborts the loop; the
// cycle continues to the observer as if the step completed with no new data.
type Actor struct {
	tb Toolbox
}

func NewActor(tb Toolbox) *Actor {
	return &Actor{tb: tb}
}

// Execute dispatches on the closed ToolCall sum. The tool name is recorded
// into TriedTools unconditionally, even on failure, to prevent retry loops.
func (a *Actor) Execute(ctx context.Context, rc *model.RequestContext) {
	call := rc.NextTool
	if call == nil {
		rc.TriedTools = append(rc.TriedTools, "none")
		return
	}
	rc.TriedTools = append(rc.TriedTools, call.ToolName())

	logx.Debug().Str("tool", call.ToolName()).Int("step", rc.Steps).Msg("executing tool")

	var err error
	switch c := call.(type) {
	case model.SearchCall:
		err = a.runSearch(ctx, rc, c)
	case model.SpecNormalizeCall:
		a.runSpecNormalize(rc)
	case model.PageFetchCall:
		a.runPageFetch(ctx, rc, c)
	case model.PriceNormalizeCall:
		a.runPriceNormalize(rc)
	}

	if err != nil {
		rc.RecordError(fmt.Sprintf("%s: %v", call.ToolName(), err))
		logx.Warn().Err(err).Str("tool", call.ToolName()).Msg("tool execution failed; loop continues")
	}
}

func (a *Actor) runSearch(ctx context.Context, rc *model.RequestContext, c model.SearchCall) error {
	offers, err := a.tb.Search(ctx, c.Query, c.Limit)
	if err != nil {
		return err
	}
	rc.Offers = append(rc.Offers, offers...)
	return nil
}

func (a *Actor) runSpecNormalize(rc *model.RequestContext) {
	for _, o := range rc.Offers {
		res := a.tb.NormalizeSpec(o.Name, o.Retailer, o.Condition)
		o.Model = res.Model
		o.Storage = res.Storage
		o.Condition = res.Condition
	}
}

func (a *Actor) runPageFetch(ctx context.Context, rc *model.RequestContext, c model.PageFetchCall) {
	pages := a.tb.FetchPages(ctx, c.URLs)
	for _, o := range rc.Offers {
		page, ok := pages[o.Link]
		if !ok || !page.OK {
			continue
		}
		// Fetched pages refine the derived fields only when they actually
		// supply a value.
		if page.Model != "" {
			o.Model = page.Model
		}
		if page.Storage != "" {
			o.Storage = page.Storage
		}
	}
}

func (a *Actor) runPriceNormalize(rc *model.RequestContext) {
	for _, o := range rc.Offers {
		res := a.tb.NormalizePrice(o.Price, o.Currency)
		price := res.PriceSAR
		o.PriceSAR = &price
		o.Currency = res.Currency
	}
}
