package graph

import (
	"context"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// Config holds everything needed to compose the agent loop end-to-end.
type Config struct {
	Resolver IntentResolver
	Toolbox  Toolbox
	Oracle   RankOracle

	SearchLimit   int
	MaxFetchPages int
	RankTopK      int
	RankMaxOffers int
}

// Engine drives the planner → actor → observer cycle until the planner signals
// done, then invokes the finisher exactly once. There is no other exit path;
// the planner's budgets are the only termination guarantees.
type Engine struct {
	planner  *Planner
	actor    *Actor
	finisher *Finisher
}

func New(cfg Config) *Engine {
	return &Engine{
		planner:  NewPlanner(cfg.Resolver, cfg.SearchLimit, cfg.MaxFetchPages),
		actor:    NewActor(cfg.Toolbox),
		finisher: NewFinisher(cfg.Oracle, cfg.RankTopK, cfg.RankMaxOffers),
	}
}

// Run processes a single request. The request context is owned exclusively by
// this call; nothing persists across requests.
func (e *Engine) Run(ctx context.Context, query string, trustedOnly bool) (*model.Result, error) {
	rc := model.NewRequestContext(query, trustedOnly)

	for !rc.Done {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.planner.Decide(ctx, rc)
		if rc.Done {
			break
		}

		e.actor.Execute(ctx, rc)
		Observe(rc)
	}

	logx.Debug().Int("steps", rc.Steps).Int("offers", len(rc.Offers)).
		Strs("tried_tools", rc.TriedTools).Int("errors", len(rc.Errors)).
		Msg("loop finished; handing off to finisher")

	return e.finisher.Finish(ctx, rc)
}
