// Package optim searches PID gains by running trials against the
// simulated robot.
package optim

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// Trial scores one parameter assignment. Lower is better.
type Trial func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, errors.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, errors.Errorf("parameter %q has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of trials a full search runs.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

type Best struct {
	Params map[string]float64
	Score  float64
	Trials int
	// Failed counts trials that returned an error; they never win.
	Failed int
}

// Search runs trial over the full grid. Cancelling ctx stops the search and
// returns ctx.Err with the best result so far.
func (g *GridSearch) Search(ctx context.Context, trial Trial) (Best, error) {
	best := Best{Score: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, make(map[string]float64), trial, &best)
	if err != nil {
		return best, err
	}
	if best.Params == nil {
		return best, errors.Errorf("all %d trials failed", best.Trials)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	trial Trial,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		best.Trials++
		val, err := trial(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			best.Failed++
			return nil
		}
		if val < best.Score {
			best.Score = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, trial, best); err != nil {
			return err
		}
	}
	return nil
}
