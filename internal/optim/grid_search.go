package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/experiment"
)

// Objective scores one parameter assignment; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination of the grid and returns the one with
// the lowest score. Ties keep the first combination visited.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search evaluated no points")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil {
			return err
		}

		if val < *best || *bestParams == nil {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// MetricObjective runs base with the parameters applied and scores it by a
// named metric. With maximize set the metric is negated.
func MetricObjective(base *config.Config, registry *experiment.Registry, metric string, maximize bool) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return 0, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}

		val, ok := result.Metrics[metric]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", metric)
		}
		if maximize {
			val = -val
		}
		return val, nil
	}
}
