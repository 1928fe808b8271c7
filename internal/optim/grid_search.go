package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/flowgrid/internal/experiment"
)

// Trial is one evaluated parameter combination.
type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}

// Search evaluates every combination and returns the best parameters, the
// best metric value and all trials sorted best first. Combinations whose
// experiment cannot be built are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &trials); err != nil {
		return nil, 0, trials, err
	}
	if len(trials) == 0 {
		return nil, math.NaN(), nil, nil
	}

	sort.SliceStable(trials, func(i, j int) bool { return g.better(trials[i].Value, trials[j].Value) })
	return trials[0].Params, trials[0].Value, trials, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx, false)
		if err != nil {
			return err
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*trials = append(*trials, Trial{Params: params, Value: result.Metrics[metricName]})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}
