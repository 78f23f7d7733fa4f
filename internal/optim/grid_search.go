package optim

import (
	"context"
	"math"
)

// GridSearch exhaustively evaluates an axis-aligned lattice over the
// bounded box. It is hopeless beyond a few dimensions but useful as a
// deterministic baseline when validating PSO results on coarse grids.
type GridSearch struct {
	bounds [][2]float64
	steps  int
}

func NewGridSearch(bounds [][2]float64, steps int) *GridSearch {
	if steps < 2 {
		steps = 2
	}
	return &GridSearch{bounds: bounds, steps: steps}
}

// Search returns the best lattice point and its value. Failed
// evaluations are skipped; context cancellation aborts the scan.
func (g *GridSearch) Search(ctx context.Context, obj Objective) ([]float64, float64, error) {
	best := math.Inf(1)
	var bestPos []float64

	pos := make([]float64, len(g.bounds))
	err := g.searchRecursive(ctx, 0, pos, obj, &best, &bestPos)
	return bestPos, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	pos []float64,
	obj Objective,
	best *float64,
	bestPos *[]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.bounds) {
		val, err := obj(ctx, pos)
		if err != nil {
			return nil
		}
		if val < *best {
			*best = val
			*bestPos = append([]float64(nil), pos...)
		}
		return nil
	}

	b := g.bounds[depth]
	for i := 0; i < g.steps; i++ {
		pos[depth] = b[0] + (b[1]-b[0])*float64(i)/float64(g.steps-1)
		if err := g.searchRecursive(ctx, depth+1, pos, obj, best, bestPos); err != nil {
			return err
		}
	}
	return nil
}
