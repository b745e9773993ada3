package raster

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/core/parallel"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// extractParallelThreshold is the point count above which extraction fans
// out across cores.
const extractParallelThreshold = 2048

// Extract looks up every layer at each point. The result has one row per
// point and one column per layer (LayerNames order). Points outside the grid
// get NaN in every column and false in the onGrid slice.
func (g *Grid) Extract(points []spatial.Point) (*mat.Dense, []bool, error) {
	if len(points) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Grid.Extract: no points")
	}
	if len(g.names) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "Grid.Extract: grid has no layers")
	}

	out := mat.NewDense(len(points), len(g.names), nil)
	onGrid := make([]bool, len(points))

	parallel.ParallelizeWithThreshold(len(points), extractParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			r, c, ok := g.CellOf(points[i])
			onGrid[i] = ok
			for j, name := range g.names {
				v := math.NaN()
				if ok {
					v = g.layers[name].At(r, c)
				}
				out.Set(i, j, v)
			}
		}
	})

	return out, onGrid, nil
}
