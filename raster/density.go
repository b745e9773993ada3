package raster

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/core/parallel"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// DensityLayer is the layer name of grids built by DensitySurface.
const DensityLayer = "density"

// densityParallelThreshold is the row count above which DensitySurface fans out.
const densityParallelThreshold = 16

// DensitySurface builds a bias surface from occurrence points: each cell
// holds the Gaussian kernel density (bandwidth in km, great-circle distance)
// of points evaluated at the cell centre. Cells missing in template stay NaN.
// The result has the template's extent and shape.
func DensitySurface(template *Grid, points []spatial.Point, bandwidthKm float64) (*Grid, error) {
	const op = "DensitySurface"
	if len(points) == 0 {
		return nil, errors.NewInvalidParameterError(op, "occurrences", "at least one occurrence point is required", 0)
	}
	if !(bandwidthKm > 0) || math.IsInf(bandwidthKm, 0) {
		return nil, errors.NewInvalidParameterError(op, "bandwidth_km", "must be a finite positive distance", bandwidthKm)
	}
	for _, p := range points {
		if err := spatial.ValidatePoint(op, p); err != nil {
			return nil, err
		}
	}

	values := mat.NewDense(template.Rows, template.Cols, nil)
	twoH2 := 2 * bandwidthKm * bandwidthKm
	parallel.ParallelizeWithThreshold(template.Rows, densityParallelThreshold, func(start, end int) {
		for r := start; r < end; r++ {
			for c := 0; c < template.Cols; c++ {
				if template.Missing(r, c) {
					values.Set(r, c, math.NaN())
					continue
				}
				centre := template.CellCenter(r, c)
				var sum float64
				for _, p := range points {
					d := spatial.DistanceKm(centre, p)
					sum += math.Exp(-d * d / twoH2)
				}
				values.Set(r, c, sum)
			}
		}
	})

	g, err := NewGrid(template.Extent, template.Rows, template.Cols)
	if err != nil {
		return nil, err
	}
	if err := g.AddLayer(DensityLayer, values); err != nil {
		return nil, err
	}
	return g, nil
}
