package background

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
	"github.com/YuminosukeSato/sdmgo/raster"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// CellWeights returns the per-cell sampling weights (row-major, Grid.Index
// order) of a bias surface. Cells that are NaN in the surface or missing in
// covariates get weight 0. It also returns the number of positive weights.
func CellWeights(surface, covariates *raster.Grid) ([]float64, int, error) {
	const op = "BiasLayer"
	if surface == nil {
		return nil, 0, errors.NewInvalidParameterError(op, "surface", "a bias surface is required", nil)
	}
	names := surface.LayerNames()
	if len(names) != 1 {
		return nil, 0, errors.NewInvalidParameterError(op, "surface", "bias surface must have exactly one layer", len(names))
	}
	if covariates != nil && !surface.SameShape(covariates) {
		return nil, 0, errors.NewAlignmentError(op, "covariates",
			gridShape(surface), gridShape(covariates))
	}

	layer, _ := surface.Layer(names[0])
	weights := make([]float64, surface.Cells())
	usable := 0
	for r := 0; r < surface.Rows; r++ {
		for c := 0; c < surface.Cols; c++ {
			w := layer.At(r, c)
			switch {
			case math.IsNaN(w):
				continue
			case w < 0 || math.IsInf(w, 0):
				return nil, 0, errors.NewInvalidParameterError(op, "surface",
					"bias weights must be finite and non-negative", w)
			}
			if covariates != nil && covariates.Missing(r, c) {
				continue
			}
			weights[surface.Index(r, c)] = w
			if w > 0 {
				usable++
			}
		}
	}
	return weights, usable, nil
}

func gridShape(g *raster.Grid) string {
	return fmt.Sprintf("%s %dx%d", g.Extent, g.Rows, g.Cols)
}

func (s *Sampler) sampleBiasLayer(req Request, m BiasLayer, src rand.Source, logger log.Logger) (*PointSet, error) {
	if m.Surface == nil {
		return nil, errors.NewInvalidParameterError("BiasLayer", "surface", "a bias surface is required", nil)
	}
	if err := m.Surface.CheckAligned("BiasLayer", "bias surface", req.Extent); err != nil {
		return nil, err
	}
	weights, usable, err := CellWeights(m.Surface, m.Covariates)
	if err != nil {
		return nil, err
	}
	logger.Debug("bias surface prepared",
		log.CellsKey, len(weights),
		log.UsableCellsKey, usable)

	if usable == 0 {
		return shortOf(newPointSet(req, nil), "bias surface has no cell with positive weight"), nil
	}

	points := make([]spatial.Point, 0, req.Count)
	if m.Unique {
		cells := sampleuv.NewWeighted(weights, src)
		for len(points) < req.Count {
			idx, ok := cells.Take()
			if !ok {
				break
			}
			points = append(points, pointInCell(m.Surface, idx, req.Extent, src))
		}
		return shortOf(newPointSet(req, points), "fewer cells with positive weight than requested points"), nil
	}

	cells := distuv.NewCategorical(weights, src)
	for len(points) < req.Count {
		idx := int(cells.Rand())
		points = append(points, pointInCell(m.Surface, idx, req.Extent, src))
	}
	return newPointSet(req, points), nil
}

// pointInCell places a point uniformly inside cell idx. The surface may sit
// up to raster.AlignTolerance off the extent, so the point is clipped back.
func pointInCell(g *raster.Grid, idx int, extent spatial.Extent, src rand.Source) spatial.Point {
	r, c := g.RowCol(idx)
	p := newAreaUniform(g.CellBounds(r, c), src).Rand()
	return spatial.Point{
		errors.ClipValue(p.X(), extent.MinLon, extent.MaxLon),
		errors.ClipValue(p.Y(), extent.MinLat, extent.MaxLat),
	}
}
