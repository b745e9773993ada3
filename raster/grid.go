// Package raster provides the regular lon/lat grids used as covariate
// layers and bias surfaces, together with ESRI ASCII grid I/O and
// covariate extraction at points.
//
// Row 0 is the northern-most row and column 0 the western-most column.
// Missing data is stored as NaN.
package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// AlignTolerance is the maximum edge difference, in degrees, for two
// extents to be considered the same spatial reference.
const AlignTolerance = 1e-6

// Grid is a regular raster over an extent with one or more named layers.
// Grids are built once and treated as read-only afterwards.
type Grid struct {
	Extent spatial.Extent
	Rows   int
	Cols   int

	layers map[string]*mat.Dense
	names  []string
}

// NewGrid creates an empty grid; add values with AddLayer.
func NewGrid(extent spatial.Extent, rows, cols int) (*Grid, error) {
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.NewInvalidParameterError("NewGrid", "shape", "rows and cols must be positive",
			fmt.Sprintf("%dx%d", rows, cols))
	}
	return &Grid{
		Extent: extent,
		Rows:   rows,
		Cols:   cols,
		layers: make(map[string]*mat.Dense),
	}, nil
}

// AddLayer attaches values (Rows x Cols) under name.
func (g *Grid) AddLayer(name string, values *mat.Dense) error {
	if name == "" {
		return errors.NewInvalidParameterError("Grid.AddLayer", "name", "layer name must not be empty", name)
	}
	if _, dup := g.layers[name]; dup {
		return errors.NewInvalidParameterError("Grid.AddLayer", "name", "duplicate layer", name)
	}
	r, c := values.Dims()
	if r != g.Rows || c != g.Cols {
		return errors.NewAlignmentError("Grid.AddLayer", name,
			fmt.Sprintf("%dx%d", g.Rows, g.Cols), fmt.Sprintf("%dx%d", r, c))
	}
	g.layers[name] = values
	g.names = append(g.names, name)
	return nil
}

// Layer returns the named layer.
func (g *Grid) Layer(name string) (*mat.Dense, bool) {
	l, ok := g.layers[name]
	return l, ok
}

// LayerNames returns the layer names in insertion order.
func (g *Grid) LayerNames() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// NumLayers returns the number of layers.
func (g *Grid) NumLayers() int { return len(g.names) }

// Cells returns Rows*Cols.
func (g *Grid) Cells() int { return g.Rows * g.Cols }

// CellWidth is the longitudinal size of one cell in degrees.
func (g *Grid) CellWidth() float64 { return g.Extent.Width() / float64(g.Cols) }

// CellHeight is the latitudinal size of one cell in degrees.
func (g *Grid) CellHeight() float64 { return g.Extent.Height() / float64(g.Rows) }

// CellBounds returns the lon/lat box of cell (r, c).
func (g *Grid) CellBounds(r, c int) spatial.Extent {
	w, h := g.CellWidth(), g.CellHeight()
	minLon := g.Extent.MinLon + float64(c)*w
	maxLat := g.Extent.MaxLat - float64(r)*h
	maxLon := minLon + w
	minLat := maxLat - h
	// the last row/column closes exactly on the grid edge
	if c == g.Cols-1 {
		maxLon = g.Extent.MaxLon
	}
	if r == g.Rows-1 {
		minLat = g.Extent.MinLat
	}
	return spatial.Extent{MinLon: minLon, MaxLon: maxLon, MinLat: minLat, MaxLat: maxLat}
}

// CellCenter returns the centre point of cell (r, c).
func (g *Grid) CellCenter(r, c int) spatial.Point {
	b := g.CellBounds(r, c)
	return spatial.Point{(b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2}
}

// CellOf returns the cell containing p. Points on the eastern or southern
// grid edge belong to the last column or row. ok is false outside the grid.
func (g *Grid) CellOf(p spatial.Point) (r, c int, ok bool) {
	if !g.Extent.Contains(p) {
		return 0, 0, false
	}
	c = int(math.Floor((p.X() - g.Extent.MinLon) / g.CellWidth()))
	r = int(math.Floor((g.Extent.MaxLat - p.Y()) / g.CellHeight()))
	if c >= g.Cols {
		c = g.Cols - 1
	}
	if r >= g.Rows {
		r = g.Rows - 1
	}
	return r, c, true
}

// Index flattens (r, c) in row-major order.
func (g *Grid) Index(r, c int) int { return r*g.Cols + c }

// RowCol is the inverse of Index.
func (g *Grid) RowCol(idx int) (r, c int) { return idx / g.Cols, idx % g.Cols }

// Missing reports whether any layer is NaN at (r, c).
func (g *Grid) Missing(r, c int) bool {
	for _, name := range g.names {
		if math.IsNaN(g.layers[name].At(r, c)) {
			return true
		}
	}
	return false
}

// Aligned reports whether the grid covers e within AlignTolerance.
func (g *Grid) Aligned(e spatial.Extent) bool {
	return g.Extent.Equal(e, AlignTolerance)
}

// SameShape reports whether o has the same extent and cell layout as g.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols && g.Aligned(o.Extent)
}

// CheckAligned returns an AlignmentError naming layer when g does not cover e.
func (g *Grid) CheckAligned(op, layer string, e spatial.Extent) error {
	if !g.Aligned(e) {
		return errors.NewAlignmentError(op, layer, e.String(), g.Extent.String())
	}
	return nil
}
