package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	extent, err := spatial.NewExtent(0, 4, 0, 2)
	require.NoError(t, err)
	g, err := NewGrid(extent, 2, 4)
	require.NoError(t, err)
	require.NoError(t, g.AddLayer("temp", mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		5, 6, math.NaN(), 8,
	})))
	require.NoError(t, g.AddLayer("rain", mat.NewDense(2, 4, []float64{
		10, 20, 30, 40,
		50, 60, 70, 80,
	})))
	return g
}

func TestNewGridValidation(t *testing.T) {
	extent, err := spatial.NewExtent(0, 1, 0, 1)
	require.NoError(t, err)

	_, err = NewGrid(extent, 0, 3)
	require.Error(t, err)

	_, err = NewGrid(spatial.Extent{}, 1, 1)
	require.Error(t, err)
}

func TestAddLayer(t *testing.T) {
	g := newTestGrid(t)

	assert.Equal(t, []string{"temp", "rain"}, g.LayerNames())
	assert.Equal(t, 2, g.NumLayers())
	assert.Equal(t, 8, g.Cells())

	err := g.AddLayer("wrong", mat.NewDense(3, 4, nil))
	var alignErr *errors.AlignmentError
	assert.True(t, errors.As(err, &alignErr), "shape mismatch should be an AlignmentError, got %v", err)

	assert.Error(t, g.AddLayer("temp", mat.NewDense(2, 4, nil)), "duplicate names are rejected")
}

func TestCellGeometry(t *testing.T) {
	g := newTestGrid(t)

	assert.Equal(t, 1.0, g.CellWidth())
	assert.Equal(t, 1.0, g.CellHeight())

	// row 0 is the northern row
	b := g.CellBounds(0, 0)
	assert.Equal(t, spatial.Extent{MinLon: 0, MaxLon: 1, MinLat: 1, MaxLat: 2}, b)
	assert.Equal(t, spatial.Point{3.5, 0.5}, g.CellCenter(1, 3))

	r, c, ok := g.CellOf(spatial.Point{2.5, 1.5})
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 2}, [2]int{r, c})

	r, c, ok = g.CellOf(spatial.Point{4, 0})
	require.True(t, ok, "south-east corner belongs to the last cell")
	assert.Equal(t, [2]int{1, 3}, [2]int{r, c})

	_, _, ok = g.CellOf(spatial.Point{4.1, 0})
	assert.False(t, ok)

	idx := g.Index(1, 2)
	assert.Equal(t, 6, idx)
	r, c = g.RowCol(idx)
	assert.Equal(t, [2]int{1, 2}, [2]int{r, c})
}

func TestMissingAndAlignment(t *testing.T) {
	g := newTestGrid(t)

	assert.True(t, g.Missing(1, 2))
	assert.False(t, g.Missing(0, 2))

	same, err := spatial.NewExtent(0, 4, 0, 2)
	require.NoError(t, err)
	assert.NoError(t, g.CheckAligned("test", "bias", same))

	other, err := spatial.NewExtent(0, 4, 0, 3)
	require.NoError(t, err)
	err = g.CheckAligned("test", "bias", other)
	var alignErr *errors.AlignmentError
	assert.True(t, errors.As(err, &alignErr))
}

func TestExtract(t *testing.T) {
	g := newTestGrid(t)

	values, onGrid, err := g.Extract([]spatial.Point{
		{0.5, 1.5},
		{2.5, 0.5},
		{9, 9},
	})
	require.NoError(t, err)

	rows, cols := values.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []bool{true, true, false}, onGrid)

	assert.Equal(t, 1.0, values.At(0, 0))
	assert.Equal(t, 10.0, values.At(0, 1))
	assert.True(t, math.IsNaN(values.At(1, 0)), "missing cell stays NaN")
	assert.Equal(t, 70.0, values.At(1, 1))
	assert.True(t, math.IsNaN(values.At(2, 0)))
	assert.True(t, math.IsNaN(values.At(2, 1)))

	_, _, err = g.Extract(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestExtractParallelMatchesSequential(t *testing.T) {
	g := newTestGrid(t)

	points := make([]spatial.Point, 5000)
	for i := range points {
		points[i] = spatial.Point{float64(i%400) / 100, float64(i%200) / 100}
	}
	values, onGrid, err := g.Extract(points)
	require.NoError(t, err)

	for i, p := range points {
		r, c, ok := g.CellOf(p)
		require.Equal(t, ok, onGrid[i])
		if !ok {
			continue
		}
		want := g.layers["rain"].At(r, c)
		assert.Equal(t, want, values.At(i, 1), "point %d", i)
	}
}
