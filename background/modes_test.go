package background

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/metrics"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/raster"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

func TestRandomSeeded(t *testing.T) {
	extent := mustExtent(t, -10, 10, -10, 10)
	s := quietSampler()
	req := Request{Count: 5, Extent: extent, Mode: Random{}, Seed: Seed(42)}

	first, err := s.Generate(req)
	require.NoError(t, err)
	require.Equal(t, 5, first.Len())
	assert.Nil(t, first.Warning)
	assert.Equal(t, 5, first.Requested)
	assert.Equal(t, ModeRandom, first.Mode)
	assertInExtent(t, extent, first.Points)

	second, err := s.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points, "same seed must reproduce the same points")

	other, err := s.Generate(Request{Count: 5, Extent: extent, Mode: Random{}, Seed: Seed(43)})
	require.NoError(t, err)
	assert.NotEqual(t, first.Points, other.Points)
}

func TestRandomUnseededStaysInExtent(t *testing.T) {
	extent := mustExtent(t, 170, 180, -90, -80)
	ps, err := quietSampler().Generate(Request{Count: 500, Extent: extent, Mode: Random{}})
	require.NoError(t, err)
	assert.Equal(t, 500, ps.Len())
	assertInExtent(t, extent, ps.Points)
}

func TestRandomIsEqualArea(t *testing.T) {
	// sin(30°) = 0.5, so half the surface of the 0..90 band lies above 30°N.
	extent := mustExtent(t, 0, 10, 0, 90)
	const n = 20000
	ps, err := quietSampler().Generate(Request{Count: n, Extent: extent, Mode: Random{}, Seed: Seed(7)})
	require.NoError(t, err)

	var north int
	for _, p := range ps.Points {
		if p.Y() > 30 {
			north++
		}
	}
	assert.InDelta(t, 0.5, float64(north)/n, 0.02)
}

func newBiasSurface(t *testing.T, extent spatial.Extent, rows, cols int, weights []float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewGrid(extent, rows, cols)
	require.NoError(t, err)
	require.NoError(t, g.AddLayer("bias", mat.NewDense(rows, cols, weights)))
	return g
}

func TestBiasLayerConvergesToWeights(t *testing.T) {
	extent := mustExtent(t, 0, 3, 0, 2)
	weights := []float64{1, 2, 3, 4, 0, 6}
	surface := newBiasSurface(t, extent, 2, 3, weights)

	const n = 30000
	ps, err := quietSampler().Generate(Request{
		Count:  n,
		Extent: extent,
		Mode:   BiasLayer{Surface: surface},
		Seed:   Seed(2024),
	})
	require.NoError(t, err)
	require.Equal(t, n, ps.Len())
	assert.Nil(t, ps.Warning)

	observed := make([]float64, surface.Cells())
	for _, p := range ps.Points {
		r, c, ok := surface.CellOf(p)
		require.True(t, ok)
		observed[surface.Index(r, c)]++
	}
	assert.Zero(t, observed[4], "zero-weight cell must never be drawn")

	_, p, err := metrics.ChiSquareGOF(observed, weights)
	require.NoError(t, err)
	assert.Greater(t, p, 0.001, "observed %v", observed)
}

func TestBiasLayerSkipsMissingCells(t *testing.T) {
	extent := mustExtent(t, 0, 2, 0, 1)
	surface := newBiasSurface(t, extent, 1, 2, []float64{math.NaN(), 1})
	covariates, err := raster.NewGrid(extent, 1, 2)
	require.NoError(t, err)
	require.NoError(t, covariates.AddLayer("temp", mat.NewDense(1, 2, []float64{3, 4})))

	ps, err := quietSampler().Generate(Request{
		Count:  200,
		Extent: extent,
		Mode:   BiasLayer{Surface: surface, Covariates: covariates},
		Seed:   Seed(1),
	})
	require.NoError(t, err)
	for _, p := range ps.Points {
		assert.GreaterOrEqual(t, p.X(), 1.0, "point %v in the NaN cell", p)
	}
	assertInExtent(t, extent, ps.Points)
}

func TestBiasLayerUnique(t *testing.T) {
	warnings := captureWarnings(t)
	extent := mustExtent(t, 0, 2, 0, 2)
	surface := newBiasSurface(t, extent, 2, 2, []float64{1, 1, 0, 1})

	ps, err := quietSampler().Generate(Request{
		Count:  5,
		Extent: extent,
		Mode:   BiasLayer{Surface: surface, Unique: true},
		Seed:   Seed(9),
	})
	require.NoError(t, err)
	require.Equal(t, 3, ps.Len())
	require.NotNil(t, ps.Warning)
	assert.Equal(t, 2, ps.Warning.Shortfall())
	assert.Len(t, *warnings, 1)

	seen := map[int]bool{}
	for _, p := range ps.Points {
		r, c, ok := surface.CellOf(p)
		require.True(t, ok)
		idx := surface.Index(r, c)
		assert.False(t, seen[idx], "cell %d drawn twice", idx)
		assert.NotEqual(t, 2, idx)
		seen[idx] = true
	}
}

func TestBiasLayerZeroWeights(t *testing.T) {
	captureWarnings(t)
	extent := mustExtent(t, 0, 2, 0, 1)
	surface := newBiasSurface(t, extent, 1, 2, []float64{0, math.NaN()})

	ps, err := quietSampler().Generate(Request{Count: 4, Extent: extent, Mode: BiasLayer{Surface: surface}, Seed: Seed(1)})
	require.NoError(t, err)
	assert.Zero(t, ps.Len())
	require.NotNil(t, ps.Warning)
	assert.Equal(t, 4, ps.Warning.Shortfall())
}

func TestBiasLayerErrors(t *testing.T) {
	extent := mustExtent(t, 0, 2, 0, 1)
	s := quietSampler()

	shifted := newBiasSurface(t, mustExtent(t, 0, 2, 0, 1.5), 1, 2, []float64{1, 1})
	_, err := s.Generate(Request{Count: 1, Extent: extent, Mode: BiasLayer{Surface: shifted}})
	var alignErr *errors.AlignmentError
	assert.True(t, errors.As(err, &alignErr), "got %v", err)

	negative := newBiasSurface(t, extent, 1, 2, []float64{1, -1})
	_, err = s.Generate(Request{Count: 1, Extent: extent, Mode: BiasLayer{Surface: negative}})
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr), "got %v", err)

	infinite := newBiasSurface(t, extent, 1, 2, []float64{1, math.Inf(1)})
	_, err = s.Generate(Request{Count: 1, Extent: extent, Mode: BiasLayer{Surface: infinite}})
	assert.True(t, errors.As(err, &paramErr), "got %v", err)
}

func TestGeoExclusion(t *testing.T) {
	extent := mustExtent(t, -10, 10, -10, 10)
	occurrences := []spatial.Point{{-5, -5}, {5, 5}}
	const radius = 300.0

	ps, err := quietSampler().Generate(Request{
		Count:  100,
		Extent: extent,
		Mode:   GeoExclusion{RadiusKm: radius, Occurrences: occurrences},
		Seed:   Seed(11),
	})
	require.NoError(t, err)
	require.Equal(t, 100, ps.Len())
	assert.Nil(t, ps.Warning)
	assertInExtent(t, extent, ps.Points)

	for _, p := range ps.Points {
		nearest := math.Inf(1)
		for _, o := range occurrences {
			nearest = math.Min(nearest, spatial.DistanceKm(p, o))
		}
		assert.LessOrEqual(t, nearest, radius, "point %v too far from every occurrence", p)
	}
}

func TestGeoExclusionZeroRadius(t *testing.T) {
	warnings := captureWarnings(t)
	extent := mustExtent(t, -10, 10, -10, 10)

	ps, err := quietSampler(WithAttemptFactor(5)).Generate(Request{
		Count:  20,
		Extent: extent,
		Mode:   GeoExclusion{RadiusKm: 0, Occurrences: []spatial.Point{{1, 1}, {2, 2}}},
		Seed:   Seed(5),
	})
	require.NoError(t, err)
	assert.Zero(t, ps.Len())
	require.NotNil(t, ps.Warning)
	assert.Equal(t, 20, ps.Warning.Shortfall())
	assert.Equal(t, ModeGeoExclusion, ps.Warning.Mode)
	require.Len(t, *warnings, 1)
	assert.Same(t, ps.Warning, (*warnings)[0])
}

func TestTargetedGroupExactCount(t *testing.T) {
	extent := mustExtent(t, 0, 10, 0, 10)
	a := []spatial.Point{{1, 1}, {2, 2}}
	b := []spatial.Point{{3, 3}, {2, 2}, {4, 4}}

	ps, err := quietSampler().Generate(Request{Count: 4, Extent: extent, Mode: TargetedGroup{Groups: [][]spatial.Point{a, b}}})
	require.NoError(t, err)
	assert.Equal(t, []spatial.Point{{1, 1}, {2, 2}, {3, 3}, {4, 4}}, ps.Points)
	assert.Nil(t, ps.Warning)
}

func TestTargetedGroupShortfall(t *testing.T) {
	captureWarnings(t)
	extent := mustExtent(t, 0, 10, 0, 10)
	a := []spatial.Point{{1, 1}, {1, 2}, {1, 3}}
	b := []spatial.Point{{2, 1}, {2, 2}, {2, 3}, {2, 4}}

	ps, err := quietSampler().Generate(Request{
		Count:  10,
		Extent: extent,
		Mode:   TargetedGroup{Groups: [][]spatial.Point{a, b}},
		Seed:   Seed(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, ps.Len())
	require.NotNil(t, ps.Warning)
	assert.Equal(t, 3, ps.Warning.Shortfall())
	assert.Equal(t, 10, ps.Warning.Requested)
	assert.Equal(t, 7, ps.Warning.Returned)
}

func TestTargetedGroupSubsample(t *testing.T) {
	extent := mustExtent(t, 0, 10, 0, 10)
	var group []spatial.Point
	for i := 0; i < 50; i++ {
		group = append(group, spatial.Point{float64(i % 10), float64(i / 10)})
	}
	outside := []spatial.Point{{20, 20}, {-5, 0}}

	req := Request{
		Count:  12,
		Extent: extent,
		Mode:   TargetedGroup{Groups: [][]spatial.Point{group, outside}},
		Seed:   Seed(77),
	}
	ps, err := quietSampler().Generate(req)
	require.NoError(t, err)
	require.Equal(t, 12, ps.Len())
	assertInExtent(t, extent, ps.Points)

	// union order is preserved and nothing repeats
	pos := map[spatial.Point]int{}
	for i, p := range group {
		pos[p] = i
	}
	for i := 1; i < ps.Len(); i++ {
		assert.Less(t, pos[ps.Points[i-1]], pos[ps.Points[i]])
	}

	again, err := quietSampler().Generate(req)
	require.NoError(t, err)
	assert.Equal(t, ps.Points, again.Points)
}
