package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

func TestNewBufferIndexValidation(t *testing.T) {
	_, err := NewBufferIndex(nil, 10)
	require.Error(t, err)

	_, err = NewBufferIndex([]Point{{0, 0}}, -1)
	require.Error(t, err)

	_, err = NewBufferIndex([]Point{{0, 100}}, 10)
	require.Error(t, err)

	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))
}

func TestBufferIndexWithin(t *testing.T) {
	idx, err := NewBufferIndex([]Point{{0, 0}, {5, 5}}, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, idx.RadiusKm())

	assert.True(t, idx.Within(Point{0, 0}))
	assert.True(t, idx.Within(Point{0.5, 0.5}), "~79 km from the first centre")
	assert.True(t, idx.Within(Point{5.8, 5}), "~89 km from the second centre")
	assert.False(t, idx.Within(Point{2.5, 2.5}), "between the buffers")
	assert.False(t, idx.Within(Point{0, 1}), "~111 km away")
}

func TestBufferIndexAntimeridian(t *testing.T) {
	idx, err := NewBufferIndex([]Point{{179.9, 10}}, 50)
	require.NoError(t, err)

	assert.True(t, idx.Within(Point{-179.9, 10}), "~22 km across the antimeridian")
	assert.False(t, idx.Within(Point{-179, 10}))
}

func TestBufferIndexZeroRadius(t *testing.T) {
	idx, err := NewBufferIndex([]Point{{1, 1}}, 0)
	require.NoError(t, err)

	assert.True(t, idx.Within(Point{1, 1}), "exact coincidence is within a zero buffer")
	assert.False(t, idx.Within(Point{1.000001, 1}))
}

func TestBufferIndexMatchesBruteForce(t *testing.T) {
	centres := make([]Point, 0, 120)
	for i := 0; i < 120; i++ {
		centres = append(centres, Point{float64(i%12) - 6, float64(i/12) - 5})
	}
	idx, err := NewBufferIndex(centres, 40)
	require.NoError(t, err)

	for x := -7.0; x <= 7.0; x += 0.37 {
		for y := -6.0; y <= 6.0; y += 0.41 {
			p := Point{x, y}
			want := false
			for _, c := range centres {
				if DistanceKm(p, c) <= 40 {
					want = true
					break
				}
			}
			assert.Equal(t, want, idx.Within(p), "point %v", p)
		}
	}
}
