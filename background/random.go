package background

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

const deg = math.Pi / 180

// areaUniform draws points uniformly over the spherical surface of a lon/lat
// box: longitude is uniform, sin(latitude) is uniform.
type areaUniform struct {
	box    spatial.Extent
	lon    distuv.Uniform
	sinLat distuv.Uniform
}

func newAreaUniform(box spatial.Extent, src rand.Source) areaUniform {
	return areaUniform{
		box:    box,
		lon:    distuv.Uniform{Min: box.MinLon, Max: box.MaxLon, Src: src},
		sinLat: distuv.Uniform{Min: math.Sin(box.MinLat * deg), Max: math.Sin(box.MaxLat * deg), Src: src},
	}
}

// Rand draws longitude first, then latitude.
func (a areaUniform) Rand() spatial.Point {
	lon := a.lon.Rand()
	lat := math.Asin(errors.ClipValue(a.sinLat.Rand(), -1, 1)) / deg
	// asin round-off can step just outside the box
	lat = errors.ClipValue(lat, a.box.MinLat, a.box.MaxLat)
	return spatial.Point{lon, lat}
}

func (s *Sampler) sampleRandom(req Request, src rand.Source) (*PointSet, error) {
	draw := newAreaUniform(req.Extent, src)
	points := make([]spatial.Point, req.Count)
	for i := range points {
		points[i] = draw.Rand()
	}
	return newPointSet(req, points), nil
}
