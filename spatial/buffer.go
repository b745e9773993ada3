package spatial

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

// rtreego treats touching rectangles as disjoint, so boxes and queries are
// padded by a small amount; the haversine check makes the final decision.
const (
	boxPadDeg   = 1e-7
	queryPadDeg = 1e-9
)

// BufferIndex answers "is this point within RadiusKm of any centre" for a
// fixed set of centres.
type BufferIndex struct {
	radiusKm float64
	centres  []Point
	tree     *rtreego.Rtree
}

type bufferBox struct {
	centre int
	rect   rtreego.Rect
}

func (b *bufferBox) Bounds() rtreego.Rect { return b.rect }

// NewBufferIndex indexes the buffers of radiusKm around each centre.
func NewBufferIndex(centres []Point, radiusKm float64) (*BufferIndex, error) {
	const op = "NewBufferIndex"
	if len(centres) == 0 {
		return nil, errors.NewInvalidParameterError(op, "occurrences", "at least one occurrence point is required", 0)
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return nil, errors.NewInvalidParameterError(op, "radius_km", "must be a finite non-negative distance", radiusKm)
	}

	boxes := make([]rtreego.Spatial, 0, len(centres))
	for i, c := range centres {
		if err := ValidatePoint(op, c); err != nil {
			return nil, err
		}
		for _, r := range bufferRects(c, radiusKm) {
			boxes = append(boxes, &bufferBox{centre: i, rect: r})
		}
	}

	return &BufferIndex{
		radiusKm: radiusKm,
		centres:  centres,
		tree:     rtreego.NewTree(2, 25, 50, boxes...),
	}, nil
}

// RadiusKm returns the buffer radius.
func (b *BufferIndex) RadiusKm() float64 { return b.radiusKm }

// Within reports whether p lies within the buffer of at least one centre.
func (b *BufferIndex) Within(p Point) bool {
	query := rtreego.Point{p.X(), p.Y()}.ToRect(queryPadDeg)
	for _, hit := range b.tree.SearchIntersect(query) {
		box := hit.(*bufferBox)
		if DistanceKm(p, b.centres[box.centre]) <= b.radiusKm {
			return true
		}
	}
	return false
}

// bufferRects returns the lon/lat boxes covering the buffer around c,
// split in two when the buffer crosses the antimeridian.
func bufferRects(c Point, radiusKm float64) []rtreego.Rect {
	bound := geo.NewBoundAroundPoint(c, radiusKm*1000)
	minLat := bound.Min.Y() - boxPadDeg
	maxLat := bound.Max.Y() + boxPadDeg

	if bound.Min.X() <= bound.Max.X() {
		return []rtreego.Rect{
			mustRect(orb.Point{bound.Min.X() - boxPadDeg, minLat}, orb.Point{bound.Max.X() + boxPadDeg, maxLat}),
		}
	}
	return []rtreego.Rect{
		mustRect(orb.Point{bound.Min.X() - boxPadDeg, minLat}, orb.Point{180 + boxPadDeg, maxLat}),
		mustRect(orb.Point{-180 - boxPadDeg, minLat}, orb.Point{bound.Max.X() + boxPadDeg, maxLat}),
	}
}

func mustRect(min, max orb.Point) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(rtreego.Point{min.X(), min.Y()}, rtreego.Point{max.X(), max.Y()})
	if err != nil {
		// Both points are two-dimensional, so NewRectFromPoints cannot fail.
		panic(err)
	}
	return r
}
