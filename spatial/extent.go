// Package spatial holds the geographic primitives shared by the sampler, the
// raster grids and the occurrence loaders: a lon/lat study extent, great-circle
// distance, and an R-tree index over presence-point buffers.
package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

// Point is a (longitude, latitude) pair in decimal degrees.
type Point = orb.Point

// Extent is a rectangular lon/lat bounding box. The zero value is invalid;
// build one with NewExtent.
type Extent struct {
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

// NewExtent validates and returns an Extent.
func NewExtent(minLon, maxLon, minLat, maxLat float64) (Extent, error) {
	e := Extent{MinLon: minLon, MaxLon: maxLon, MinLat: minLat, MaxLat: maxLat}
	if err := e.Validate(); err != nil {
		return Extent{}, err
	}
	return e, nil
}

// ExtentFromBound converts an orb.Bound (Min/Max in lon/lat) to an Extent.
func ExtentFromBound(b orb.Bound) (Extent, error) {
	return NewExtent(b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y())
}

// Validate reports an InvalidParameterError when the extent is degenerate,
// contains NaN, or leaves the valid lon/lat range.
func (e Extent) Validate() error {
	const op = "Extent.Validate"
	edges := []struct {
		name string
		v    float64
	}{{"min_lon", e.MinLon}, {"max_lon", e.MaxLon}, {"min_lat", e.MinLat}, {"max_lat", e.MaxLat}}
	for _, edge := range edges {
		if err := errors.CheckScalar(op, edge.name, edge.v); err != nil {
			return err
		}
	}
	if e.MinLon >= e.MaxLon {
		return errors.NewInvalidParameterError(op, "extent", "min longitude must be less than max longitude",
			fmt.Sprintf("[%g, %g]", e.MinLon, e.MaxLon))
	}
	if e.MinLat >= e.MaxLat {
		return errors.NewInvalidParameterError(op, "extent", "min latitude must be less than max latitude",
			fmt.Sprintf("[%g, %g]", e.MinLat, e.MaxLat))
	}
	if e.MinLon < -180 || e.MaxLon > 180 {
		return errors.NewInvalidParameterError(op, "extent", "longitude must lie within [-180, 180]",
			fmt.Sprintf("[%g, %g]", e.MinLon, e.MaxLon))
	}
	if e.MinLat < -90 || e.MaxLat > 90 {
		return errors.NewInvalidParameterError(op, "extent", "latitude must lie within [-90, 90]",
			fmt.Sprintf("[%g, %g]", e.MinLat, e.MaxLat))
	}
	return nil
}

// Contains reports whether p lies inside the extent, edges included.
func (e Extent) Contains(p Point) bool {
	return p.X() >= e.MinLon && p.X() <= e.MaxLon &&
		p.Y() >= e.MinLat && p.Y() <= e.MaxLat
}

// Width is the longitudinal span in degrees.
func (e Extent) Width() float64 { return e.MaxLon - e.MinLon }

// Height is the latitudinal span in degrees.
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }

// Bound returns the extent as an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.MinLon, e.MinLat}, Max: orb.Point{e.MaxLon, e.MaxLat}}
}

// Equal reports whether every edge of e and o differs by at most tol degrees.
func (e Extent) Equal(o Extent, tol float64) bool {
	return math.Abs(e.MinLon-o.MinLon) <= tol &&
		math.Abs(e.MaxLon-o.MaxLon) <= tol &&
		math.Abs(e.MinLat-o.MinLat) <= tol &&
		math.Abs(e.MaxLat-o.MaxLat) <= tol
}

func (e Extent) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", e.MinLon, e.MaxLon, e.MinLat, e.MaxLat)
}

// ValidatePoint reports an InvalidParameterError for NaN or out-of-range coordinates.
func ValidatePoint(op string, p Point) error {
	if math.IsNaN(p.X()) || math.IsNaN(p.Y()) || p.X() < -180 || p.X() > 180 || p.Y() < -90 || p.Y() > 90 {
		return errors.NewInvalidParameterError(op, "point", "coordinates must be finite lon/lat in range", p)
	}
	return nil
}
