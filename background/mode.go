package background

import (
	"github.com/YuminosukeSato/sdmgo/raster"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// Mode names as reported in PointSet.Mode and log records.
const (
	ModeRandom        = "random"
	ModeBiasLayer     = "bias_layer"
	ModeGeoExclusion  = "geo_exclusion"
	ModeTargetedGroup = "targeted_group"
)

// Mode selects a sampling strategy and carries its parameters. The set of
// modes is closed: Random, BiasLayer, GeoExclusion and TargetedGroup.
type Mode interface {
	Name() string
	sealed()
}

// Random draws points uniformly over the surface area of the extent.
type Random struct{}

// BiasLayer draws raster cells with probability proportional to Surface and
// places one point uniformly inside each drawn cell.
type BiasLayer struct {
	// Surface is a single-layer grid of non-negative weights covering the
	// request extent. NaN cells are never drawn.
	Surface *raster.Grid

	// Covariates, when set, must share Surface's layout. Cells missing any
	// covariate are never drawn.
	Covariates *raster.Grid

	// Unique draws each cell at most once.
	Unique bool
}

// GeoExclusion keeps only points within RadiusKm (great-circle distance) of
// at least one occurrence.
type GeoExclusion struct {
	RadiusKm    float64
	Occurrences []spatial.Point
}

// TargetedGroup uses occurrence records of related taxa as background.
type TargetedGroup struct {
	Groups [][]spatial.Point
}

func (Random) Name() string        { return ModeRandom }
func (BiasLayer) Name() string     { return ModeBiasLayer }
func (GeoExclusion) Name() string  { return ModeGeoExclusion }
func (TargetedGroup) Name() string { return ModeTargetedGroup }

func (Random) sealed()        {}
func (BiasLayer) sealed()     {}
func (GeoExclusion) sealed()  {}
func (TargetedGroup) sealed() {}

// derefMode accepts pointer forms of the modes so &BiasLayer{...} works as
// well as BiasLayer{...}. A nil pointer yields nil.
func derefMode(m Mode) Mode {
	switch p := m.(type) {
	case *Random:
		if p != nil {
			return *p
		}
	case *BiasLayer:
		if p != nil {
			return *p
		}
	case *GeoExclusion:
		if p != nil {
			return *p
		}
	case *TargetedGroup:
		if p != nil {
			return *p
		}
	default:
		return m
	}
	return nil
}
