package background

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

func (s *Sampler) sampleGeoExclusion(req Request, m GeoExclusion, src rand.Source, logger log.Logger) (*PointSet, error) {
	const op = "GeoExclusion"
	if math.IsNaN(m.RadiusKm) || math.IsInf(m.RadiusKm, 0) || m.RadiusKm < 0 {
		return nil, errors.NewInvalidParameterError(op, "radius_km", "must be a finite non-negative distance", m.RadiusKm)
	}
	if len(m.Occurrences) == 0 {
		return nil, errors.NewInvalidParameterError(op, "occurrences", "at least one occurrence point is required", 0)
	}
	index, err := spatial.NewBufferIndex(m.Occurrences, m.RadiusKm)
	if err != nil {
		return nil, err
	}

	budget := s.attemptFactor * req.Count
	draw := newAreaUniform(req.Extent, src)
	points := make([]spatial.Point, 0, req.Count)
	attempts := 0
	for len(points) < req.Count && attempts < budget {
		attempts++
		p := draw.Rand()
		if index.Within(p) {
			points = append(points, p)
		}
	}
	logger.Debug("rejection sampling finished",
		log.RadiusKmKey, m.RadiusKm,
		log.OccurrencesKey, len(m.Occurrences),
		log.AttemptsKey, attempts,
		log.AttemptBudgetKey, budget)

	return shortOf(newPointSet(req, points),
		fmt.Sprintf("attempt budget of %d exhausted; buffers of %g km cover too little of the extent", budget, m.RadiusKm)), nil
}
