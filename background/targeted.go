package background

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/YuminosukeSato/sdmgo/occurrence"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

func (s *Sampler) sampleTargetedGroup(req Request, m TargetedGroup, src rand.Source, logger log.Logger) (*PointSet, error) {
	const op = "TargetedGroup"
	total := 0
	for gi, g := range m.Groups {
		for _, p := range g {
			if err := spatial.ValidatePoint(op, p); err != nil {
				return nil, errors.Wrapf(err, "group %d", gi)
			}
		}
		total += len(g)
	}
	if total == 0 {
		return nil, errors.NewInvalidParameterError(op, "groups", "at least one occurrence point is required", len(m.Groups))
	}

	var pool []spatial.Point
	for _, p := range occurrence.Union(m.Groups...) {
		if req.Extent.Contains(p) {
			pool = append(pool, p)
		}
	}
	logger.Debug("target-group pool built",
		log.GroupsKey, len(m.Groups),
		log.OccurrencesKey, total,
		"pool", len(pool))

	if len(pool) <= req.Count {
		return shortOf(newPointSet(req, pool), "target-group union holds fewer distinct points inside the extent than requested"), nil
	}

	idxs := make([]int, req.Count)
	sampleuv.WithoutReplacement(idxs, len(pool), src)
	slices.Sort(idxs)
	points := make([]spatial.Point, len(idxs))
	for i, idx := range idxs {
		points[i] = pool[idx]
	}
	return newPointSet(req, points), nil
}
