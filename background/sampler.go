// Package background generates background (pseudo-absence) points for
// presence-only species distribution models.
//
// A Sampler draws a PointSet for a Request in one of four modes:
//
//   - Random: uniform over the surface area of the study extent.
//   - BiasLayer: cells drawn proportionally to a bias surface.
//   - GeoExclusion: uniform, restricted to buffers around occurrences.
//   - TargetedGroup: occurrence records of related taxa.
//
// A seeded request is fully reproducible. When a geographic constraint makes
// the requested count infeasible, Generate returns the points it could draw
// and attaches a PartialSampleWarning instead of failing.
//
// Example:
//
//	extent, _ := spatial.NewExtent(-10, 10, -10, 10)
//	ps, err := background.NewSampler().Generate(background.Request{
//		Count:  5,
//		Extent: extent,
//		Mode:   background.Random{},
//		Seed:   background.Seed(42),
//	})
package background

import (
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// DefaultAttemptFactor bounds rejection sampling to this many candidate
// draws per requested point.
const DefaultAttemptFactor = 50

// Request describes one background draw.
type Request struct {
	Count  int
	Extent spatial.Extent
	Mode   Mode
	// Seed makes the draw reproducible. nil draws from a random seed.
	Seed *int64
}

// Seed returns a pointer to seed for Request.Seed.
func Seed(seed int64) *int64 { return &seed }

// PointSet is the result of Generate. It is not modified after return.
type PointSet struct {
	Points    []spatial.Point
	Requested int
	Mode      string
	// Warning is set when fewer than Requested points could be drawn.
	Warning *errors.PartialSampleWarning
}

// Len returns the number of points drawn.
func (ps *PointSet) Len() int { return len(ps.Points) }

// Sampler generates background point sets. A Sampler holds no per-call
// state and may be used from multiple goroutines.
type Sampler struct {
	attemptFactor int
	logger        log.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithAttemptFactor sets the rejection-sampling budget per requested point.
// Values below 1 are ignored.
func WithAttemptFactor(factor int) Option {
	return func(s *Sampler) {
		if factor >= 1 {
			s.attemptFactor = factor
		}
	}
}

// WithLogger sets the logger. Defaults to log.GetLogger().
func WithLogger(logger log.Logger) Option {
	return func(s *Sampler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSampler returns a Sampler with the given options applied.
func NewSampler(options ...Option) *Sampler {
	s := &Sampler{attemptFactor: DefaultAttemptFactor}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger().With(log.ComponentKey, "background")
	}
	return s
}

// AttemptFactor returns the configured rejection-sampling budget per point.
func (s *Sampler) AttemptFactor() int { return s.attemptFactor }

// Generate draws req.Count background points according to req.Mode.
func (s *Sampler) Generate(req Request) (ps *PointSet, err error) {
	defer errors.Recover(&err, "Sampler.Generate")

	req.Mode = derefMode(req.Mode)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	src := newSource(req.Seed)
	logger := s.logger.With(log.OperationKey, log.OperationGenerate, log.ModeKey, req.Mode.Name())
	if req.Seed != nil {
		logger = logger.With(log.RandomSeedKey, *req.Seed)
	}
	logger.Debug("generating background points", log.RequestedKey, req.Count)

	switch m := req.Mode.(type) {
	case Random:
		ps, err = s.sampleRandom(req, src)
	case BiasLayer:
		ps, err = s.sampleBiasLayer(req, m, src, logger)
	case GeoExclusion:
		ps, err = s.sampleGeoExclusion(req, m, src, logger)
	case TargetedGroup:
		ps, err = s.sampleTargetedGroup(req, m, src, logger)
	default:
		return nil, errors.Wrapf(errors.ErrUnknownMode, "Sampler.Generate: %T", req.Mode)
	}
	if err != nil {
		return nil, err
	}

	if ps.Warning != nil {
		logger.Warn("background sample is short",
			log.ReturnedKey, ps.Len(),
			log.ShortfallKey, ps.Warning.Shortfall(),
			"warning", ps.Warning)
		errors.Warn(ps.Warning)
	}
	logger.Info("generated background points",
		log.RequestedKey, req.Count,
		log.ReturnedKey, ps.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds())
	return ps, nil
}

func validateRequest(req Request) error {
	const op = "Sampler.Generate"
	if req.Count <= 0 {
		return errors.NewInvalidParameterError(op, "count", "must be a positive integer", req.Count)
	}
	if err := req.Extent.Validate(); err != nil {
		return errors.Wrap(err, op)
	}
	if req.Mode == nil {
		return errors.NewInvalidParameterError(op, "mode", "a sampling mode is required", nil)
	}
	return nil
}

// newSource returns the single random source consumed by one Generate call.
func newSource(seed *int64) rand.Source {
	if seed != nil {
		return rand.NewPCG(uint64(*seed), uint64(*seed))
	}
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

func newPointSet(req Request, points []spatial.Point) *PointSet {
	return &PointSet{Points: points, Requested: req.Count, Mode: req.Mode.Name()}
}

// shortOf attaches a PartialSampleWarning when ps holds fewer than requested.
func shortOf(ps *PointSet, reason string) *PointSet {
	if ps.Len() < ps.Requested {
		ps.Warning = errors.NewPartialSampleWarning(ps.Mode, ps.Requested, ps.Len(), reason)
	}
	return ps
}
