// Package config loads sampling jobs from JSON files, with overrides taken
// from the process environment and an optional .env file.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/YuminosukeSato/sdmgo/background"
	"github.com/YuminosukeSato/sdmgo/occurrence"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/raster"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// Environment variables that override the job file.
const (
	EnvLogLevel      = "SDMGO_LOG_LEVEL"
	EnvSeed          = "SDMGO_SEED"
	EnvAttemptFactor = "SDMGO_ATTEMPT_FACTOR"
)

// Output formats.
const (
	FormatGeoJSON = "geojson"
	FormatCSV     = "csv"
)

// Layer names a covariate layer and the ESRI ASCII grid it is read from.
type Layer struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Job describes one background sampling run.
type Job struct {
	Count  int            `json:"count"`
	Extent spatial.Extent `json:"extent"`
	// Mode is one of "random", "bias_layer", "geo_exclusion", "targeted_group".
	Mode string `json:"mode"`
	// Seed is used as-is. Omit it for a non-reproducible run.
	Seed *int64 `json:"seed,omitempty"`

	// BiasPath is the bias surface grid (bias_layer).
	BiasPath string `json:"bias_path,omitempty"`
	// Covariates restrict bias_layer draws to cells with complete data.
	Covariates []Layer `json:"covariates,omitempty"`
	Unique     bool    `json:"unique,omitempty"`

	// RadiusKm and OccurrencePath drive geo_exclusion.
	RadiusKm       float64 `json:"radius_km,omitempty"`
	OccurrencePath string  `json:"occurrence_path,omitempty"`

	// GroupPaths are the related-taxa occurrence files (targeted_group).
	GroupPaths []string `json:"group_paths,omitempty"`

	Output string `json:"output,omitempty"`
	// Format is "geojson" (default) or "csv".
	Format string `json:"format,omitempty"`

	LogLevel      string `json:"log_level,omitempty"`
	AttemptFactor int    `json:"attempt_factor,omitempty"`
}

// GetFormat returns the configured output format, defaulting to GeoJSON.
func (j *Job) GetFormat() string {
	if j.Format == "" {
		return FormatGeoJSON
	}
	return strings.ToLower(j.Format)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (j *Job) GetLogLevel() string {
	if j.LogLevel == "" {
		return "info"
	}
	return j.LogLevel
}

// GetAttemptFactor returns the rejection-sampling budget per point.
func (j *Job) GetAttemptFactor() int {
	if j.AttemptFactor < 1 {
		return background.DefaultAttemptFactor
	}
	return j.AttemptFactor
}

// Load reads a job from a JSON file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, errors.NewFormatError(path, 0, err.Error())
	}
	return &job, nil
}

// Save writes the job as indented JSON.
func (j *Job) Save(path string) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return errors.Wrap(err, "config: encode job")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "config: write %s", path)
	}
	return nil
}

// ApplyEnv overrides log level, seed and attempt factor from the process
// environment, falling back to envFile (a .env file) for unset variables.
// A missing envFile is not an error.
func (j *Job) ApplyEnv(envFile string) error {
	fileEnv := map[string]string{}
	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = read
		case !os.IsNotExist(err):
			return errors.Wrapf(err, "config: read %s", envFile)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvLogLevel); ok {
		j.LogLevel = v
	}
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return errors.NewInvalidParameterError("config.ApplyEnv", EnvSeed, "must be an integer", v)
		}
		j.Seed = &seed
	}
	if v, ok := lookup(EnvAttemptFactor); ok {
		factor, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || factor < 1 {
			return errors.NewInvalidParameterError("config.ApplyEnv", EnvAttemptFactor, "must be a positive integer", v)
		}
		j.AttemptFactor = factor
	}
	return nil
}

// Validate checks the fields every mode needs and the ones its mode needs.
// Parameter values themselves are validated by the sampler.
func (j *Job) Validate() error {
	const op = "config.Validate"
	switch j.GetFormat() {
	case FormatGeoJSON, FormatCSV:
	default:
		return errors.NewInvalidParameterError(op, "format", "must be geojson or csv", j.Format)
	}
	switch j.Mode {
	case background.ModeRandom:
	case background.ModeBiasLayer:
		if j.BiasPath == "" {
			return errors.NewInvalidParameterError(op, "bias_path", "required for bias_layer", "")
		}
	case background.ModeGeoExclusion:
		if j.OccurrencePath == "" {
			return errors.NewInvalidParameterError(op, "occurrence_path", "required for geo_exclusion", "")
		}
	case background.ModeTargetedGroup:
		if len(j.GroupPaths) == 0 {
			return errors.NewInvalidParameterError(op, "group_paths", "required for targeted_group", 0)
		}
	default:
		return errors.Wrapf(errors.ErrUnknownMode, "%s: %q", op, j.Mode)
	}
	return nil
}

// Request loads the files the job refers to and builds the sampler request.
func (j *Job) Request() (background.Request, error) {
	if err := j.Validate(); err != nil {
		return background.Request{}, err
	}
	req := background.Request{Count: j.Count, Extent: j.Extent, Seed: j.Seed}

	switch j.Mode {
	case background.ModeRandom:
		req.Mode = background.Random{}
	case background.ModeBiasLayer:
		surface, err := ReadGrid(j.BiasPath, "bias")
		if err != nil {
			return background.Request{}, err
		}
		covariates, err := ReadCovariates(j.Covariates)
		if err != nil {
			return background.Request{}, err
		}
		req.Mode = background.BiasLayer{Surface: surface, Covariates: covariates, Unique: j.Unique}
	case background.ModeGeoExclusion:
		points, err := ReadOccurrences(j.OccurrencePath)
		if err != nil {
			return background.Request{}, err
		}
		req.Mode = background.GeoExclusion{RadiusKm: j.RadiusKm, Occurrences: points}
	case background.ModeTargetedGroup:
		groups := make([][]spatial.Point, 0, len(j.GroupPaths))
		for _, path := range j.GroupPaths {
			points, err := ReadOccurrences(path)
			if err != nil {
				return background.Request{}, err
			}
			groups = append(groups, points)
		}
		req.Mode = background.TargetedGroup{Groups: groups}
	}
	return req, nil
}

// ReadGrid opens an ESRI ASCII grid file as a single-layer grid.
func ReadGrid(path, layer string) (*raster.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open grid %s", path)
	}
	defer f.Close()
	return raster.ReadASCIIGrid(f, layer)
}

// ReadCovariates stacks the given ASCII grids into one multi-layer grid.
// All layers must share the first layer's extent and shape. An empty list
// returns nil.
func ReadCovariates(layers []Layer) (*raster.Grid, error) {
	if len(layers) == 0 {
		return nil, nil
	}
	var stack *raster.Grid
	for _, l := range layers {
		g, err := ReadGrid(l.Path, l.Name)
		if err != nil {
			return nil, err
		}
		values, _ := g.Layer(l.Name)
		if stack == nil {
			stack = g
			continue
		}
		if !stack.SameShape(g) {
			return nil, errors.NewAlignmentError("config.ReadCovariates", l.Name,
				stack.Extent.String(), g.Extent.String())
		}
		if err := stack.AddLayer(l.Name, values); err != nil {
			return nil, err
		}
	}
	return stack, nil
}

// ReadOccurrences opens an occurrence CSV with the default column aliases.
func ReadOccurrences(path string) ([]spatial.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open occurrences %s", path)
	}
	defer f.Close()
	return occurrence.ReadCSV(f, occurrence.Columns{})
}
