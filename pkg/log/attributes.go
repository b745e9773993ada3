// Package log defines standard attribute keys for sampling operations.
//
// Keys follow a hierarchical naming convention ("sample.mode",
// "data.cells") so records from the sampler, the raster loaders and the CLI
// can be filtered together.

package log

// Operation context
const (
	// ComponentKey identifies which package is logging.
	// Examples: "background", "raster", "occurrence", "cli"
	ComponentKey = "sdm.component"

	// OperationKey names the operation being performed.
	// Standard values: "generate", "extract", "read", "write"
	OperationKey = "sdm.operation"
)

// Sampling request and outcome
const (
	// ModeKey is the background sampling mode.
	// Standard values: "random", "bias_layer", "geo_exclusion", "targeted_group"
	ModeKey = "sample.mode"

	// RequestedKey is the number of points the caller asked for.
	RequestedKey = "sample.requested"

	// ReturnedKey is the number of points actually returned.
	ReturnedKey = "sample.returned"

	// ShortfallKey is RequestedKey minus ReturnedKey when a partial sample occurs.
	ShortfallKey = "sample.shortfall"

	// AttemptsKey is the number of candidate draws consumed by rejection sampling.
	AttemptsKey = "sample.attempts"

	// AttemptBudgetKey is the maximum number of candidate draws allowed.
	AttemptBudgetKey = "sample.attempt_budget"

	// RadiusKmKey is the geographic exclusion buffer radius in kilometres.
	RadiusKmKey = "sample.radius_km"

	// RandomSeedKey records the random seed for reproducibility.
	// Absent when the run drew from a non-deterministic source.
	RandomSeedKey = "config.random_seed"
)

// Data shape
const (
	// OccurrencesKey is the number of occurrence points supplied.
	OccurrencesKey = "data.occurrences"

	// GroupsKey is the number of related-taxa occurrence sets supplied.
	GroupsKey = "data.groups"

	// CellsKey is the number of raster cells in a grid.
	CellsKey = "data.cells"

	// UsableCellsKey is the number of cells with a positive sampling weight.
	UsableCellsKey = "data.usable_cells"

	// LayersKey is the number of covariate layers in a grid.
	LayersKey = "data.layers"

	// PathKey is the file a loader read from or a writer wrote to.
	PathKey = "data.path"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "InvalidParameterError", "AlignmentError"
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving an issue.
	// Examples: "Increase the buffer radius", "Enlarge the study extent"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationGenerate = "generate"
	OperationExtract  = "extract"
	OperationRead     = "read"
	OperationWrite    = "write"
)
