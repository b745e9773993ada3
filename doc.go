// Package sdmgo provides background (pseudo-absence) point sampling and the
// data plumbing around it for presence-only species distribution models.
//
// sdmgo does not fit models. It prepares the inputs a GLM, GAM, MaxEnt or
// boosting workflow needs: background points drawn with optional sampling
// bias correction, covariate values at those points, spatially separated
// cross-validation folds, and AUC for scoring the fitted model's output.
//
// # Features
//
// - Four sampling modes: random, bias_layer, geo_exclusion, targeted_group
// - Reproducible: a seeded request always returns the same points
// - Partial samples are warnings, not errors
// - ESRI ASCII grid and occurrence CSV loaders
// - GeoJSON and CSV export
//
// # Installation
//
//	go get github.com/YuminosukeSato/sdmgo
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/sdmgo/background"
//	    "github.com/YuminosukeSato/sdmgo/spatial"
//	)
//
//	func main() {
//	    extent, err := spatial.NewExtent(-10, 10, -10, 10)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ps, err := background.NewSampler().Generate(background.Request{
//	        Count:  5,
//	        Extent: extent,
//	        Mode:   background.Random{},
//	        Seed:   background.Seed(42),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if ps.Warning != nil {
//	        fmt.Println("short sample:", ps.Warning)
//	    }
//	    fmt.Println(ps.Points)
//	}
//
// # Packages
//
//   - background: the sampler and its modes
//   - spatial: study extent, great-circle distance, buffer index
//   - raster: grids, ASCII grid I/O, covariate extraction, density surfaces
//   - occurrence: occurrence CSV loading, union, thinning
//   - validation: k-fold, stratified and spatial block cross-validation
//   - metrics: AUC and chi-square goodness of fit
//   - config: JSON job files with .env overrides
//   - export: GeoJSON and CSV writers
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error types, warnings and structured logging
//
// The sdmgo command (cmd/sdmgo) wraps sampling, extraction and density
// building for use from the shell.
//
// # License
//
// sdmgo is released under the MIT License.
package sdmgo
