package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/config"
	"github.com/YuminosukeSato/sdmgo/export"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
	"github.com/YuminosukeSato/sdmgo/preprocessing"
)

type extractFlags struct {
	points      string
	layers      []string
	out         string
	standardize bool
}

func newExtractCmd(global *globalFlags) *cobra.Command {
	flags := &extractFlags{}
	cmd := &cobra.Command{
		Use:     "extract --points <file.csv> --layer name=grid.asc...",
		Aliases: []string{"x"},
		Short:   "Extract covariate values at points",
		Long: `Look up covariate grids at each point of a CSV file and write one CSV
row per point with one column per layer. Points off the grid get NA.
With --standardize each layer is scaled to mean 0 and unit variance over
the points that have a value.

Examples:
  sdmgo extract --points background.csv --layer temp=temp.asc --layer rain=rain.asc --out covariates.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(resolveLogLevel(global, "warn")); err != nil {
				return err
			}
			layers, err := parseLayers(flags.layers)
			if err != nil {
				return err
			}
			grid, err := config.ReadCovariates(layers)
			if err != nil {
				return err
			}
			points, err := config.ReadOccurrences(flags.points)
			if err != nil {
				return err
			}

			values, onGrid, err := grid.Extract(points)
			if err != nil {
				return err
			}
			var table mat.Matrix = values
			if flags.standardize {
				scaled, err := preprocessing.NewStandardScalerDefault().FitTransform(values)
				if err != nil {
					return err
				}
				table = scaled
			}
			off := 0
			for _, ok := range onGrid {
				if !ok {
					off++
				}
			}
			log.GetLogger().Info("extracted covariates",
				log.ComponentKey, "cli",
				log.OperationKey, log.OperationExtract,
				log.LayersKey, grid.NumLayers(),
				"points", len(points),
				"off_grid", off)

			w, closeOut, err := createOutput(cmd.OutOrStdout(), flags.out)
			if err != nil {
				return err
			}
			err = export.WriteCovariatesCSV(w, points, grid.LayerNames(), table)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			status := cmd.ErrOrStderr()
			if off > 0 {
				printWarning(status, fmt.Errorf("%d of %d points fall outside the covariate grid", off, len(points)))
			}
			color.New(color.FgGreen).Fprintf(status, "✓ extracted %d layers at %d points\n", grid.NumLayers(), len(points))
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.points, "points", "p", "", "CSV file with lon/lat columns")
	cmd.Flags().StringArrayVarP(&flags.layers, "layer", "l", nil, "covariate layer as name=path (repeatable)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&flags.standardize, "standardize", false, "scale each layer to mean 0 and standard deviation 1")
	_ = cmd.MarkFlagRequired("points")
	_ = cmd.MarkFlagRequired("layer")
	return cmd
}

func parseLayers(args []string) ([]config.Layer, error) {
	layers := make([]config.Layer, 0, len(args))
	for _, arg := range args {
		name, path, ok := strings.Cut(arg, "=")
		if !ok || name == "" || path == "" {
			return nil, errors.NewInvalidParameterError("extract", "layer", "expected name=path", arg)
		}
		layers = append(layers, config.Layer{Name: name, Path: path})
	}
	return layers, nil
}
