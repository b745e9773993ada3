package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/sdmgo/config"
	"github.com/YuminosukeSato/sdmgo/raster"
)

type densityFlags struct {
	template    string
	occurrences string
	bandwidthKm float64
	out         string
}

func newDensityCmd(global *globalFlags) *cobra.Command {
	flags := &densityFlags{}
	cmd := &cobra.Command{
		Use:   "density --template <grid.asc> --occurrences <file.csv>",
		Short: "Build a presence-density bias surface",
		Long: `Build a Gaussian kernel density surface of occurrence points on the
cells of a template grid. The result can be used as the bias surface of a
bias_layer sampling job.

Examples:
  sdmgo density --template temp.asc --occurrences occ.csv --bandwidth-km 50 --out bias.asc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(resolveLogLevel(global, "warn")); err != nil {
				return err
			}
			template, err := config.ReadGrid(flags.template, "template")
			if err != nil {
				return err
			}
			points, err := config.ReadOccurrences(flags.occurrences)
			if err != nil {
				return err
			}
			surface, err := raster.DensitySurface(template, points, flags.bandwidthKm)
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(cmd.OutOrStdout(), flags.out)
			if err != nil {
				return err
			}
			err = raster.WriteASCIIGrid(w, surface, raster.DensityLayer)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ density of %d occurrences on %dx%d cells\n",
				len(points), surface.Rows, surface.Cols)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.template, "template", "t", "", "ESRI ASCII grid giving extent and cell size")
	cmd.Flags().StringVar(&flags.occurrences, "occurrences", "", "occurrence CSV with lon/lat columns")
	cmd.Flags().Float64Var(&flags.bandwidthKm, "bandwidth-km", 50, "Gaussian kernel bandwidth in kilometres")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("occurrences")
	return cmd
}
