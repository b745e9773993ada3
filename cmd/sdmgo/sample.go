package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/sdmgo/background"
	"github.com/YuminosukeSato/sdmgo/config"
	"github.com/YuminosukeSato/sdmgo/export"
)

type sampleFlags struct {
	out    string
	format string
	count  int
	seed   int64
}

func newSampleCmd(global *globalFlags) *cobra.Command {
	flags := &sampleFlags{}
	cmd := &cobra.Command{
		Use:     "sample <job.json>",
		Aliases: []string{"s"},
		Short:   "Generate background points for a sampling job",
		Long: `Generate background points as described by a JSON job file.

Examples:
  sdmgo sample job.json
  sdmgo sample job.json --count 10000 --seed 42 --format csv --out background.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := job.ApplyEnv(global.envFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("count") {
				job.Count = flags.count
			}
			if cmd.Flags().Changed("seed") {
				seed := flags.seed
				job.Seed = &seed
			}
			if flags.out != "" {
				job.Output = flags.out
			}
			if flags.format != "" {
				job.Format = flags.format
			}
			if global.logLevel != "" {
				job.LogLevel = global.logLevel
			}
			if err := setupLogging(job.GetLogLevel()); err != nil {
				return err
			}

			req, err := job.Request()
			if err != nil {
				return err
			}
			sampler := background.NewSampler(background.WithAttemptFactor(job.GetAttemptFactor()))
			ps, err := sampler.Generate(req)
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(cmd.OutOrStdout(), job.Output)
			if err != nil {
				return err
			}
			switch job.GetFormat() {
			case config.FormatCSV:
				err = export.WriteCSV(w, ps.Points)
			default:
				err = export.WriteGeoJSON(w, ps)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			status := cmd.ErrOrStderr()
			if ps.Warning != nil {
				printWarning(status, ps.Warning)
			}
			color.New(color.FgGreen).Fprintf(status, "✓ %d %s background points", ps.Len(), ps.Mode)
			if job.Output != "" && job.Output != "-" {
				fmt.Fprintf(status, " → %s", job.Output)
			}
			fmt.Fprintln(status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: geojson or csv")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 0, "number of points (overrides the job file)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (overrides the job file)")
	return cmd
}
