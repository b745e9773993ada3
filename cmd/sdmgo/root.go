package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/sdmgo/config"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/pkg/log"
)

type globalFlags struct {
	logLevel string
	envFile  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "sdmgo",
		Short: "Background point sampling for species distribution models",
		Long: `sdmgo draws background (pseudo-absence) points for presence-only
species distribution models and prepares the data around them.

Examples:
  sdmgo sample job.json --out background.geojson
  sdmgo extract --points background.csv --layer temp=temp.asc --layer rain=rain.asc
  sdmgo density --template temp.asc --occurrences occ.csv --bandwidth-km 50 --out bias.asc`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "file with environment overrides")

	root.AddCommand(newSampleCmd(flags), newExtractCmd(flags), newDensityCmd(flags))
	return root
}

// setupLogging installs a zerolog logger on stderr at level and routes
// library warnings through it.
func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	zl := log.NewZerologLogger(os.Stderr, lvl)
	log.SetLogger(zl)
	zl.InstallWarningHook()
	return log.SetupLogger(level)
}

// resolveLogLevel picks the flag, then the environment, then def.
func resolveLogLevel(flags *globalFlags, def string) string {
	if flags.logLevel != "" {
		return flags.logLevel
	}
	job := &config.Job{LogLevel: def}
	if err := job.ApplyEnv(flags.envFile); err != nil {
		return def
	}
	return job.GetLogLevel()
}

// createOutput opens path for writing, or returns w when path is empty or "-".
func createOutput(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}

func printWarning(w io.Writer, warning error) {
	color.New(color.FgYellow).Fprintf(w, "⚠ %v\n", warning)
}
