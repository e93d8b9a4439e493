package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"hplusminus/internal"
	"hplusminus/internal/config"
	"hplusminus/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// cli carries the state shared by all commands: configuration merged from
// the environment and flags, the logger and the output streams.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	debug  bool
	gspDir string

	cfg    *config.Config
	logger *internal.Logger
	deps   *container.Container
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	var column int
	var output string

	rootCmd := &cobra.Command{
		Use:   "hplusminus <residual-file>",
		Short: "Run-length tests for normalized residuals",
		Long: `Computes the Shannon information and p-values of five tests on a sequence of
normalized residuals: chi2, the run-length histogram test h, the separate
positive/negative run histogram test hpm, and their combinations with chi2.

Residuals are read from one column of a whitespace-delimited text file, a CSV
file or the first sheet of an Excel workbook.

Example: hplusminus residuals.txt --col 2 -o pvalues.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("col") {
				column = c.cfg.Input.Column
			}
			return c.runEvaluate(cmd.Context(), args[0], column, output)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&c.gspDir, "gsp-dir", "", "Calibration directory (default $HPLUSMINUS_GSP_DIR or ./gsp)")
	rootCmd.Flags().IntVar(&column, "col", config.DefaultColumn, "1-based column of the residuals")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Save results to a .txt, .csv, .md or .html file")

	rootCmd.AddCommand(
		newBatchCmd(c),
		newServeCmd(c),
		newCalibrationCmd(c),
	)

	return rootCmd
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("gsp-dir") {
		cfg.Calibration.Dir = c.gspDir
	}
	if c.debug {
		cfg.LogLevel = internal.LogLevelDebug
	}
	c.cfg = cfg
	c.logger = internal.NewLoggerTo(cfg.LogLevel, c.stderr)
	c.deps, err = container.New(cfg, c.logger)
	return err
}
