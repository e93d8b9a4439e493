package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hplusminus/adapters/report"
	"hplusminus/app"
	"hplusminus/internal/errors"

	"github.com/spf13/cobra"
)

func (c *cli) runEvaluate(ctx context.Context, path string, column int, output string) error {
	values, err := c.deps.Residuals.ReadColumn(ctx, path, column)
	if err != nil {
		return err
	}

	eval, err := c.deps.Service.Evaluate(ctx, values)
	if err != nil {
		return errors.Wrapf(err, "evaluating %s", path)
	}
	if err := report.PrintTable(c.stdout, &eval.Results); err != nil {
		return err
	}

	if output == "" {
		return nil
	}
	return c.save(output, eval)
}

// save writes a report file. An unrecognized extension only warns.
func (c *cli) save(output string, eval *app.Evaluation) error {
	err := report.SaveToFile(output, &eval.Results)
	switch {
	case stderrors.Is(err, report.ErrUnsupportedFormat):
		c.logger.Warn("no output written: %v", err)
		return nil
	case err != nil:
		return err
	}
	c.logger.Info("saved results to %s", output)
	return nil
}

func newBatchCmd(c *cli) *cobra.Command {
	var column int
	var workers int
	var outputDir string
	var format string

	cmd := &cobra.Command{
		Use:   "batch <residual-file>...",
		Short: "Evaluate several residual files concurrently",
		Long: `Evaluates every file independently and prints one table per file, in the
order given. With --output-dir, each result is also saved as <name>.<format>.

Example: hplusminus batch fits/*.txt --workers 8 --output-dir results --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("col") {
				column = c.cfg.Input.Column
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Batch.Workers
			}
			return c.runBatch(cmd.Context(), args, column, workers, outputDir, format)
		},
	}

	cmd.Flags().IntVar(&column, "col", 1, "1-based column of the residuals")
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of files evaluated at once")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory receiving one report per input file")
	cmd.Flags().StringVar(&format, "format", "csv", "Report format for --output-dir: txt, csv, md or html")

	return cmd
}

func (c *cli) runBatch(ctx context.Context, paths []string, column, workers int, outputDir, format string) error {
	ext := "." + strings.TrimPrefix(strings.ToLower(format), ".")
	if outputDir != "" {
		if _, err := report.WriterFor(ext); err != nil {
			return err
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return errors.IOError(outputDir, err)
		}
	}

	reader := c.deps.Residuals
	inputs := make([]app.BatchInput, 0, len(paths))
	for _, path := range paths {
		values, err := reader.ReadColumn(ctx, path, column)
		if err != nil {
			return err
		}
		inputs = append(inputs, app.BatchInput{Name: path, Residuals: values})
	}

	evals, err := c.deps.Service.EvaluateBatch(ctx, inputs, workers)
	if err != nil {
		return err
	}

	for _, eval := range evals {
		fmt.Fprintf(c.stdout, "\n== %s (N=%d) ==\n", eval.Source, eval.N)
		if err := report.PrintTable(c.stdout, &eval.Results); err != nil {
			return err
		}
		if outputDir != "" {
			base := strings.TrimSuffix(filepath.Base(eval.Source), filepath.Ext(eval.Source))
			if err := c.save(filepath.Join(outputDir, base+ext), eval); err != nil {
				return err
			}
		}
	}
	return nil
}
