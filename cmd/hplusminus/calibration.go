package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"hplusminus/domain/stats"
	"hplusminus/internal/analysis/pvalue"
	"hplusminus/internal/calibration"
	"hplusminus/internal/errors"

	"github.com/spf13/cobra"
)

func newCalibrationCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibration",
		Short: "Inspect or convert the calibration splines",
	}
	cmd.AddCommand(newCalibrationShowCmd(c), newCalibrationExportCmd(c))
	return cmd
}

func newCalibrationShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show [N...]",
		Short: "Print the shifted-gamma parameters of every test for sample sizes N",
		Long: `Prints alpha, beta and I0 of every test for the given sample sizes
(default 10 100 1000 10000). chi2 uses its analytic law.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sizes := []int{10, 100, 1000, 10000}
			if len(args) > 0 {
				sizes = sizes[:0]
				for _, arg := range args {
					n, err := strconv.Atoi(arg)
					if err != nil || n < 1 {
						return errors.InvalidInput(fmt.Sprintf("sample size %q must be a positive integer", arg))
					}
					sizes = append(sizes, n)
				}
			}

			lazy := c.deps.Calibration
			if _, err := lazy.Model(); err != nil {
				return errors.Wrap(err, "loading calibration")
			}
			engine := pvalue.NewEngine(lazy)

			tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "N\ttest\talpha\tbeta\tI0\t")
			for _, n := range sizes {
				for _, test := range stats.AllTests {
					p, err := engine.Parameters(test, n)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%d\t%s\t%.6g\t%.6g\t%.6g\t\n", n, test, p.Alpha, p.Beta, p.I0)
				}
			}
			return tw.Flush()
		},
	}
}

func newCalibrationExportCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the calibration splines to dir as .npy or .txt arrays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := calibration.Format(format)
			if f != calibration.FormatNPY && f != calibration.FormatText {
				return errors.InvalidInput(fmt.Sprintf("export format %q: use npy or txt", format))
			}
			model, err := c.deps.Calibration.Model()
			if err != nil {
				return errors.Wrap(err, "loading calibration")
			}
			if err := calibration.Export(model, args[0], f); err != nil {
				return errors.IOError(args[0], err)
			}
			c.logger.Info("exported calibration from %s to %s", model.Source(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "txt", "Array format: npy or txt")
	return cmd
}
