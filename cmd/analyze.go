package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reviewloom-cli/internal/analysis"
	"github.com/KaramelBytes/reviewloom-cli/internal/charts"
	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaChartsDir  string
	anaInput      inputFlags
	anaReport     reportFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze the review text of a CSV/TSV/XLSX and produce a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		tbl, norm, err := anaInput.loadTable(cmd, path)
		if err != nil {
			return err
		}
		rep, err := analysis.Analyze(tbl, anaReport.options(cmd, norm))
		if err != nil {
			return fmt.Errorf("analyze %s: %w", tbl.Name, err)
		}
		out, err := rep.Render(anaFormat)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}

		if anaChartsDir != "" {
			paths, err := charts.RenderReport(rep, anaChartsDir, chartOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d charts to %s\n", len(paths), anaChartsDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "md", "report format: md | json | yaml | msgpack")
	analyzeCmd.Flags().StringVar(&anaChartsDir, "charts", "", "directory for word clouds and bar/line chart PNGs")
	anaInput.register(analyzeCmd)
	anaReport.register(analyzeCmd)
}
