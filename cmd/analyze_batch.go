package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/reviewloom-cli/internal/analysis"
	"github.com/KaramelBytes/reviewloom-cli/internal/charts"
	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

var (
	abOutDir string
	abFormat string
	abCharts bool
	abQuiet  bool
	abInput  inputFlags
	abReport reportFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple review files with progress, one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		if abCharts && abOutDir == "" {
			return fmt.Errorf("--charts requires --out-dir")
		}
		ext, err := formatExt(abFormat)
		if err != nil {
			return err
		}
		if ext == "msgpack" && abOutDir == "" {
			return fmt.Errorf("--format msgpack requires --out-dir")
		}
		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		skipped := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			tbl, norm, err := abInput.loadTable(cmd, path)
			if err == nil {
				var rep *analysis.Report
				rep, err = analysis.Analyze(tbl, abReport.options(cmd, norm))
				if err == nil {
					err = writeBatchReport(cmd, path, rep, ext)
				}
			}
			if err != nil {
				// a bad file does not stop the batch; anything else does
				if errors.Is(err, ngram.ErrEmptyCorpus) || errors.Is(err, dataset.ErrMissingColumn) {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: skipped %s: %v\n", filepath.Base(path), err)
					logger.Debug("batch skip", zap.String("file", path), zap.Error(err))
					skipped++
					continue
				}
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
		}
		if skipped == total {
			return fmt.Errorf("no file produced a report")
		}
		return nil
	},
}

func writeBatchReport(cmd *cobra.Command, path string, rep *analysis.Report, ext string) error {
	body, err := rep.Render(abFormat)
	if err != nil {
		return err
	}
	if abOutDir == "" {
		if !abQuiet {
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
		}
		return nil
	}
	base := utils.BaseName(path)
	if abInput.sheetName != "" {
		base += "__sheet-" + utils.Slug(abInput.sheetName, "sheet")
	}
	outFile := utils.UniquePath(abOutDir, base, ".summary."+ext)
	if expected := filepath.Join(abOutDir, base+".summary."+ext); outFile != expected && !abQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
	}
	if err := utils.SafeWriteFile(outFile, body); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if !abQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", outFile)
	}
	if abCharts {
		dir := strings.TrimSuffix(outFile, ".summary."+ext) + "_charts"
		paths, err := charts.RenderReport(rep, dir, chartOptions())
		if err != nil {
			return err
		}
		if !abQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d charts to %s\n", len(paths), dir)
		}
	}
	return nil
}

// expandInputs resolves globs, keeps literal paths that exist, dedupes and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func formatExt(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return "md", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "msgpack":
		return "msgpack", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use md|json|yaml|msgpack)", format)
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for per-file reports (stdout if omitted)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "md", "report format: md | json | yaml | msgpack (msgpack requires --out-dir)")
	analyzeBatchCmd.Flags().BoolVar(&abCharts, "charts", false, "also render charts next to each report (requires --out-dir)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress output")
	abInput.register(analyzeBatchCmd)
	abReport.register(analyzeBatchCmd)
}
