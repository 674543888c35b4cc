package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
	"github.com/KaramelBytes/reviewloom-cli/internal/textnorm"
	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

var (
	clOutputPath string
	clInput      inputFlags
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Write the review table with Clean_Text and Frequency columns",
	Long: `Write the review table as CSV with two extra columns:
Clean_Text (lowercased, punctuation and stop words removed) and Frequency
(number of tokens in Clean_Text). Dates are written as YYYY-MM, empty when missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, nopt, err := clInput.loadTable(cmd, args[0])
		if err != nil {
			return err
		}
		n := textnorm.New(nopt)
		header, rows := cleanRows(tbl, n)

		var buf bytes.Buffer
		if err := dataset.WriteCSV(&buf, header, rows); err != nil {
			return err
		}
		if clOutputPath == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(clOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d cleaned reviews to %s\n", len(rows), clOutputPath)
		for _, w := range tbl.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		return nil
	},
}

func cleanRows(tbl *dataset.Table, n *textnorm.Normalizer) ([]string, [][]string) {
	header := []string{"Review_Text", "Year_Month", "Year", "Month", "Branch", "Rating", "Clean_Text", "Frequency"}
	rows := make([][]string, 0, len(tbl.Reviews))
	for _, r := range tbl.Reviews {
		clean := n.Clean(r.Text)
		// Frequency counts tokens, so a review emptied by cleaning gets 0.
		row := []string{r.Text, "", "", "", r.Group, "", clean, strconv.Itoa(textnorm.WordCount(clean))}
		if r.Date != nil {
			row[1] = r.Date.Format("2006-01")
			row[2] = strconv.Itoa(r.Year)
			row[3] = strconv.Itoa(r.Month)
		}
		if r.HasRating {
			row[5] = strconv.FormatFloat(r.Rating, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clOutputPath, "output", "o", "", "CSV path to write (stdout if omitted)")
	clInput.register(cleanCmd)
}
