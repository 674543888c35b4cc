package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
	"github.com/KaramelBytes/reviewloom-cli/internal/textnorm"
	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

var (
	ngSize   int
	ngTop    int
	ngMode   string
	ngFormat string
	ngInput  inputFlags
)

var ngramsCmd = &cobra.Command{
	Use:   "ngrams <file>",
	Short: "Print the most frequent n-grams of the cleaned review text",
	Long: `Print the most frequent n-grams of the cleaned review text.

  --mode document  counts windows inside each review; reviews with no more
                   tokens than --size are skipped; sorted ascending (top last)
  --mode corpus    joins every review into one stream, so windows may span
                   two reviews; sorted descending`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, nopt, err := ngInput.loadTable(cmd, args[0])
		if err != nil {
			return err
		}
		docs := textnorm.New(nopt).CleanAll(tbl.Texts())

		var rows []ngram.PhraseCount
		switch strings.ToLower(ngMode) {
		case "document", "doc":
			rows, err = ngram.ExtractDocumentsTop(docs, ngSize, ngTop)
		case "corpus":
			rows, err = ngram.CorpusTop(docs, ngSize, ngTop)
		default:
			return fmt.Errorf("unsupported --mode: %s (use document|corpus)", ngMode)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(ngFormat) {
		case "", "md", "markdown":
			fmt.Fprintf(out, "[%s %d-GRAMS]\n", strings.ToUpper(ngMode), ngSize)
			for _, r := range rows {
				fmt.Fprintf(out, "- %s: %d\n", r.Phrase, r.Count)
			}
		case "json":
			b, err := utils.PrettyJSON(rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "yaml", "yml":
			b, err := yaml.Marshal(rows)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Fprint(out, string(b))
		default:
			return fmt.Errorf("unsupported format: %s (use md|json|yaml)", ngFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ngramsCmd)
	ngramsCmd.Flags().IntVarP(&ngSize, "size", "n", 2, "n-gram size (tokens per window)")
	ngramsCmd.Flags().IntVar(&ngTop, "top", 0, "phrases to keep (0 = 15 for document mode, 10 for corpus mode)")
	ngramsCmd.Flags().StringVar(&ngMode, "mode", "document", "counting mode: document | corpus")
	ngramsCmd.Flags().StringVarP(&ngFormat, "format", "f", "md", "output format: md | json | yaml")
	ngInput.register(ngramsCmd)
}
