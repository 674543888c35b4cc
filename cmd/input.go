package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/reviewloom-cli/internal/analysis"
	"github.com/KaramelBytes/reviewloom-cli/internal/charts"
	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
	"github.com/KaramelBytes/reviewloom-cli/internal/textnorm"
)

// inputFlags are the dataset and cleaning flags shared by every command that
// reads a review file. Unset flags fall back to the loaded config.
type inputFlags struct {
	textColumn   string
	dateColumn   string
	groupColumn  string
	ratingColumn string
	encoding     string
	delimiter    string
	maxRows      int
	sheetName    string
	sheetIndex   int
	stopWords    string
	extraStop    []string
	snowball     bool
	stem         bool
}

func (in *inputFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&in.textColumn, "text-column", "Review_Text", "column holding the review text")
	f.StringVar(&in.dateColumn, "date-column", "Year_Month", "date column ('' to disable)")
	f.StringVar(&in.groupColumn, "group-column", "Branch", "grouping column, e.g. park branch ('' to disable)")
	f.StringVar(&in.ratingColumn, "rating-column", "Rating", "numeric rating column ('' to disable)")
	f.StringVar(&in.encoding, "encoding", "utf-8", "input encoding: utf-8 | latin-1")
	f.StringVar(&in.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto from extension if omitted)")
	f.IntVar(&in.maxRows, "max-rows", 0, "maximum rows to process (0 = unlimited)")
	f.StringVar(&in.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	f.IntVar(&in.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&in.stopWords, "stop-words", "", "extra stop words file (one per line, or YAML stop_words list)")
	f.StringSliceVar(&in.extraStop, "stop-word", nil, "additional stop word (repeatable)")
	f.BoolVar(&in.snowball, "snowball-stop-words", false, "also drop words on the Snowball English stop list")
	f.BoolVar(&in.stem, "stem", false, "apply the Snowball English stemmer to cleaned tokens")
}

func (in *inputFlags) datasetOptions(c *cobra.Command) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	delim, enc := "", dataset.EncodingUTF8
	if cfg != nil {
		opt.TextColumn = cfg.TextColumn
		opt.DateColumn = cfg.DateColumn
		opt.GroupColumn = cfg.GroupColumn
		opt.RatingColumn = cfg.RatingColumn
		opt.MaxRows = cfg.MaxRows
		delim, enc = cfg.Delimiter, cfg.Encoding
	}
	f := c.Flags()
	if f.Changed("text-column") {
		opt.TextColumn = in.textColumn
	}
	if f.Changed("date-column") {
		opt.DateColumn = in.dateColumn
	}
	if f.Changed("group-column") {
		opt.GroupColumn = in.groupColumn
	}
	if f.Changed("rating-column") {
		opt.RatingColumn = in.ratingColumn
	}
	if f.Changed("max-rows") {
		opt.MaxRows = in.maxRows
	}
	if f.Changed("delimiter") {
		delim = in.delimiter
	}
	if f.Changed("encoding") {
		enc = in.encoding
	}
	var err error
	if opt.Delimiter, err = dataset.ParseDelimiter(delim); err != nil {
		return opt, err
	}
	if opt.Encoding, err = dataset.ParseEncoding(enc); err != nil {
		return opt, err
	}
	if opt.MaxRows < 0 {
		return opt, fmt.Errorf("--max-rows must be >= 0")
	}
	opt.SheetName = in.sheetName
	opt.SheetIndex = in.sheetIndex
	return opt, nil
}

func (in *inputFlags) normalizeOptions(c *cobra.Command) (textnorm.Options, error) {
	opt := textnorm.DefaultOptions()
	path := ""
	var extra []string
	if cfg != nil {
		path = cfg.StopWordsFile
		extra = append(extra, cfg.ExtraStopWords...)
		opt.SnowballStopWords = cfg.SnowballStopWords
		opt.Stem = cfg.Stem
	}
	f := c.Flags()
	if f.Changed("stop-words") {
		path = in.stopWords
	}
	extra = append(extra, in.extraStop...)
	if f.Changed("snowball-stop-words") {
		opt.SnowballStopWords = in.snowball
	}
	if f.Changed("stem") {
		opt.Stem = in.stem
	}
	if path != "" {
		words, err := textnorm.LoadStopWords(path)
		if err != nil {
			return opt, err
		}
		extra = append(extra, words...)
	}
	opt.StopWords.Add(extra...)
	logger.Debug("normalizer configured",
		zap.Int("stop_words", opt.StopWords.Len()),
		zap.Bool("snowball", opt.SnowballStopWords),
		zap.Bool("stem", opt.Stem))
	return opt, nil
}

// loadTable applies the shared flags and reads path.
func (in *inputFlags) loadTable(c *cobra.Command, path string) (*dataset.Table, textnorm.Options, error) {
	dopt, err := in.datasetOptions(c)
	if err != nil {
		return nil, textnorm.Options{}, err
	}
	nopt, err := in.normalizeOptions(c)
	if err != nil {
		return nil, textnorm.Options{}, err
	}
	tbl, err := dataset.Load(path, dopt)
	if err != nil {
		return nil, nopt, err
	}
	logger.Debug("table loaded",
		zap.String("file", tbl.Name),
		zap.Int("rows", tbl.Rows),
		zap.Int("processed", tbl.Processed),
		zap.Int("missing_dates", tbl.MissingDates))
	return tbl, nopt, nil
}

// reportFlags size the tables of an analysis report.
type reportFlags struct {
	topWords    int
	cloudWords  int
	documentTop int
	corpusTop   int
	sampleRows  int
}

func (rf *reportFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.IntVar(&rf.topWords, "top-words", 20, "size of the most common words table")
	f.IntVar(&rf.cloudWords, "cloud-words", 100, "words fed to each word cloud")
	f.IntVar(&rf.documentTop, "document-top", 15, "per-review n-gram cut-off")
	f.IntVar(&rf.corpusTop, "corpus-top", 10, "corpus n-gram cut-off")
	f.IntVar(&rf.sampleRows, "sample-rows", 3, "raw/clean sample pairs to include (0 = none)")
}

func (rf *reportFlags) options(c *cobra.Command, norm textnorm.Options) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.Normalize = norm
	opt.Logger = logger
	if cfg != nil {
		opt.TopWords = cfg.TopWords
		opt.CloudWords = cfg.CloudWords
		opt.DocumentTop = cfg.DocumentTop
		opt.CorpusTop = cfg.CorpusTop
		opt.SampleRows = cfg.SampleRows
	}
	f := c.Flags()
	if f.Changed("top-words") {
		opt.TopWords = rf.topWords
	}
	if f.Changed("cloud-words") {
		opt.CloudWords = rf.cloudWords
	}
	if f.Changed("document-top") {
		opt.DocumentTop = rf.documentTop
	}
	if f.Changed("corpus-top") {
		opt.CorpusTop = rf.corpusTop
	}
	if f.Changed("sample-rows") {
		opt.SampleRows = rf.sampleRows
	}
	return opt
}

func chartOptions() charts.Options {
	opt := charts.DefaultOptions()
	if cfg != nil {
		opt.Width = cfg.ChartWidth
		opt.Height = cfg.ChartHeight
	}
	return opt
}
