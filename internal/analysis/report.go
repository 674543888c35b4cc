package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
	"github.com/KaramelBytes/reviewloom-cli/internal/textnorm"
)

// Options controls which statistics a Report carries.
type Options struct {
	Normalize textnorm.Options
	// TopWords is the size of the most-common cleaned words table.
	TopWords int
	// CloudWords bounds the word lists fed to word clouds.
	CloudWords int
	// DocumentTop is the per-document n-gram cut-off.
	DocumentTop int
	// CorpusTop is the cut-off for corpus-wide bigrams and trigrams.
	CorpusTop int
	// SampleRows is how many raw/clean review pairs to include.
	SampleRows int
	Logger     *zap.Logger
}

// DefaultOptions returns reasonable defaults for review mining.
func DefaultOptions() Options {
	return Options{
		Normalize:   textnorm.DefaultOptions(),
		TopWords:    20,
		CloudWords:  100,
		DocumentTop: ngram.DefaultDocumentTop,
		CorpusTop:   ngram.DefaultCorpusTop,
		SampleRows:  3,
	}
}

// Report is the text-mining summary of one review table.
type Report struct {
	RunID        string               `json:"run_id" yaml:"run_id"`
	GeneratedAt  time.Time            `json:"generated_at" yaml:"generated_at"`
	Name         string               `json:"name" yaml:"name"`
	Rows         int                  `json:"rows" yaml:"rows"`
	Processed    int                  `json:"processed" yaml:"processed"`
	Columns      []dataset.ColumnInfo `json:"columns" yaml:"columns"`
	Documents    int                  `json:"documents" yaml:"documents"`
	MissingDates int                  `json:"missing_dates" yaml:"missing_dates"`
	WordCounts   WordCountStats       `json:"word_counts" yaml:"word_counts"`
	Groups       []GroupSummary       `json:"groups,omitempty" yaml:"groups,omitempty"`
	Ratings      []YearRating         `json:"ratings_by_year,omitempty" yaml:"ratings_by_year,omitempty"`

	RawWords       []ngram.PhraseCount `json:"raw_words" yaml:"raw_words"`
	CleanWords     []ngram.PhraseCount `json:"clean_words" yaml:"clean_words"`
	TopWords       []ngram.PhraseCount `json:"top_words" yaml:"top_words"`
	Unigrams       []ngram.PhraseCount `json:"unigrams" yaml:"unigrams"`
	Bigrams        []ngram.PhraseCount `json:"bigrams" yaml:"bigrams"`
	CorpusBigrams  []ngram.PhraseCount `json:"corpus_bigrams" yaml:"corpus_bigrams"`
	CorpusTrigrams []ngram.PhraseCount `json:"corpus_trigrams" yaml:"corpus_trigrams"`

	Samples  []Sample `json:"samples,omitempty" yaml:"samples,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// WordCountStats summarizes tokens per cleaned review.
type WordCountStats struct {
	Total int     `json:"total" yaml:"total"`
	Min   int     `json:"min" yaml:"min"`
	Max   int     `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// GroupSummary is the review count and mean rating of one group value.
type GroupSummary struct {
	Group      string  `json:"group" yaml:"group"`
	Reviews    int     `json:"reviews" yaml:"reviews"`
	Rated      int     `json:"rated" yaml:"rated"`
	MeanRating float64 `json:"mean_rating" yaml:"mean_rating"`
}

// YearRating is the mean rating of a group in one year.
type YearRating struct {
	Year  int     `json:"year" yaml:"year"`
	Group string  `json:"group" yaml:"group"`
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// Sample pairs a raw review with its cleaned form.
type Sample struct {
	Text  string `json:"text" yaml:"text"`
	Clean string `json:"clean" yaml:"clean"`
}

// CleanTexts returns the cleaned text of every review in tbl.
func CleanTexts(tbl *dataset.Table, n *textnorm.Normalizer) []string {
	return n.CleanAll(tbl.Texts())
}

// Analyze cleans the review text of tbl and computes word and n-gram statistics.
// It returns ngram.ErrEmptyCorpus when no review has text left after cleaning.
func Analyze(tbl *dataset.Table, opt Options) (*Report, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultOptions()
	if opt.TopWords <= 0 {
		opt.TopWords = def.TopWords
	}
	if opt.CloudWords <= 0 {
		opt.CloudWords = def.CloudWords
	}
	if opt.DocumentTop <= 0 {
		opt.DocumentTop = def.DocumentTop
	}
	if opt.CorpusTop <= 0 {
		opt.CorpusTop = def.CorpusTop
	}
	if opt.SampleRows < 0 {
		opt.SampleRows = 0
	}

	rep := &Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Name:         tbl.Name,
		Rows:         tbl.Rows,
		Processed:    tbl.Processed,
		Columns:      tbl.Columns,
		MissingDates: tbl.MissingDates,
		Warnings:     append([]string(nil), tbl.Warnings...),
	}

	norm := textnorm.New(opt.Normalize)
	raw := tbl.Texts()
	clean := norm.CleanAll(raw)
	log.Debug("cleaned reviews", zap.String("run_id", rep.RunID), zap.Int("reviews", len(clean)))

	var docs []string
	rep.WordCounts.Min = math.MaxInt
	for _, c := range clean {
		wc := textnorm.WordCount(c)
		rep.WordCounts.Total += wc
		if wc < rep.WordCounts.Min {
			rep.WordCounts.Min = wc
		}
		if wc > rep.WordCounts.Max {
			rep.WordCounts.Max = wc
		}
		if wc > 0 {
			docs = append(docs, c)
		}
	}
	if len(clean) == 0 {
		rep.WordCounts.Min = 0
	} else {
		rep.WordCounts.Mean = float64(rep.WordCounts.Total) / float64(len(clean))
	}
	rep.Documents = len(docs)
	if len(docs) == 0 {
		return nil, ngram.ErrEmptyCorpus
	}
	if blank := len(clean) - len(docs); blank > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d reviews were empty after cleaning", blank))
	}

	var err error
	// Raw cloud drops only generic English stop words and one-letter tokens;
	// park words stay so it contrasts with the cleaned cloud.
	generic := textnorm.EnglishStopWords()
	rawDocs := make([]string, len(raw))
	for i, r := range raw {
		fields := textnorm.Tokens(textnorm.RemovePunctuation(textnorm.Lowercase(r)))
		kept := fields[:0]
		for _, w := range fields {
			if utf8.RuneCountInString(w) > 1 && !generic.Contains(w) {
				kept = append(kept, w)
			}
		}
		rawDocs[i] = strings.Join(kept, " ")
	}
	if rep.RawWords, err = ngram.WordFrequencies(rawDocs, opt.CloudWords); err != nil && !errors.Is(err, ngram.ErrEmptyCorpus) {
		return nil, fmt.Errorf("raw words: %w", err)
	}
	if rep.CleanWords, err = ngram.WordFrequencies(docs, opt.CloudWords); err != nil {
		return nil, fmt.Errorf("clean words: %w", err)
	}
	if rep.TopWords, err = ngram.WordFrequencies(docs, opt.TopWords); err != nil {
		return nil, fmt.Errorf("top words: %w", err)
	}
	if rep.Unigrams, err = ngram.ExtractDocumentsTop(docs, 1, opt.DocumentTop); err != nil {
		return nil, fmt.Errorf("unigrams: %w", err)
	}
	if rep.Bigrams, err = ngram.ExtractDocumentsTop(docs, 2, opt.DocumentTop); err != nil {
		return nil, fmt.Errorf("bigrams: %w", err)
	}
	if rep.CorpusBigrams, err = ngram.CorpusTop(docs, 2, opt.CorpusTop); err != nil {
		return nil, fmt.Errorf("corpus bigrams: %w", err)
	}
	if rep.CorpusTrigrams, err = ngram.CorpusTop(docs, 3, opt.CorpusTop); err != nil {
		return nil, fmt.Errorf("corpus trigrams: %w", err)
	}
	log.Debug("n-gram tables built",
		zap.Int("unigrams", len(rep.Unigrams)),
		zap.Int("bigrams", len(rep.Bigrams)),
		zap.Int("corpus_trigrams", len(rep.CorpusTrigrams)))

	rep.Groups, rep.Ratings = summarizeGroups(tbl.Reviews)

	for i := 0; i < len(raw) && len(rep.Samples) < opt.SampleRows; i++ {
		rep.Samples = append(rep.Samples, Sample{Text: raw[i], Clean: clean[i]})
	}
	return rep, nil
}

func summarizeGroups(reviews []dataset.Review) ([]GroupSummary, []YearRating) {
	type acc struct {
		n, rated int
		sum      float64
	}
	type yearKey struct {
		year  int
		group string
	}
	groups := map[string]*acc{}
	years := map[yearKey]*acc{}
	for _, r := range reviews {
		if r.Group != "" {
			g := groups[r.Group]
			if g == nil {
				g = &acc{}
				groups[r.Group] = g
			}
			g.n++
			if r.HasRating {
				g.rated++
				g.sum += r.Rating
			}
		}
		if r.Date != nil && r.HasRating {
			k := yearKey{year: r.Year, group: r.Group}
			y := years[k]
			if y == nil {
				y = &acc{}
				years[k] = y
			}
			y.n++
			y.sum += r.Rating
		}
	}

	out := make([]GroupSummary, 0, len(groups))
	for name, g := range groups {
		gs := GroupSummary{Group: name, Reviews: g.n, Rated: g.rated}
		if g.rated > 0 {
			gs.MeanRating = g.sum / float64(g.rated)
		}
		out = append(out, gs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reviews == out[j].Reviews {
			return out[i].Group < out[j].Group
		}
		return out[i].Reviews > out[j].Reviews
	})

	yr := make([]YearRating, 0, len(years))
	for k, y := range years {
		yr = append(yr, YearRating{Year: k.year, Group: k.group, Count: y.n, Mean: y.sum / float64(y.n)})
	}
	sort.Slice(yr, func(i, j int) bool {
		if yr[i].Group == yr[j].Group {
			return yr[i].Year < yr[j].Year
		}
		return strings.Compare(yr[i].Group, yr[j].Group) < 0
	})
	return out, yr
}
