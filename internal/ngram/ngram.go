package ngram

import (
	"errors"
	"sort"
	"strings"
)

const (
	// DefaultDocumentTop is how many phrases ExtractDocuments keeps.
	DefaultDocumentTop = 15
	// DefaultCorpusTop is how many phrases CorpusTop keeps when k <= 0.
	DefaultCorpusTop = 10
)

var (
	// ErrEmptyCorpus is returned when there are no non-blank documents to count.
	ErrEmptyCorpus = errors.New("empty corpus: no documents to analyze")
	// ErrInvalidWindowSize is returned when the n-gram size is not positive.
	ErrInvalidWindowSize = errors.New("invalid window size: must be > 0")
)

// PhraseCount is one row of a ranked frequency table.
type PhraseCount struct {
	Phrase string `json:"phrase" yaml:"phrase"`
	Count  int    `json:"count" yaml:"count"`
}

// ExtractDocuments counts size-grams inside each document and returns the 15 most
// frequent phrases sorted ascending by count, so the largest count is last.
func ExtractDocuments(documents []string, size int) ([]PhraseCount, error) {
	return ExtractDocumentsTop(documents, size, DefaultDocumentTop)
}

// ExtractDocumentsTop is ExtractDocuments with a configurable cut-off.
// Windows never cross document boundaries, and a document with len(tokens) <= size
// is skipped entirely rather than padded or truncated.
func ExtractDocumentsTop(documents []string, size, k int) ([]PhraseCount, error) {
	if size <= 0 {
		return nil, ErrInvalidWindowSize
	}
	if isEmptyCorpus(documents) {
		return nil, ErrEmptyCorpus
	}
	if k <= 0 {
		k = DefaultDocumentTop
	}
	c := NewCounter()
	for _, doc := range documents {
		tokens := strings.Fields(doc)
		if len(tokens) <= size {
			continue
		}
		addWindows(c, tokens, size)
	}
	top := c.MostCommon(k)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count < top[j].Count })
	return top, nil
}

// CorpusTop joins all documents into a single token stream and counts size-grams
// across it, so windows can span what were document boundaries. The result is the
// k most frequent phrases in descending order.
func CorpusTop(documents []string, size, k int) ([]PhraseCount, error) {
	if size <= 0 {
		return nil, ErrInvalidWindowSize
	}
	if isEmptyCorpus(documents) {
		return nil, ErrEmptyCorpus
	}
	if k <= 0 {
		k = DefaultCorpusTop
	}
	var stream []string
	for _, doc := range documents {
		stream = append(stream, strings.Fields(doc)...)
	}
	c := NewCounter()
	if len(stream) >= size {
		addWindows(c, stream, size)
	}
	return c.MostCommon(k), nil
}

// WordFrequencies returns the k most common whitespace tokens across documents.
func WordFrequencies(documents []string, k int) ([]PhraseCount, error) {
	return CorpusTop(documents, 1, k)
}

// Windows returns every contiguous size-token window of tokens, joined by a single
// space, in left-to-right order.
func Windows(tokens []string, size int) []string {
	if size <= 0 || len(tokens) < size {
		return nil
	}
	out := make([]string, 0, len(tokens)-size+1)
	for i := 0; i+size <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+size], " "))
	}
	return out
}

func addWindows(c *Counter, tokens []string, size int) {
	for i := 0; i+size <= len(tokens); i++ {
		c.Add(strings.Join(tokens[i:i+size], " "))
	}
}

func isEmptyCorpus(documents []string) bool {
	for _, d := range documents {
		if strings.TrimSpace(d) != "" {
			return false
		}
	}
	return true
}
