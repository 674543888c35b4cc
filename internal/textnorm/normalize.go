package textnorm

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"
	"golang.org/x/text/unicode/norm"
)

// punctuation matches the ASCII punctuation set removed from review text.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Options configures a Normalizer.
type Options struct {
	// StopWords removed after lowercasing and punctuation stripping. Nil keeps every token.
	StopWords StopWords
	// SnowballStopWords also drops words on the Snowball English stop list.
	SnowballStopWords bool
	// Stem applies the Snowball English stemmer to surviving tokens.
	Stem bool
	// NFKC applies Unicode compatibility normalization before anything else.
	NFKC bool
}

// DefaultOptions returns the cleaning used for review text.
func DefaultOptions() Options {
	return Options{StopWords: DefaultStopWords(), NFKC: true}
}

// Normalizer turns raw review text into a cleaned document.
type Normalizer struct {
	opt Options
}

func New(opt Options) *Normalizer {
	return &Normalizer{opt: opt}
}

// Clean runs the full pipeline: NFKC, lowercase, punctuation, stop words, stemming.
func (n *Normalizer) Clean(text string) string {
	if n.opt.NFKC {
		text = NormalizeUnicode(text)
	}
	text = Lowercase(text)
	text = RemovePunctuation(text)
	text = n.RemoveStopWords(text)
	if n.opt.Stem {
		text = StemAll(text)
	}
	return text
}

// CleanAll cleans every text and returns a new slice.
func (n *Normalizer) CleanAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Clean(t)
	}
	return out
}

// RemoveStopWords drops whitespace tokens found in the configured stop-word set.
func (n *Normalizer) RemoveStopWords(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, w := range fields {
		if n.opt.StopWords.Contains(w) {
			continue
		}
		if n.opt.SnowballStopWords && english.IsStopWord(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeUnicode applies NFKC and strips control characters other than
// newlines and tabs.
func NormalizeUnicode(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, norm.NFKC.String(text))
}

// Lowercase lowercases each whitespace token and rejoins them with single spaces.
func Lowercase(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return strings.Join(fields, " ")
}

// RemovePunctuation deletes ASCII punctuation without inserting separators,
// so "it's" becomes "its".
func RemovePunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, text)
}

// StemAll stems each token with the Snowball English stemmer. Tokens the
// stemmer rejects are kept as-is.
func StemAll(text string) string {
	fields := strings.Fields(text)
	for i, w := range fields {
		s, err := snowball.Stem(w, "english", false)
		if err == nil && s != "" {
			fields[i] = s
		}
	}
	return strings.Join(fields, " ")
}

// Tokens splits a cleaned document into word tokens.
func Tokens(text string) []string {
	return strings.Fields(text)
}

// WordCount is the number of tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
