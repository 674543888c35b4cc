package textnorm

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// englishStopWords is the NLTK English stop-word corpus.
var englishStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he", "him", "his",
	"himself", "she", "she's", "her", "hers", "herself", "it", "it's", "its", "itself",
	"they", "them", "their", "theirs", "themselves", "what", "which", "who", "whom", "this",
	"that", "that'll", "these", "those", "am", "is", "are", "was", "were", "be",
	"been", "being", "have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then", "once",
	"here", "there", "when", "where", "why", "how", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "so", "than", "too", "very", "s", "t", "can", "will",
	"just", "don", "don't", "should", "should've", "now", "d", "ll", "m", "o",
	"re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't", "didn", "didn't",
	"doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't",
	"ma", "mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan", "shan't", "shouldn",
	"shouldn't", "wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}

// ParkStopWords are domain words too frequent in park reviews to be informative.
var ParkStopWords = []string{"day", "disney", "disneyland", "rides", "park"}

// StopWords is a set of tokens removed during cleaning.
type StopWords map[string]struct{}

// NewStopWords builds a set from the given lists. Entries are lowercased and trimmed.
func NewStopWords(lists ...[]string) StopWords {
	s := StopWords{}
	for _, l := range lists {
		s.Add(l...)
	}
	return s
}

// EnglishStopWords returns the generic English list without the park words.
func EnglishStopWords() StopWords {
	return NewStopWords(englishStopWords)
}

// DefaultStopWords returns the English list extended with ParkStopWords.
func DefaultStopWords() StopWords {
	return NewStopWords(englishStopWords, ParkStopWords)
}

// Add inserts words into the set.
func (s StopWords) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// Contains reports whether w is a stop word.
func (s StopWords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// Len returns the number of stop words.
func (s StopWords) Len() int { return len(s) }

type stopWordsFile struct {
	StopWords []string `yaml:"stop_words"`
}

// LoadStopWords reads a stop-word list from path. YAML files (.yaml/.yml) must
// contain a stop_words sequence; anything else is read one word per line, with
// blank lines and '#' comments ignored.
func LoadStopWords(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stop words: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var f stopWordsFile
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse stop words: %w", err)
		}
		return f.StopWords, nil
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan stop words: %w", err)
	}
	return out, nil
}
