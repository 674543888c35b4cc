package ngram

import "sort"

// Counter tallies phrase occurrences.
type Counter struct {
	counts map[string]int
	total  int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments phrase by one.
func (c *Counter) Add(phrase string) {
	c.AddN(phrase, 1)
}

// AddN increments phrase by n. Non-positive n is ignored.
func (c *Counter) AddN(phrase string, n int) {
	if n <= 0 {
		return
	}
	c.counts[phrase] += n
	c.total += n
}

// Get returns the count for phrase (0 when absent).
func (c *Counter) Get(phrase string) int { return c.counts[phrase] }

// Len is the number of distinct phrases.
func (c *Counter) Len() int { return len(c.counts) }

// Total is the sum of all counts.
func (c *Counter) Total() int { return c.total }

// MostCommon returns up to k entries ordered by count descending, then phrase
// ascending. k <= 0 returns every entry.
func (c *Counter) MostCommon(k int) []PhraseCount {
	out := make([]PhraseCount, 0, len(c.counts))
	for p, n := range c.counts {
		out = append(out, PhraseCount{Phrase: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Phrase < out[j].Phrase
		}
		return out[i].Count > out[j].Count
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
