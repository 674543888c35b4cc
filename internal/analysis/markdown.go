package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
)

// Format names accepted by Render.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMsgpack  = "msgpack"
)

// Render encodes the report in the given format.
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown, "markdown":
		return []byte(r.Markdown()), nil
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(b, '\n'), nil
	case FormatYAML, "yml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("marshal msgpack: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use md|json|yaml|msgpack)", format)
	}
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[REVIEW TEXT SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	if r.Processed > 0 && r.Processed < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.Rows, r.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Documents: %d\n", r.Documents))
	b.WriteString(fmt.Sprintf("Words per review: mean %.1f, min %d, max %d\n", r.WordCounts.Mean, r.WordCounts.Min, r.WordCounts.Max))
	if r.MissingDates > 0 {
		b.WriteString(fmt.Sprintf("Missing dates: %d\n", r.MissingDates))
	}

	if len(r.Columns) > 0 {
		b.WriteString("\n[COLUMNS]\n")
		for _, c := range r.Columns {
			b.WriteString(fmt.Sprintf("- %s: non-null %d\n", safeName(c.Name), c.NonNull))
		}
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[REVIEWS PER GROUP]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s: %d reviews", safeVal(g.Group), g.Reviews))
			if g.Rated > 0 {
				b.WriteString(fmt.Sprintf(", mean rating %.2f", g.MeanRating))
			}
			b.WriteString("\n")
		}
	}
	if len(r.Ratings) > 0 {
		b.WriteString("\n[RATINGS PER YEAR]\n")
		for _, y := range r.Ratings {
			g := y.Group
			if g == "" {
				g = "(all)"
			}
			b.WriteString(fmt.Sprintf("- %s %d: mean %.2f (n=%d)\n", safeVal(g), y.Year, y.Mean, y.Count))
		}
	}

	writeTable(&b, "MOST COMMON WORDS", r.TopWords)
	writeTable(&b, "UNIGRAMS", r.Unigrams)
	writeTable(&b, "BIGRAMS", r.Bigrams)
	writeTable(&b, "CORPUS BIGRAMS", r.CorpusBigrams)
	writeTable(&b, "CORPUS TRIGRAMS", r.CorpusTrigrams)

	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE REVIEWS]\n")
		b.WriteString("| Review_Text | Clean_Text |\n")
		b.WriteString("| --- | --- |\n")
		for _, s := range r.Samples {
			b.WriteString(fmt.Sprintf("| %s | %s |\n", safeVal(clip(s.Text, 80)), safeVal(clip(s.Clean, 80))))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, title string, rows []ngram.PhraseCount) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n[")
	b.WriteString(title)
	b.WriteString("]\n")
	for _, pc := range rows {
		b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(pc.Phrase), pc.Count))
	}
}

func clip(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
