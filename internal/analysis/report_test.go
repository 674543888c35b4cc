package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reviewloom-cli/internal/dataset"
	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
)

var records = [][]string{
	{"Review_ID", "Rating", "Year_Month", "Review_Text", "Branch"},
	{"1", "4", "2019-4", "The fireworks were amazing! Long queues though.", "Disneyland_HongKong"},
	{"2", "5", "2019-5", "Amazing fireworks, great food.", "Disneyland_HongKong"},
	{"3", "3", "2018-12", "Long queues, long queues everywhere.", "Disneyland_Paris"},
	{"4", "2", "missing", "The park was too hot.", "Disneyland_Paris"},
	{"5", "4", "2018-7", "Great food and amazing fireworks", "Disneyland_Paris"},
}

func loadTable(t *testing.T, recs [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords(recs, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	tbl.Name = "reviews.csv"
	return tbl
}

func TestAnalyze(t *testing.T) {
	rep, err := Analyze(loadTable(t, records), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.RunID == "" || rep.GeneratedAt.IsZero() {
		t.Fatalf("missing run metadata")
	}
	if rep.Rows != 5 || rep.Documents != 5 || rep.MissingDates != 1 {
		t.Fatalf("rows=%d docs=%d missing=%d", rep.Rows, rep.Documents, rep.MissingDates)
	}
	// "the park was too hot" -> "hot"
	if rep.WordCounts.Min != 1 || rep.WordCounts.Max != 5 {
		t.Fatalf("word counts = %#v", rep.WordCounts)
	}

	wantTop := []ngram.PhraseCount{
		{Phrase: "amazing", Count: 3},
		{Phrase: "fireworks", Count: 3},
		{Phrase: "long", Count: 3},
	}
	if diff := cmp.Diff(wantTop, rep.TopWords[:3]); diff != "" {
		t.Fatalf("top words (-want +got):\n%s", diff)
	}
	// Per-document bigrams: ascending, largest last.
	last := rep.Bigrams[len(rep.Bigrams)-1]
	if last.Phrase != "long queues" || last.Count != 3 {
		t.Fatalf("top bigram = %#v", last)
	}
	for i := 1; i < len(rep.Bigrams); i++ {
		if rep.Bigrams[i-1].Count > rep.Bigrams[i].Count {
			t.Fatalf("bigrams not ascending: %#v", rep.Bigrams)
		}
	}
	// Corpus bigrams: descending and may span reviews.
	if rep.CorpusBigrams[0].Phrase != "long queues" || rep.CorpusBigrams[0].Count != 3 {
		t.Fatalf("corpus bigrams = %#v", rep.CorpusBigrams)
	}
	spans := false
	for _, pc := range rep.CorpusBigrams {
		if pc.Phrase == "food long" {
			spans = true
		}
	}
	if !spans {
		t.Fatalf("expected a bigram spanning reviews 2 and 3: %#v", rep.CorpusBigrams)
	}
	if len(rep.CorpusTrigrams) == 0 {
		t.Fatalf("expected corpus trigrams")
	}

	// Raw cloud drops generic stop words but keeps park words.
	rawSeen := map[string]bool{}
	for _, w := range rep.RawWords {
		rawSeen[w.Phrase] = true
	}
	if rawSeen["the"] || rawSeen["and"] || !rawSeen["park"] {
		t.Fatalf("raw words = %#v", rep.RawWords)
	}
	for _, w := range rep.CleanWords {
		if w.Phrase == "park" {
			t.Fatalf("clean words should drop park words: %#v", rep.CleanWords)
		}
	}

	wantGroups := []GroupSummary{
		{Group: "Disneyland_Paris", Reviews: 3, Rated: 3, MeanRating: 3},
		{Group: "Disneyland_HongKong", Reviews: 2, Rated: 2, MeanRating: 4.5},
	}
	if diff := cmp.Diff(wantGroups, rep.Groups); diff != "" {
		t.Fatalf("groups (-want +got):\n%s", diff)
	}
	wantYears := []YearRating{
		{Year: 2019, Group: "Disneyland_HongKong", Count: 2, Mean: 4.5},
		{Year: 2018, Group: "Disneyland_Paris", Count: 2, Mean: 3.5},
	}
	if diff := cmp.Diff(wantYears, rep.Ratings); diff != "" {
		t.Fatalf("ratings (-want +got):\n%s", diff)
	}
	if len(rep.Samples) != 3 || rep.Samples[0].Clean != "fireworks amazing long queues though" {
		t.Fatalf("samples = %#v", rep.Samples)
	}
}

func TestAnalyzeEmptyCorpus(t *testing.T) {
	recs := [][]string{{"Review_Text"}, {"The and a"}, {""}}
	_, err := Analyze(loadTable(t, recs), DefaultOptions())
	if !errors.Is(err, ngram.ErrEmptyCorpus) {
		t.Fatalf("err = %v, want ErrEmptyCorpus", err)
	}
	_, err = Analyze(loadTable(t, [][]string{{"Review_Text"}}), DefaultOptions())
	if !errors.Is(err, ngram.ErrEmptyCorpus) {
		t.Fatalf("header only: err = %v", err)
	}
}

func TestAnalyzeWarnsOnBlankReviews(t *testing.T) {
	recs := [][]string{{"Review_Text"}, {"the"}, {"great castle view"}}
	rep, err := Analyze(loadTable(t, recs), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Documents != 1 {
		t.Fatalf("documents = %d", rep.Documents)
	}
	if !strings.Contains(strings.Join(rep.Warnings, "\n"), "1 reviews were empty after cleaning") {
		t.Fatalf("warnings = %#v", rep.Warnings)
	}
}

func TestReportMarkdownAndRender(t *testing.T) {
	rep, err := Analyze(loadTable(t, records), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[REVIEW TEXT SUMMARY]",
		"File: reviews.csv",
		"Rows: 5",
		"[REVIEWS PER GROUP]",
		"- Disneyland_Paris: 3 reviews, mean rating 3.00",
		"[RATINGS PER YEAR]",
		"[MOST COMMON WORDS]",
		"[BIGRAMS]",
		"- long queues: 3",
		"[CORPUS TRIGRAMS]",
		"[SAMPLE REVIEWS]",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	b, err := rep.Render(FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["run_id"] != rep.RunID {
		t.Fatalf("run_id = %v", decoded["run_id"])
	}

	b, err = rep.Render(FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var y struct {
		Bigrams []ngram.PhraseCount `yaml:"bigrams"`
	}
	if err := yaml.Unmarshal(b, &y); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(rep.Bigrams, y.Bigrams); diff != "" {
		t.Fatalf("yaml bigrams (-want +got):\n%s", diff)
	}

	b, err = rep.Render(FormatMsgpack)
	if err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	var m struct {
		RunID          string              `json:"run_id"`
		CorpusTrigrams []ngram.PhraseCount `json:"corpus_trigrams"`
	}
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if m.RunID != rep.RunID {
		t.Fatalf("msgpack run_id = %q", m.RunID)
	}
	if diff := cmp.Diff(rep.CorpusTrigrams, m.CorpusTrigrams); diff != "" {
		t.Fatalf("msgpack trigrams (-want +got):\n%s", diff)
	}

	if _, err := rep.Render("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestAnalyzeRawCloudDropsOneLetterTokens(t *testing.T) {
	recs := [][]string{{"Review_Text"}, {"x"}, {"a b c"}}
	rep, err := Analyze(loadTable(t, recs), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rep.RawWords) != 0 {
		t.Fatalf("raw words = %#v", rep.RawWords)
	}
	if len(rep.CleanWords) == 0 {
		t.Fatalf("clean words should keep x")
	}
}
