package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/reviewloom-cli/internal/analysis"
	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Set2 is the qualitative palette used for bars, lines and cloud words.
var Set2 = []drawing.Color{
	drawing.ColorFromHex("66c2a5"),
	drawing.ColorFromHex("fc8d62"),
	drawing.ColorFromHex("8da0cb"),
	drawing.ColorFromHex("e78ac3"),
	drawing.ColorFromHex("a6d854"),
	drawing.ColorFromHex("ffd92f"),
	drawing.ColorFromHex("e5c494"),
	drawing.ColorFromHex("b3b3b3"),
}

// Options sizes rendered images.
type Options struct {
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Width: 1100, Height: 600}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// Bar renders rows as a bar chart PNG, one bar per phrase in the given order.
func Bar(w io.Writer, title string, rows []ngram.PhraseCount, opt Options) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	opt = opt.normalized()
	bars := make([]chart.Value, len(rows))
	maxCount := 0
	for i, r := range rows {
		bars[i] = chart.Value{
			Label: r.Phrase,
			Value: float64(r.Count),
			Style: chart.Style{FillColor: Set2[0], StrokeColor: Set2[0]},
		}
		if r.Count > maxCount {
			maxCount = r.Count
		}
	}
	barWidth := (opt.Width - 120) / (2 * len(rows))
	if barWidth < 8 {
		barWidth = 8
	}
	graph := chart.BarChart{
		Title:  title,
		Width:  opt.Width,
		Height: opt.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 120},
		},
		BarWidth: barWidth,
		XAxis:    chart.Style{TextRotationDegrees: 60},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

// Line draws the mean rating per year with one series per group.
func Line(w io.Writer, title string, ratings []analysis.YearRating, opt Options) error {
	if len(ratings) == 0 {
		return ErrNoData
	}
	opt = opt.normalized()
	byGroup := map[string][]analysis.YearRating{}
	minYear, maxYear := math.MaxInt, math.MinInt
	for _, r := range ratings {
		byGroup[r.Group] = append(byGroup[r.Group], r)
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	if maxYear == minYear {
		maxYear++
	}
	names := make([]string, 0, len(byGroup))
	for g := range byGroup {
		names = append(names, g)
	}
	sort.Strings(names)

	var series []chart.Series
	for i, g := range names {
		pts := byGroup[g]
		sort.Slice(pts, func(a, b int) bool { return pts[a].Year < pts[b].Year })
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for j, p := range pts {
			xs[j] = float64(p.Year)
			ys[j] = p.Mean
		}
		name := g
		if name == "" {
			name = "(all)"
		}
		c := Set2[i%len(Set2)]
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2, DotColor: c, DotWidth: 3},
		})
	}
	graph := chart.Chart{
		Title:  title,
		Width:  opt.Width,
		Height: opt.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Year",
			Range:          &chart.ContinuousRange{Min: float64(minYear), Max: float64(maxYear)},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		YAxis: chart.YAxis{
			Name:  "Rating",
			Range: &chart.ContinuousRange{Min: 0, Max: 5},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// groupCounts converts review counts per group into a bar table.
func groupCounts(groups []analysis.GroupSummary) []ngram.PhraseCount {
	out := make([]ngram.PhraseCount, len(groups))
	for i, g := range groups {
		out[i] = ngram.PhraseCount{Phrase: g.Group, Count: g.Reviews}
	}
	return out
}

// RenderReport writes every chart for rep into dir and returns the written
// paths. Charts with no data are skipped.
func RenderReport(rep *analysis.Report, dir string, opt Options) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("mkdir charts: %w", err)
	}
	jobs := []struct {
		file   string
		render func(io.Writer) error
	}{
		{"wordcloud_raw.png", func(w io.Writer) error { return WordCloud(w, rep.RawWords, opt) }},
		{"wordcloud_clean.png", func(w io.Writer) error { return WordCloud(w, rep.CleanWords, opt) }},
		{"top_words.png", func(w io.Writer) error {
			return Bar(w, fmt.Sprintf("%d Most Common Words", len(rep.TopWords)), rep.TopWords, opt)
		}},
		{"unigrams.png", func(w io.Writer) error { return Bar(w, "Unigrams", rep.Unigrams, opt) }},
		{"bigrams.png", func(w io.Writer) error { return Bar(w, "Bigrams", rep.Bigrams, opt) }},
		{"reviews_per_group.png", func(w io.Writer) error { return Bar(w, "Reviews per Group", groupCounts(rep.Groups), opt) }},
		{"ratings_per_year.png", func(w io.Writer) error { return Line(w, "Ratings per Year", rep.Ratings, opt) }},
	}
	var written []string
	for _, j := range jobs {
		p := filepath.Join(dir, j.file)
		ok, err := renderFile(p, j.render)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", j.file, err)
		}
		if ok {
			written = append(written, p)
		}
	}
	return written, nil
}

func renderFile(path string, render func(io.Writer) error) (bool, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, ErrNoData) {
			return false, nil
		}
		return false, err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}
