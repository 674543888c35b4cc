package charts

import (
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/reviewloom-cli/internal/ngram"
)

const (
	cloudMinFont = 12.0
	cloudMaxFont = 72.0
	cloudMargin  = 16
	cloudGap     = 12
)

// WordCloud draws words scaled by frequency onto a white canvas, largest
// first, packed left to right in rows. Words that no longer fit are dropped.
func WordCloud(w io.Writer, words []ngram.PhraseCount, opt Options) error {
	if len(words) == 0 {
		return ErrNoData
	}
	opt = opt.normalized()

	sorted := append([]ngram.PhraseCount(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Phrase < sorted[j].Phrase
		}
		return sorted[i].Count > sorted[j].Count
	})
	hi, lo := sorted[0].Count, sorted[len(sorted)-1].Count

	r, err := chart.PNG(opt.Width, opt.Height)
	if err != nil {
		return fmt.Errorf("png renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(opt.Width, 0)
	r.LineTo(opt.Width, opt.Height)
	r.LineTo(0, opt.Height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	x, y := cloudMargin, cloudMargin
	rowHeight := 0
	for i, wc := range sorted {
		r.SetFontSize(fontSize(wc.Count, lo, hi))
		r.SetFontColor(Set2[i%len(Set2)])
		box := r.MeasureText(wc.Phrase)
		tw, th := box.Width(), box.Height()
		if tw > opt.Width-2*cloudMargin {
			continue
		}
		if x+tw > opt.Width-cloudMargin {
			x = cloudMargin
			y += rowHeight + cloudGap
			rowHeight = 0
		}
		if y+th > opt.Height-cloudMargin {
			break
		}
		// Text draws from the baseline.
		r.Text(wc.Phrase, x, y+th)
		x += tw + cloudGap
		if th > rowHeight {
			rowHeight = th
		}
	}
	return r.Save(w)
}

// fontSize maps count linearly onto [cloudMinFont, cloudMaxFont].
func fontSize(count, lo, hi int) float64 {
	if hi == lo {
		return cloudMaxFont / 2
	}
	f := float64(count-lo) / float64(hi-lo)
	return cloudMinFont + f*(cloudMaxFont-cloudMinFont)
}
