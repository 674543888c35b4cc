package dataset

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// Options controls how a review table is read.
type Options struct {
	// TextColumn holds the free-text review. Required.
	TextColumn string
	// DateColumn, GroupColumn and RatingColumn are optional; empty disables them.
	DateColumn   string
	GroupColumn  string
	RatingColumn string
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Encoding of delimited files: "utf-8" (default) or "latin-1".
	Encoding string
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions matches the column names of the park reviews dataset.
func DefaultOptions() Options {
	return Options{
		TextColumn:   "Review_Text",
		DateColumn:   "Year_Month",
		GroupColumn:  "Branch",
		RatingColumn: "Rating",
		Encoding:     EncodingUTF8,
		SheetIndex:   1,
	}
}

// Review is one row of the table after type coercion.
type Review struct {
	Text string
	// Date is nil when the source value was missing or unparseable.
	Date      *time.Time
	Year      int
	Month     int
	Group     string
	Rating    float64
	HasRating bool
}

// ColumnInfo is a per-column presence summary, similar to a dataframe info() listing.
type ColumnInfo struct {
	Name    string `json:"name" yaml:"name"`
	NonNull int    `json:"non_null" yaml:"non_null"`
}

// Table is a loaded review dataset.
type Table struct {
	Name      string
	Rows      int
	Processed int
	Columns   []ColumnInfo
	Reviews   []Review
	// MissingDates counts rows whose date could not be parsed.
	MissingDates int
	Warnings     []string
}

// Texts returns the raw review text of every processed row.
func (t *Table) Texts() []string {
	out := make([]string, len(t.Reviews))
	for i, r := range t.Reviews {
		out[i] = r.Text
	}
	return out
}

// Load reads a CSV, TSV or XLSX file into a Table.
func Load(path string, opt Options) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		records, err = readXLSX(path, opt.SheetName, opt.SheetIndex)
	} else {
		records, err = readDelimited(path, opt)
	}
	if err != nil {
		return nil, err
	}
	t, err := FromRecords(records, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// FromRecords builds a Table from a header row followed by data rows.
func FromRecords(records [][]string, opt Options) (*Table, error) {
	if opt.TextColumn == "" {
		return nil, fmt.Errorf("%w: text column not configured", ErrMissingColumn)
	}
	t := &Table{}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: %s (empty header)", ErrMissingColumn, opt.TextColumn)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	ncol := len(header)
	names := uniqueNames(header)
	textName, ok := lookupColumn(header, names, opt.TextColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s (have %s)", ErrMissingColumn, opt.TextColumn, strings.Join(header, ", "))
	}
	optional := func(want, label string) string {
		if want == "" {
			return ""
		}
		name, ok := lookupColumn(header, names, want)
		if !ok {
			t.Warnings = append(t.Warnings, fmt.Sprintf("%s column %q not found; skipped", label, want))
			return ""
		}
		return name
	}
	dateName := optional(opt.DateColumn, "date")
	groupName := optional(opt.GroupColumn, "group")
	ratingName := optional(opt.RatingColumn, "rating")

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	rows := [][]string{names}
	for _, rec := range records[1:] {
		t.Rows++
		if t.Processed >= maxRows {
			continue
		}
		t.Processed++
		row := make([]string, ncol)
		copy(row, rec)
		rows = append(rows, row)
	}
	if t.Processed < t.Rows {
		t.Warnings = append(t.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", t.Processed, t.Rows))
	}
	if t.Processed == 0 {
		for _, h := range names {
			t.Columns = append(t.Columns, ColumnInfo{Name: h})
		}
		return t, nil
	}

	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load table: %w", df.Err)
	}
	for _, name := range df.Names() {
		t.Columns = append(t.Columns, ColumnInfo{Name: name, NonNull: countNonEmpty(df.Col(name).Records())})
	}

	var texts, dates, groups, ratings []string
	for _, c := range []struct {
		name string
		dst  *[]string
	}{{textName, &texts}, {dateName, &dates}, {groupName, &groups}, {ratingName, &ratings}} {
		vals, err := column(df, c.name)
		if err != nil {
			return nil, err
		}
		*c.dst = vals
	}

	t.Reviews = make([]Review, len(texts))
	for i := range texts {
		r := Review{Text: texts[i]}
		if dates != nil {
			if d, ok := ParseDate(dates[i]); ok {
				r.Date = &d
				r.Year = d.Year()
				r.Month = int(d.Month())
			} else {
				t.MissingDates++
			}
		}
		if groups != nil {
			r.Group = strings.TrimSpace(groups[i])
		}
		if ratings != nil {
			if v, err := strconv.ParseFloat(strings.TrimSpace(ratings[i]), 64); err == nil && !math.IsNaN(v) {
				r.Rating = v
				r.HasRating = true
			}
		}
		t.Reviews[i] = r
	}
	return t, nil
}

func column(df dataframe.DataFrame, name string) ([]string, error) {
	if name == "" {
		return nil, nil
	}
	s := df.Col(name)
	if s.Err != nil {
		return nil, fmt.Errorf("column %s: %w", name, s.Err)
	}
	return s.Records(), nil
}

// uniqueNames gives every header cell a distinct frame column name. Repeated
// names get a numeric suffix ("Branch", "Branch_2") and blank ones become X<i>.
func uniqueNames(header []string) []string {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h != "" {
			seen[h] = true
		}
	}
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		base := h
		if base == "" {
			base = fmt.Sprintf("X%d", i)
		}
		name := base
		for n := 2; used[name] || (name != h && seen[name]); n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// lookupColumn resolves want case-insensitively against header and returns the
// frame name of the first match.
func lookupColumn(header, names []string, want string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(want))
	for i, h := range header {
		if strings.ToLower(h) == w {
			return names[i], true
		}
	}
	return "", false
}

func countNonEmpty(vals []string) int {
	n := 0
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" && v != "NaN" {
			n++
		}
	}
	return n
}

var dateLayouts = []string{
	"2006-1", time.RFC3339, "2006-01-02", "2006/01/02", "2006/1",
	"02/01/2006", "01/02/2006", "2006-01-02 15:04", "2006-01-02 15:04:05",
	"1/2/2006 15:04", "1/2/2006 15:04:05", "Jan 2006", "January 2006",
}

// ParseDate parses the date formats seen in review exports. Unparseable values
// report ok=false so callers can treat them as missing.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
