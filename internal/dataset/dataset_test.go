package dataset

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var reviewRows = []string{
	"Review_ID,Rating,Year_Month,Reviewer_Location,Review_Text,Branch",
	`670772142,4,2019-4,Australia,"If you've ever been to Disneyland anywhere you'll find Disneyland Hong Kong very similar",Disneyland_HongKong`,
	`670682799,4,2019-5,Philippines,"Its been a while since d last time we visit HK Disneyland",Disneyland_HongKong`,
	`670623270,4,missing,United Arab Emirates,"Thanks God it wasn't too hot or too humid",Disneyland_California`,
	`670607911,5,2018-12,Australia,"HK Disneyland is a great compact park.",Disneyland_California`,
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV_ReviewFields(t *testing.T) {
	p := writeFile(t, "reviews.csv", []byte(strings.Join(reviewRows, "\n")))
	tbl, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "reviews.csv" || tbl.Rows != 4 || tbl.Processed != 4 {
		t.Fatalf("name=%q rows=%d processed=%d", tbl.Name, tbl.Rows, tbl.Processed)
	}
	if len(tbl.Reviews) != 4 {
		t.Fatalf("reviews = %d", len(tbl.Reviews))
	}
	r0 := tbl.Reviews[0]
	if r0.Year != 2019 || r0.Month != 4 || r0.Date == nil {
		t.Fatalf("r0 date = %v %d/%d", r0.Date, r0.Year, r0.Month)
	}
	if r0.Group != "Disneyland_HongKong" || !r0.HasRating || r0.Rating != 4 {
		t.Fatalf("r0 = %#v", r0)
	}
	if !strings.HasPrefix(r0.Text, "If you've ever been") {
		t.Fatalf("text = %q", r0.Text)
	}
	// "missing" is coerced, not an error
	if tbl.Reviews[2].Date != nil || tbl.MissingDates != 1 {
		t.Fatalf("expected one missing date, got %d", tbl.MissingDates)
	}
	if tbl.Reviews[3].Year != 2018 || tbl.Reviews[3].Month != 12 {
		t.Fatalf("r3 = %#v", tbl.Reviews[3])
	}
	if len(tbl.Columns) != 6 || tbl.Columns[0].Name != "Review_ID" || tbl.Columns[4].NonNull != 4 {
		t.Fatalf("columns = %#v", tbl.Columns)
	}
	if got := tbl.Texts(); len(got) != 4 || got[3] != "HK Disneyland is a great compact park." {
		t.Fatalf("texts = %#v", got)
	}
}

func TestLoadCSV_Latin1(t *testing.T) {
	// "café" with é encoded as 0xE9
	raw := []byte("Review_Text,Branch\ncaf\xe9 was nice,Paris\n")
	p := writeFile(t, "latin.csv", raw)
	opt := DefaultOptions()
	opt.Encoding = EncodingLatin1
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Reviews[0].Text != "café was nice" {
		t.Fatalf("text = %q", tbl.Reviews[0].Text)
	}
	// date and rating columns are absent: warnings, not errors
	if len(tbl.Warnings) != 2 {
		t.Fatalf("warnings = %#v", tbl.Warnings)
	}
}

func TestLoadTSVAndMaxRows(t *testing.T) {
	p := writeFile(t, "r.tsv", []byte("review_text\tbranch\na b c\tX\nd e f\tY\ng h\tX\n"))
	opt := DefaultOptions()
	opt.MaxRows = 2
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Rows != 3 || tbl.Processed != 2 || len(tbl.Reviews) != 2 {
		t.Fatalf("rows=%d processed=%d reviews=%d", tbl.Rows, tbl.Processed, len(tbl.Reviews))
	}
	found := false
	for _, w := range tbl.Warnings {
		if w == "processed only 2/3 rows due to MaxRows" {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %#v", tbl.Warnings)
	}
	if tbl.Reviews[1].Group != "Y" {
		t.Fatalf("group = %q", tbl.Reviews[1].Group)
	}
}

func TestLoadMissingTextColumn(t *testing.T) {
	p := writeFile(t, "bad.csv", []byte("a,b\n1,2\n"))
	_, err := Load(p, DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestFromRecordsDuplicateHeaders(t *testing.T) {
	tbl, err := FromRecords([][]string{
		{"Review_Text", "Branch", "Branch", ""},
		{"great fun", "A", "B", "z"},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if tbl.Reviews[0].Text != "great fun" || tbl.Reviews[0].Group != "A" {
		t.Fatalf("review = %#v", tbl.Reviews[0])
	}
	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "Review_Text,Branch,Branch_2,X3" {
		t.Fatalf("columns = %v", names)
	}

	// a repeated text column reads the first occurrence
	tbl, err = FromRecords([][]string{{"Review_Text", "Review_Text"}, {"first", "second"}}, DefaultOptions())
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if tbl.Reviews[0].Text != "first" {
		t.Fatalf("text = %q", tbl.Reviews[0].Text)
	}
}

func TestUniqueNames(t *testing.T) {
	got := strings.Join(uniqueNames([]string{"a", "a", "a_2", "", "X3"}), ",")
	if got != "a,a_3,a_2,X3_2,X3" {
		t.Fatalf("uniqueNames = %s", got)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	p := writeFile(t, "empty.csv", []byte("Review_Text,Branch\n"))
	tbl, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Reviews) != 0 || len(tbl.Columns) != 2 {
		t.Fatalf("tbl = %#v", tbl)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		ok    bool
		year  int
		month int
	}{
		{"2019-4", true, 2019, 4},
		{"2019-04", true, 2019, 4},
		{"2019-04-21", true, 2019, 4},
		{"2019/11/02", true, 2019, 11},
		{"missing", false, 0, 0},
		{"", false, 0, 0},
	}
	for _, c := range cases {
		d, ok := ParseDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseDate(%q) ok=%v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && (d.Year() != c.year || int(d.Month()) != c.month) {
			t.Errorf("ParseDate(%q) = %v", c.in, d)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if e, err := ParseEncoding("ISO-8859-1"); err != nil || e != EncodingLatin1 {
		t.Fatalf("encoding = %q, %v", e, err)
	}
	if _, err := ParseEncoding("utf-16"); err == nil {
		t.Fatalf("expected error for utf-16")
	}
	if d, err := ParseDelimiter("tab"); err != nil || d != '\t' {
		t.Fatalf("delimiter = %q, %v", d, err)
	}
	if _, err := ParseDelimiter("|"); err == nil {
		t.Fatalf("expected error for |")
	}
}

func TestLoadXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "reviews.xlsx")
	writeXLSX(t, p)

	opt := DefaultOptions()
	opt.SheetName = "Reviews"
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load by name: %v", err)
	}
	if len(tbl.Reviews) != 2 {
		t.Fatalf("reviews = %d", len(tbl.Reviews))
	}
	if tbl.Reviews[0].Text != "Great fireworks" || tbl.Reviews[0].Group != "Paris" || tbl.Reviews[0].Year != 2019 {
		t.Fatalf("r0 = %#v", tbl.Reviews[0])
	}
	// sparse row: B3 missing, text still aligned
	if tbl.Reviews[1].Text != "Long queues" || tbl.Reviews[1].Date != nil {
		t.Fatalf("r1 = %#v", tbl.Reviews[1])
	}

	opt.SheetName = ""
	opt.SheetIndex = 1
	if _, err := Load(p, opt); err != nil {
		t.Fatalf("Load by index: %v", err)
	}

	opt.SheetName = "Nope"
	if _, err := Load(p, opt); err == nil || !strings.Contains(err.Error(), "available: Reviews") {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
	if colIndexFromRef("C12") != 2 || colIndexFromRef("AA1") != 26 {
		t.Fatalf("colIndexFromRef mismatch")
	}
}

func writeXLSX(t *testing.T, p string) {
	t.Helper()
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Reviews" sheetId="1" r:id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet1.xml"/></Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>Review_Text</t></si><si><t>Year_Month</t></si><si><t>Branch</t></si>
<si><t>Great fireworks</t></si><si><t>2019-4</t></si><si><t>Paris</t></si><si><t>Long queues</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c></row>
<row r="2"><c r="A2" t="s"><v>3</v></c><c r="B2" t="s"><v>4</v></c><c r="C2" t="s"><v>5</v></c></row>
<row r="3"><c r="A3" t="s"><v>6</v></c><c r="C3" t="inlineStr"><is><t>Tokyo</t></is></c></row>
</sheetData></worksheet>`,
	}
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create xlsx: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}
