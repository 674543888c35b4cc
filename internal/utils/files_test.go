package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/reviewloom-cli/internal/utils"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Disneyland Paris", "disneyland-paris"},
		{"  Q3_Reviews.v2 ", "q3-reviews-v2"},
		{"***", "sheet"},
		{"", "sheet"},
	}
	for _, c := range cases {
		if got := utils.Slug(c.in, "sheet"); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := utils.UniquePath(dir, "reviews", ".summary.md")
	if first != filepath.Join(dir, "reviews.summary.md") {
		t.Fatalf("first = %s", first)
	}
	if err := utils.SafeWriteFile(first, []byte("a")); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := utils.UniquePath(dir, "reviews", ".summary.md")
	if second != filepath.Join(dir, "reviews__2.summary.md") {
		t.Fatalf("second = %s", second)
	}
	if _, err := os.Stat(first + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestBaseNameAndPrettyJSON(t *testing.T) {
	if got := utils.BaseName("/data/DisneylandReviews.csv"); got != "DisneylandReviews" {
		t.Fatalf("BaseName = %q", got)
	}
	b, err := utils.PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("json = %q", b)
	}
}
