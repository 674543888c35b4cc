package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TextColumn != "Review_Text" || c.DateColumn != "Year_Month" || c.GroupColumn != "Branch" {
		t.Fatalf("columns = %#v", c)
	}
	if c.DocumentTop != 15 || c.CorpusTop != 10 || c.TopWords != 20 {
		t.Fatalf("sizes = %d/%d/%d", c.DocumentTop, c.CorpusTop, c.TopWords)
	}
	if c.Encoding != "utf-8" || c.ChartWidth != 1100 {
		t.Fatalf("encoding=%q width=%d", c.Encoding, c.ChartWidth)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Encoding = "latin-1"
	c.ExtraStopWords = []string{"queue", "ticket"}
	c.Stem = true
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".reviewloom", "config.yaml")); err != nil {
		t.Fatalf("config file: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Encoding != "latin-1" || !got.Stem || len(got.ExtraStopWords) != 2 {
		t.Fatalf("reloaded = %#v", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(p, []byte("corpus_top: 7\ntext_column: Body\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REVIEWLOOM_CORPUS_TOP", "3")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.CorpusTop != 3 || c.TextColumn != "Body" {
		t.Fatalf("corpus_top=%d text_column=%q", c.CorpusTop, c.TextColumn)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.CorpusTop != 10 {
		t.Fatalf("corpus_top = %d", c.CorpusTop)
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("corpus_top: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestDotenvFillsUnsetVars(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	envPath := filepath.Join(t.TempDir(), ".env")
	body := "REVIEWLOOM_ENCODING=latin-1\nREVIEWLOOM_TOP_WORDS=5\nREVIEWLOOM_EXTRA_STOP_WORDS=queue,ticket\nOTHER=1\n"
	if err := os.WriteFile(envPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	old := EnvFile
	EnvFile = envPath
	defer func() { EnvFile = old }()
	// the real environment wins over .env
	t.Setenv("REVIEWLOOM_TOP_WORDS", "7")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Encoding != "latin-1" || c.TopWords != 7 {
		t.Fatalf("encoding=%q top_words=%d", c.Encoding, c.TopWords)
	}
	if len(c.ExtraStopWords) != 2 || c.ExtraStopWords[1] != "ticket" {
		t.Fatalf("extra_stop_words = %#v", c.ExtraStopWords)
	}
}
