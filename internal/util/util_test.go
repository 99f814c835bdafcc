package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetLineAndColumn(t *testing.T) {
	src := "val a = 1\n  a + b\nx"
	tests := []struct {
		pos          int
		expectedLine int
		expectedCol  int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{10, 2, 1},
		{16, 2, 7},
		{18, 3, 1},
		{100, 3, 2},
	}

	for i, tt := range tests {
		line, col := GetLineAndColumn(src, tt.pos)
		if line != tt.expectedLine || col != tt.expectedCol {
			t.Fatalf("tests[%d] - expected=%d:%d, got=%d:%d", i, tt.expectedLine, tt.expectedCol, line, col)
		}
	}
}

func TestGetContextLines(t *testing.T) {
	src := "val a = 1\nval b = 2\nval = 3"
	expected := "       1 | val a = 1\n" +
		"       2 | val b = 2\n" +
		"  >    3 | val = 3\n" +
		"               ^ unexpected here"

	if got := GetContextLines(src, 3, 5); got != expected {
		t.Fatalf("unexpected context:\n%s\nexpected:\n%s", got, expected)
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `log_level = "debug"
prompt = "hx> "
preload = ["json", "fs"]
debug_ast = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(DefaultConfiguration(), path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Prompt != "hx> " || !cfg.DebugAST {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.Preload) != 2 || cfg.Preload[0] != "json" || cfg.Preload[1] != "fs" {
		t.Fatalf("unexpected preload %v", cfg.Preload)
	}
	if cfg.HistoryFile != DefaultHistoryFile {
		t.Fatalf("unset values should keep their defaults, got %q", cfg.HistoryFile)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadConfiguration(DefaultConfiguration(), missing, false)
	if err != nil {
		t.Fatalf("implicit missing file should be ignored, got %v", err)
	}
	if cfg.Prompt != DefaultPrompt {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	if _, err := LoadConfiguration(DefaultConfiguration(), missing, true); err == nil {
		t.Fatalf("explicit missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("prompt = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfiguration(DefaultConfiguration(), bad, false); err == nil {
		t.Fatalf("malformed file should fail")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	if DefaultConfigPath("") != "" {
		t.Fatalf("no home should give no path")
	}
	if got := DefaultConfigPath("/opt/hexi"); got != filepath.Join("/opt/hexi", ConfigFileName) {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := DefaultConfiguration()
	cfg.HistoryFile = "/tmp/hist"
	if cfg.HistoryPath() != "/tmp/hist" {
		t.Fatalf("absolute history path changed: %q", cfg.HistoryPath())
	}
	cfg.HistoryFile = ""
	if cfg.HistoryPath() != "" {
		t.Fatalf("empty history path should stay empty")
	}
}
