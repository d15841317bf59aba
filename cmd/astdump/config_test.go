package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"astdump/internal/diagfmt"
	"astdump/internal/driver"
)

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeFile(t, root, configFileName, []byte("[output]\nformat = \"json\"\n"))
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := findConfig(nested)
	if err != nil {
		t.Fatalf("findConfig: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find %s", cfgPath)
	}
	want, _ := filepath.Abs(cfgPath)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadConfigUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), configFileName, []byte(`
[output]
format = "json"
colour = "on"

[decode]
max_depth = 12

[extra]
x = 1
`))
	cfg, unknown, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Output.Format == nil || *cfg.Output.Format != "json" {
		t.Errorf("format not decoded: %+v", cfg.Output)
	}
	if cfg.Decode.MaxDepth == nil || *cfg.Decode.MaxDepth != 12 {
		t.Errorf("max_depth not decoded: %+v", cfg.Decode)
	}
	if cfg.Decode.StrictTrailing != nil {
		t.Errorf("strict_trailing should stay unset")
	}
	joined := strings.Join(unknown, ",")
	if !strings.Contains(joined, "output.colour") || !strings.Contains(joined, "extra.x") {
		t.Errorf("unexpected unknown keys: %v", unknown)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "format", body: "[output]\nformat = \"yaml\"\n"},
		{name: "text", body: "[output]\ntext = \"utf16\"\n"},
		{name: "color", body: "[output]\ncolor = \"sometimes\"\n"},
		{name: "depth", body: "[decode]\nmax_depth = -1\n"},
		{name: "jobs", body: "[check]\njobs = -4\n"},
		{name: "ui", body: "[check]\nui = \"tty\"\n"},
		{name: "syntax", body: "[output\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), configFileName, []byte(tt.body))
			if _, _, err := loadConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestResolveSettingsConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), configFileName, []byte(`
[output]
format = "json"
text = "latin1"

[decode]
max_depth = 64
strict_trailing = true

[check]
jobs = 3

[cache]
enabled = true
dir = "/tmp/astdump-cache"
`))
	cmd := newTestCommand(t, "--config", path)
	var errOut bytes.Buffer
	s, err := resolveSettings(cmd, &errOut)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.format != driver.FormatJSON || s.text != diagfmt.TextLatin1 {
		t.Errorf("output settings not taken from config: %+v", s)
	}
	if s.decode.MaxDepth != 64 || !s.decode.StrictTrailing {
		t.Errorf("decode settings not taken from config: %+v", s.decode)
	}
	if s.jobs != 3 || !s.cache || s.cacheDir != "/tmp/astdump-cache" {
		t.Errorf("check/cache settings not taken from config: %+v", s)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected config diagnostics: %s", errOut.String())
	}
}

func TestResolveSettingsFlagsOverrideConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), configFileName, []byte("[output]\nformat = \"json\"\n[decode]\nmax_depth = 64\n"))
	cmd := newTestCommand(t, "--config", path, "--format", "tree", "--max-depth", "8", "--timings")
	s, err := resolveSettings(cmd, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if s.format != driver.FormatTree {
		t.Errorf("format = %q, want tree", s.format)
	}
	if s.decode.MaxDepth != 8 {
		t.Errorf("max depth = %d, want 8", s.decode.MaxDepth)
	}
	if !s.decode.EnableTimings {
		t.Errorf("--timings must enable decoder timings")
	}
}

func TestResolveSettingsReportsConfigProblems(t *testing.T) {
	dir := t.TempDir()

	unknown := writeFile(t, dir, "unknown.toml", []byte("[output]\nshape = \"round\"\n"))
	var errOut bytes.Buffer
	if _, err := resolveSettings(newTestCommand(t, "--config", unknown, "--color", "off"), &errOut); err != nil {
		t.Fatalf("unknown keys must not abort: %v", err)
	}
	if !strings.Contains(errOut.String(), "CLI6002") || !strings.Contains(errOut.String(), "output.shape") {
		t.Errorf("missing unknown-key warning: %q", errOut.String())
	}

	broken := writeFile(t, dir, "broken.toml", []byte("[output]\nformat = \"yaml\"\n"))
	errOut.Reset()
	_, err := resolveSettings(newTestCommand(t, "--config", broken, "--color", "off"), &errOut)
	if !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if !strings.Contains(errOut.String(), "CLI6001") {
		t.Errorf("missing invalid-config error: %q", errOut.String())
	}
}

func TestResolveSettingsRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"--format", "xml"},
		{"--text", "ebcdic"},
		{"--color", "maybe"},
		{"--diag-format", "sarif"},
		{"--path-mode", "short"},
		{"--max-depth", "-1"},
		{"--jobs", "-2"},
		{"--ui", "fancy"},
	}
	cfg := writeFile(t, t.TempDir(), configFileName, nil)
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			cmd := newTestCommand(t, append([]string{"--config", cfg}, args...)...)
			if _, err := resolveSettings(cmd, &bytes.Buffer{}); err == nil {
				t.Errorf("expected error for %v", args)
			}
		})
	}
}

func TestResolveSettingsMissingConfig(t *testing.T) {
	cmd := newTestCommand(t, "--config", filepath.Join(t.TempDir(), "nope.toml"))
	if _, err := resolveSettings(cmd, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
