package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Sections) != 5 || cfg.Sections[0].Title != "Monday" || cfg.Sections[4].Title != "Friday" {
		t.Fatalf("unexpected sections %+v", cfg.Sections)
	}
	if cfg.Margin != 1 {
		t.Fatalf("margin = %v", cfg.Margin)
	}
	if cfg.ExpandDuration.Duration != 500*time.Millisecond || cfg.CollapseDuration.Duration != 100*time.Millisecond {
		t.Fatalf("durations = %v / %v", cfg.ExpandDuration, cfg.CollapseDuration)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Fatalf("tick interval = %v", cfg.TickInterval())
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "cascade.toml", `
margin = 2
expand_duration = "250ms"
curve = "ease-in-out"

[[sections]]
title = "Alpha"
body = "# Alpha\n\nbody"

[[sections]]
title = "Beta"
header_height = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Margin != 2 {
		t.Fatalf("margin = %v", cfg.Margin)
	}
	if cfg.ExpandDuration.Duration != 250*time.Millisecond {
		t.Fatalf("expand = %v", cfg.ExpandDuration)
	}
	if cfg.CollapseDuration.Duration != 100*time.Millisecond {
		t.Fatalf("collapse should keep its default, got %v", cfg.CollapseDuration)
	}
	if len(cfg.Sections) != 2 || cfg.Sections[1].Title != "Beta" {
		t.Fatalf("sections = %+v", cfg.Sections)
	}
	if got := cfg.SectionHeader(0); got != 2 {
		t.Fatalf("SectionHeader(0) = %v", got)
	}
	if got := cfg.SectionHeader(1); got != 3 {
		t.Fatalf("SectionHeader(1) = %v", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "cascade.yaml", `
margin: 0
collapse_duration: 50ms
tick_rate: 30
sections:
  - title: One
  - title: Two
    body: "- a\n- b"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Margin != 0 {
		t.Fatalf("margin = %v", cfg.Margin)
	}
	if cfg.CollapseDuration.Duration != 50*time.Millisecond {
		t.Fatalf("collapse = %v", cfg.CollapseDuration)
	}
	if cfg.TickRate != 30 {
		t.Fatalf("tick rate = %d", cfg.TickRate)
	}
	if len(cfg.Sections) != 2 || cfg.Sections[1].Body == "" {
		t.Fatalf("sections = %+v", cfg.Sections)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"unknown extension", "cascade.ini", "x=1", "unknown config format"},
		{"bad toml", "cascade.toml", "margin = [", "parse config"},
		{"bad duration", "cascade.yaml", "expand_duration: soon", "parse config"},
		{"negative margin", "cascade.toml", "margin = -1", "margin"},
		{"unknown curve", "cascade.toml", `curve = "wobbly"`, "unknown curve"},
		{"empty title", "cascade.yaml", "sections:\n  - title: ''\n", "sections[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_UnknownFormatIsSentinel(t *testing.T) {
	_, err := Load(writeFile(t, "cascade.json", "{}"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional("")
	if err != nil || len(cfg.Sections) != 5 {
		t.Fatalf("LoadOptional(\"\") = %+v, %v", cfg, err)
	}
	missing := filepath.Join(t.TempDir(), "missing.toml")
	if _, err := LoadOptional(missing); !errors.Is(err, os.ErrNotExist) || !strings.Contains(err.Error(), missing) {
		t.Fatalf("LoadOptional(missing) err = %v, want not-exist naming the path", err)
	}
}

func TestTOML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sections[2].Body = "hello"
	data, err := cfg.TOML()
	if err != nil {
		t.Fatalf("TOML: %v", err)
	}
	if !strings.Contains(string(data), `expand_duration = "500ms"`) {
		t.Fatalf("durations should encode as strings:\n%s", data)
	}
	var back Config
	if err := Decode(data, ".toml", &back); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.ExpandDuration != cfg.ExpandDuration || back.Sections[2].Body != "hello" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
