package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	if version != "1.0.0" || commit != "abc123" || date != "2026-01-01" {
		t.Fatalf("version = %q %q %q", version, commit, date)
	}
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Version != "1.0.0" {
		t.Fatalf("root version = %q, want 1.0.0", root.Version)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"run", "simulate", "graph", "config", "record"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not registered: %v", name, err)
		}
	}
	for _, flag := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Fatalf("missing persistent flag --%s", flag)
		}
	}
}

func TestRootCommand_VerboseSetsDebug(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Out = io.Discard
	root := c.RootCommand()
	root.SetArgs([]string{"config", "--plain", "-v"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Fatalf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestConfigCommand_Plain(t *testing.T) {
	out := execute(t, "config", "--plain")
	for _, want := range []string{`expand_duration = "500ms"`, `curve = "ease"`, `title = "Monday"`, `title = "Friday"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand_LoadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cascade.yaml")
	data := "seed: 7\nsections:\n  - title: Only\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out := execute(t, "--config", path, "config", "--plain")
	if !strings.Contains(out, "seed = 7") {
		t.Fatalf("seed not applied:\n%s", out)
	}
	if !strings.Contains(out, `title = "Only"`) || strings.Contains(out, "Monday") {
		t.Fatalf("sections not replaced:\n%s", out)
	}
}

func TestConfigCommand_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cascade.toml")
	if err := os.WriteFile(path, []byte("margin = -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c := New(io.Discard, LogInfo)
	c.Out = io.Discard
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config"})
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("err = %v, want error naming %s", err, path)
	}
}

func TestHighlightTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := highlightTOML(&buf, "seed = 7\n"); err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected terminal escapes, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "seed") {
		t.Fatalf("source lost: %q", buf.String())
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer reported as a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if isTerminal(f) {
		t.Fatalf("regular file reported as a terminal")
	}
}

func TestConfigCommand_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	c := New(io.Discard, LogInfo)
	c.Out = io.Discard
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "config", "--plain"})
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want a missing file error", err)
	}
}
