package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/cascade/agent"
	"github.com/odvcencio/cascade/config"
)

func TestMeasureScript(t *testing.T) {
	steps := measureScript(3)
	var names []string
	for _, s := range steps {
		names = append(names, s.name)
	}
	want := []string{
		"open measure",
		"toggle section 0", "next section",
		"toggle section 1", "next section",
		"toggle section 2",
		"collapse all", "expand all", "back to gallery",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("steps = %v, want %v", names, want)
	}
}

func TestRecording_Run(t *testing.T) {
	cfg := config.Default()
	cfg.Sections = cfg.Sections[:2]
	var buf bytes.Buffer
	cast := agent.NewCast(&buf, agent.CastOptions{Title: "test"})
	rec := recording{cfg: cfg, width: 60, height: 20, pause: 5 * time.Millisecond}

	if err := rec.run(context.Background(), cast, log.New(&bytes.Buffer{})); err != nil {
		t.Fatalf("run: %v", err)
	}
	if cast.Frames() < 3 {
		t.Fatalf("frames = %d", cast.Frames())
	}
	out := buf.String()
	if !strings.Contains(out, "Cascade Examples") || !strings.Contains(out, "Monday") {
		t.Fatalf("recording misses the gallery or the example:\n%.400s", out)
	}
}

func TestRecordCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.cast")
	out := execute(t, "record", "--out", path, "--pause", "2ms", "--width", "50", "--height", "16")
	if !strings.Contains(out, path) {
		t.Fatalf("output does not name the file:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cast: %v", err)
	}
	first, _, _ := strings.Cut(string(data), "\n")
	var header struct {
		Version int `json:"version"`
		Width   int `json:"width"`
		Height  int `json:"height"`
	}
	if err := json.Unmarshal([]byte(first), &header); err != nil {
		t.Fatalf("header %q: %v", first, err)
	}
	if header.Version != 2 || header.Width != 50 || header.Height != 16 {
		t.Fatalf("header = %+v", header)
	}
}
