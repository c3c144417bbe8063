package cli

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/cascade/config"
)

func TestBuildSections(t *testing.T) {
	cfg := config.Default()
	cfg.Sections[1].Body = "# Plan\n\nwalk the dog"
	cfg.Sections[2].HeaderHeight = 3.4

	sections := buildSections(cfg)
	if len(sections) != 5 {
		t.Fatalf("sections = %d, want 5", len(sections))
	}
	if sections[0].Title != "Monday" || sections[0].HeaderHeight != 2 {
		t.Fatalf("section 0 = %+v", sections[0])
	}
	if sections[2].HeaderHeight != 3 {
		t.Fatalf("header override = %d, want 3", sections[2].HeaderHeight)
	}

	random := sections[0].Lines(30)
	if len(random) == 0 {
		t.Fatalf("random body is empty")
	}
	if again := buildSections(cfg)[0].Lines(30); !slices.Equal(random, again) {
		t.Fatalf("random body differs between builds")
	}

	body := strings.Join(sections[1].Lines(30), "\n")
	if !strings.Contains(body, "Plan") || !strings.Contains(body, "walk the dog") {
		t.Fatalf("markdown body = %q", body)
	}
}

func TestNewMeasureView(t *testing.T) {
	cfg := config.Default()
	view, err := newMeasureView(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("newMeasureView: %v", err)
	}
	t.Cleanup(view.Close)

	calc := view.Calculator()
	if calc.Len() != len(cfg.Sections) {
		t.Fatalf("sections = %d", calc.Len())
	}
	if calc.Margin() != 1 {
		t.Fatalf("margin = %v, want 1", calc.Margin())
	}
}
