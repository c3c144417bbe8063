package cli

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/cascade/accordion"
	"github.com/odvcencio/cascade/animation"
	"github.com/odvcencio/cascade/config"
)

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    toggleAt
		wantErr bool
	}{
		{in: "2@150", want: toggleAt{Index: 2, At: 150 * time.Millisecond}},
		{in: " 0@0 ", want: toggleAt{Index: 0, At: 0}},
		{in: "1@1.5s", want: toggleAt{Index: 1, At: 1500 * time.Millisecond}},
		{in: "3@12.5", want: toggleAt{Index: 3, At: 12500 * time.Microsecond}},
		{in: "1", wantErr: true},
		{in: "x@10", wantErr: true},
		{in: "-1@10", wantErr: true},
		{in: "1@-5", wantErr: true},
		{in: "1@soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseToggle(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseToggle(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseToggle(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseToggle(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func classicSim(toggles ...toggleAt) simulation {
	return simulation{
		Heights:  []float64{50, 120, 50, 50, 50},
		Header:   40,
		Margin:   1,
		Expand:   500 * time.Millisecond,
		Collapse: 100 * time.Millisecond,
		Curve:    animation.Ease,
		Toggles:  toggles,
		Until:    500 * time.Millisecond,
		Step:     100 * time.Millisecond,
	}
}

func TestSimulation_Ripple(t *testing.T) {
	frames, err := classicSim(toggleAt{Index: 1}).run(nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(frames) != 6 {
		t.Fatalf("frames = %d, want 6", len(frames))
	}
	if got, want := frames[0].Offsets, []float64{0, 41, 82, 123, 164}; !slices.Equal(got, want) {
		t.Fatalf("first frame = %v, want %v", got, want)
	}
	if !slices.Equal(frames[0].Toggled, []int{1}) {
		t.Fatalf("toggled = %v, want [1]", frames[0].Toggled)
	}
	last := frames[len(frames)-1]
	if want := []float64{0, 41, 202, 243, 284}; !slices.Equal(last.Offsets, want) {
		t.Fatalf("last frame = %v, want %v", last.Offsets, want)
	}
	if last.Total != 284+40 {
		t.Fatalf("total = %v, want 324", last.Total)
	}

	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1].Offsets, frames[i].Offsets
		if cur[0] != 0 || cur[1] != 41 {
			t.Fatalf("frame %d moved sections above the toggle: %v", i, cur)
		}
		for s := 2; s < len(cur); s++ {
			if cur[s] < prev[s] {
				t.Fatalf("frame %d: offset %d went from %v to %v while expanding", i, s, prev[s], cur[s])
			}
		}
	}
}

func TestSimulation_ToggleTwiceReturnsToBaseline(t *testing.T) {
	sim := classicSim(toggleAt{Index: 1, At: 600 * time.Millisecond}, toggleAt{Index: 1})
	sim.Until = 800 * time.Millisecond
	frames, err := sim.run(nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := frames[5].Offsets[2]; got != 202 {
		t.Fatalf("expanded offset = %v, want 202", got)
	}
	last := frames[len(frames)-1]
	if want := []float64{0, 41, 82, 123, 164}; !slices.Equal(last.Offsets, want) {
		t.Fatalf("after collapse = %v, want %v", last.Offsets, want)
	}
}

func TestSimulation_RecordsToggleErrors(t *testing.T) {
	sim := classicSim(toggleAt{Index: 9})
	sim.Until = 0
	frames, err := sim.run(nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(frames[0].Errors) != 1 || !errors.Is(frames[0].Errors[0], accordion.ErrSectionOutOfRange) {
		t.Fatalf("errors = %v", frames[0].Errors)
	}
}

func TestSimulation_Validation(t *testing.T) {
	if _, err := (simulation{Step: time.Millisecond}).run(nil); !errors.Is(err, accordion.ErrNoSections) {
		t.Fatalf("no sections err = %v", err)
	}
	if _, err := (simulation{Heights: []float64{1}}).run(nil); err == nil {
		t.Fatalf("zero step should fail")
	}
}

func TestNewSimulation(t *testing.T) {
	cfg := config.Default()

	sim, err := newSimulation(cfg, []string{"1@200"}, nil, 40, "", "16")
	if err != nil {
		t.Fatalf("newSimulation: %v", err)
	}
	if len(sim.Heights) != len(cfg.Sections) {
		t.Fatalf("heights = %v, want one per section", sim.Heights)
	}
	for _, h := range sim.Heights {
		if h < defaultSimMinHeight || h > 10*defaultSimMaxHeight {
			t.Fatalf("random height %v out of range", h)
		}
	}
	again, _ := newSimulation(cfg, nil, nil, 40, "", "16")
	if !slices.Equal(sim.Heights, again.Heights) {
		t.Fatalf("random heights not stable for a seed: %v vs %v", sim.Heights, again.Heights)
	}
	if sim.Until != 700*time.Millisecond {
		t.Fatalf("until = %v, want 700ms", sim.Until)
	}
	if sim.Step != 16*time.Millisecond {
		t.Fatalf("step = %v, want 16ms", sim.Step)
	}
	if sim.title(0) != "Monday" {
		t.Fatalf("title = %q", sim.title(0))
	}

	if _, err := newSimulation(cfg, []string{"5@0"}, []float64{1, 2}, 40, "", "16"); !errors.Is(err, accordion.ErrSectionOutOfRange) {
		t.Fatalf("out of range toggle err = %v", err)
	}
	if _, err := newSimulation(cfg, nil, []float64{-1}, 40, "", "16"); err == nil {
		t.Fatalf("negative height should fail")
	}
	if _, err := newSimulation(cfg, nil, nil, 40, "", "0"); err == nil {
		t.Fatalf("zero step should fail")
	}
}

func TestChangedFrames(t *testing.T) {
	frames := []frame{
		{At: 0, Offsets: []float64{0, 41}},
		{At: 1, Offsets: []float64{0, 41}},
		{At: 2, Offsets: []float64{0, 41}, Toggled: []int{0}},
		{At: 3, Offsets: []float64{0, 60}},
		{At: 4, Offsets: []float64{0, 60}},
	}
	got := changedFrames(frames)
	var at []time.Duration
	for _, f := range got {
		at = append(at, f.At)
	}
	if want := []time.Duration{0, 2, 3}; !slices.Equal(at, want) {
		t.Fatalf("kept frames at %v, want %v", at, want)
	}
}

func TestSimulateCommand(t *testing.T) {
	out := execute(t, "simulate", "--heights", "50,120", "--toggle", "0@0", "--step", "250", "--until", "500")
	for _, want := range []string{"Monday", "Tuesday", "0ms", "500ms", "41.0", "91.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
