package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odvcencio/cascade/accordion"
	"github.com/odvcencio/cascade/animation"
	"github.com/odvcencio/cascade/config"
	"github.com/odvcencio/cascade/content"
	"github.com/odvcencio/cascade/state"
)

// Pixel units of the classic layout, used when simulating.
const (
	defaultSimHeader    = 40.0
	defaultSimMinHeight = 30
	defaultSimMaxHeight = 70
)

// toggleAt is one scheduled --toggle.
type toggleAt struct {
	Index int
	At    time.Duration
}

// parseToggle reads "index@time". The time is milliseconds, or any Go duration.
func parseToggle(s string) (toggleAt, error) {
	idx, at, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return toggleAt{}, fmt.Errorf("toggle %q: want index@ms", s)
	}
	index, err := strconv.Atoi(idx)
	if err != nil || index < 0 {
		return toggleAt{}, fmt.Errorf("toggle %q: invalid section index %q", s, idx)
	}
	d, err := parseMillis(at)
	if err != nil {
		return toggleAt{}, fmt.Errorf("toggle %q: %w", s, err)
	}
	return toggleAt{Index: index, At: d}, nil
}

// parseMillis reads a plain number as milliseconds, otherwise a Go duration.
func parseMillis(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(ms * float64(time.Millisecond))
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		d = parsed
	}
	if d < 0 {
		return 0, fmt.Errorf("negative time %q", s)
	}
	return d, nil
}

// simulation configures one headless run of the calculator.
type simulation struct {
	Titles   []string
	Heights  []float64
	Header   float64
	Margin   float64
	Expand   time.Duration
	Collapse time.Duration
	Curve    animation.Curve
	Toggles  []toggleAt
	Until    time.Duration
	Step     time.Duration
}

// frame is the calculator state after one step.
type frame struct {
	At      time.Duration
	Offsets []float64
	Total   float64
	// Toggled lists the sections toggled at this frame.
	Toggled []int
	Errors  []error
}

// harness is a calculator driven by a manual clock.
type harness struct {
	calc   *accordion.Calculator
	driver *animation.Driver
	clock  *animation.ManualClock
}

// build creates the calculator for s with every section collapsed.
func (s simulation) build(logger *log.Logger) (*harness, error) {
	if len(s.Heights) == 0 {
		return nil, accordion.ErrNoSections
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sections := make([]accordion.Section, len(s.Heights))
	for i := range sections {
		sections[i] = accordion.Section{Title: s.title(i), HeaderHeight: s.Header}
	}
	graph := state.NewGraph()
	clock := animation.NewManualClock(time.Unix(0, 0))
	driver := animation.NewDriver(animation.DriverConfig{Clock: clock, Graph: graph, Logger: logger})
	calc, err := accordion.New(accordion.Config{
		Sections:         sections,
		Margin:           s.Margin,
		Measurer:         accordion.NewStaticMeasurer(s.Heights...),
		Animator:         driver,
		ExpandDuration:   s.Expand,
		CollapseDuration: s.Collapse,
		Curve:            s.Curve,
		Graph:            graph,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	return &harness{calc: calc, driver: driver, clock: clock}, nil
}

// run steps the calculator from zero to Until, applying each toggle at the
// first frame at or after its time, before that frame's step.
func (s simulation) run(logger *log.Logger) ([]frame, error) {
	if s.Step <= 0 {
		return nil, errors.New("step must be positive")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h, err := s.build(logger)
	if err != nil {
		return nil, err
	}
	calc, driver, clock := h.calc, h.driver, h.clock
	defer calc.Close()

	toggles := slices.Clone(s.Toggles)
	slices.SortStableFunc(toggles, func(a, b toggleAt) int {
		return cmp.Compare(a.At, b.At)
	})

	var frames []frame
	for at := time.Duration(0); at <= s.Until; at += s.Step {
		f := frame{At: at}
		for len(toggles) > 0 && toggles[0].At <= at {
			t := toggles[0]
			toggles = toggles[1:]
			if err := calc.Toggle(t.Index); err != nil {
				logger.Warn("toggle failed", "section", t.Index, "at", at, "err", err)
				f.Errors = append(f.Errors, err)
				continue
			}
			f.Toggled = append(f.Toggled, t.Index)
		}
		driver.Step()
		f.Offsets = calc.Offsets()
		f.Total = calc.TotalHeight()
		frames = append(frames, f)
		clock.Advance(s.Step)
	}
	for _, t := range toggles {
		logger.Warn("toggle after end of simulation", "section", t.Index, "at", t.At)
	}
	return frames, nil
}

func (s simulation) title(i int) string {
	if i < len(s.Titles) && s.Titles[i] != "" {
		return s.Titles[i]
	}
	return fmt.Sprintf("Section %d", i)
}

// randomHeights sums seeded random blocks of 30 to 70 units per section.
func randomHeights(seed uint64, n int) []float64 {
	opts := content.DefaultRandomOptions()
	opts.MinHeight = defaultSimMinHeight
	opts.MaxHeight = defaultSimMaxHeight
	heights := make([]float64, n)
	for i := range heights {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		for _, b := range content.Random(rng, opts) {
			heights[i] += float64(b.Height)
		}
	}
	return heights
}

// newSimulation applies flag values over cfg.
func newSimulation(cfg config.Config, toggles []string, heights []float64, header float64, until, step string) (simulation, error) {
	sim := simulation{
		Heights:  heights,
		Header:   header,
		Margin:   cfg.Margin,
		Expand:   cfg.ExpandDuration.Duration,
		Collapse: cfg.CollapseDuration.Duration,
		Curve:    cfg.CurveFunc(),
	}
	for _, s := range cfg.Sections {
		sim.Titles = append(sim.Titles, s.Title)
	}
	if len(sim.Heights) == 0 {
		sim.Heights = randomHeights(cfg.Seed, len(cfg.Sections))
	}
	for _, h := range sim.Heights {
		if h < 0 {
			return sim, fmt.Errorf("heights: %v is negative", h)
		}
	}
	for _, raw := range toggles {
		t, err := parseToggle(raw)
		if err != nil {
			return sim, err
		}
		if t.Index >= len(sim.Heights) {
			return sim, fmt.Errorf("toggle %q: %w", raw, accordion.ErrSectionOutOfRange)
		}
		sim.Toggles = append(sim.Toggles, t)
	}

	var err error
	if sim.Step, err = parseMillis(step); err != nil {
		return sim, fmt.Errorf("step: %w", err)
	}
	if sim.Step == 0 {
		return sim, errors.New("step: must be positive")
	}
	if until != "" {
		if sim.Until, err = parseMillis(until); err != nil {
			return sim, fmt.Errorf("until: %w", err)
		}
	} else {
		sim.Until = sim.defaultUntil()
	}
	return sim, nil
}

// defaultUntil covers the last toggle plus the longer animation.
func (s simulation) defaultUntil() time.Duration {
	var last time.Duration
	for _, t := range s.Toggles {
		last = max(last, t.At)
	}
	expand, collapse := s.Expand, s.Collapse
	if expand <= 0 {
		expand = accordion.DefaultExpandDuration
	}
	if collapse <= 0 {
		collapse = accordion.DefaultCollapseDuration
	}
	return last + max(expand, collapse)
}

func (c *CLI) simulateCommand() *cobra.Command {
	var (
		toggles []string
		heights []float64
		header  float64
		until   string
		step    string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Step the offset calculator headless and print offsets per frame",
		Long: `Run the offset calculator against a manual clock and print every section's
offset after each frame. Heights default to seeded random content.`,
		Example: `  cascade simulate --toggle 1@0
  cascade simulate --heights 50,120,50,50,50 --toggle 1@0 --toggle 1@250 --step 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sim, err := newSimulation(cfg, toggles, heights, header, until, step)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			logger.Debug("simulating", "sections", len(sim.Heights), "heights", sim.Heights, "until", sim.Until, "step", sim.Step)

			frames, err := sim.run(logger)
			if err != nil {
				return err
			}
			if !all {
				frames = changedFrames(frames)
			}
			fmt.Fprintln(c.Out, renderFrames(sim, frames))
			for _, f := range frames {
				for _, err := range f.Errors {
					printWarning(c.Out, "%s: %v", formatMillis(f.At), err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&toggles, "toggle", "t", nil, "toggle a section at a time, as index@ms (repeatable)")
	flags.Float64SliceVar(&heights, "heights", nil, "measured content heights (default: seeded random)")
	flags.Float64Var(&header, "header", defaultSimHeader, "header height of every section")
	flags.StringVar(&until, "until", "", "last frame time in ms (default: last toggle plus animation)")
	flags.StringVar(&step, "step", "16", "frame period in ms")
	flags.BoolVar(&all, "all", false, "print unchanged frames too")
	return cmd
}

// changedFrames keeps the first frame and every frame that moved or toggled.
func changedFrames(frames []frame) []frame {
	var out []frame
	for i, f := range frames {
		if i == 0 || len(f.Toggled) > 0 || len(f.Errors) > 0 || !slices.Equal(f.Offsets, frames[i-1].Offsets) {
			out = append(out, f)
		}
	}
	return out
}

// renderFrames draws frames as a table, one offset column per section.
func renderFrames(sim simulation, frames []frame) string {
	headers := []string{"t"}
	for i := range sim.Heights {
		headers = append(headers, sim.title(i))
	}
	headers = append(headers, "total")

	rows := make([][]string, len(frames))
	for r, f := range frames {
		row := []string{formatMillis(f.At)}
		for _, o := range f.Offsets {
			row = append(row, strconv.FormatFloat(o, 'f', 1, 64))
		}
		row = append(row, strconv.FormatFloat(f.Total, 'f', 1, 64))
		rows[r] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 0 {
				return base.Foreground(colorGray)
			}
			if row < len(frames) && slices.Contains(frames[row].Toggled, col-1) {
				return styleToggled.Padding(0, 1)
			}
			return base.Foreground(colorWhite).Align(lipgloss.Right)
		})
	return t.Render()
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', -1, 64) + "ms"
}
