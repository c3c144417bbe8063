// Package animation drives numeric cells toward targets frame by frame.
//
// A Driver holds at most one tween per cell. Starting a new tween on a
// cell replaces the in-flight one and continues from whatever value the
// cell holds at that moment, so a reversal never snaps to the old target.
// Step is called once per display frame; all writes of one frame are
// applied inside a single state.Graph batch.
package animation

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/cascade/state"
)

// Run describes one tween.
type Run struct {
	ID       ulid.ULID
	From     float64
	Target   float64
	Duration time.Duration
	Started  time.Time
	curve    Curve
}

// Progress returns eased progress in [0, 1] at now, and whether the run is finished.
func (r Run) Progress(now time.Time) (float64, bool) {
	if r.Duration <= 0 {
		return 1, true
	}
	elapsed := now.Sub(r.Started)
	if elapsed <= 0 {
		return 0, false
	}
	t := float64(elapsed) / float64(r.Duration)
	if t >= 1 {
		return 1, true
	}
	curve := r.curve
	if curve == nil {
		curve = Linear
	}
	return curve(t), false
}

// ValueAt returns the interpolated value at now.
func (r Run) ValueAt(now time.Time) (float64, bool) {
	eased, done := r.Progress(now)
	if done {
		return r.Target, true
	}
	return r.From + (r.Target-r.From)*eased, false
}

// DriverConfig configures a Driver.
type DriverConfig struct {
	// Clock defaults to SystemClock.
	Clock Clock
	// Graph batches the writes of a frame. Optional.
	Graph *state.Graph
	// Logger defaults to a discarding logger.
	Logger *log.Logger
	// Entropy feeds run IDs. Defaults to crypto/rand.
	Entropy io.Reader
}

type active struct {
	cell state.Writable[float64]
	run  Run
}

// Driver advances tweens on float64 cells.
type Driver struct {
	mu      sync.Mutex
	clock   Clock
	graph   *state.Graph
	logger  *log.Logger
	entropy io.Reader
	runs    []*active
}

// NewDriver creates a driver.
func NewDriver(cfg DriverConfig) *Driver {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	entropy := cfg.Entropy
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Driver{
		clock:   clock,
		graph:   cfg.Graph,
		logger:  logger,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// Clock returns the driver's time source.
func (d *Driver) Clock() Clock {
	if d == nil {
		return nil
	}
	return d.clock
}

// AnimateTo starts a tween of cell toward target over duration.
// An in-flight tween on the same cell is cancelled and the new one starts
// from the cell's current value. A non-positive duration writes target at once.
func (d *Driver) AnimateTo(cell state.Writable[float64], target float64, duration time.Duration, curve Curve) ulid.ULID {
	if d == nil || cell == nil {
		return ulid.ULID{}
	}
	if curve == nil {
		curve = Linear
	}
	now := d.clock.Now()

	d.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), d.entropy)
	if prev, ok := d.removeLocked(cell); ok {
		d.logger.Debug("animation retargeted",
			"run", id, "replaces", prev.run.ID, "from", cell.Get(), "target", target)
	}
	run := Run{
		ID:       id,
		From:     cell.Get(),
		Target:   target,
		Duration: duration,
		Started:  now,
		curve:    curve,
	}
	if duration <= 0 {
		d.mu.Unlock()
		d.apply([]write{{cell: cell, value: target}})
		d.logger.Debug("animation applied immediately", "run", id, "target", target)
		return id
	}
	d.runs = append(d.runs, &active{cell: cell, run: run})
	d.mu.Unlock()

	d.logger.Debug("animation started",
		"run", id, "from", run.From, "target", target, "duration", duration)
	return id
}

// Step advances every active tween to the clock's current time.
// It reports whether any tween is still running afterwards.
func (d *Driver) Step() bool {
	if d == nil {
		return false
	}
	now := d.clock.Now()

	d.mu.Lock()
	writes := make([]write, 0, len(d.runs))
	var finished []Run
	remaining := d.runs[:0]
	for _, a := range d.runs {
		value, done := a.run.ValueAt(now)
		writes = append(writes, write{cell: a.cell, value: value})
		if done {
			finished = append(finished, a.run)
			continue
		}
		remaining = append(remaining, a)
	}
	for i := len(remaining); i < len(d.runs); i++ {
		d.runs[i] = nil
	}
	d.runs = remaining
	running := len(d.runs) > 0
	d.mu.Unlock()

	d.apply(writes)
	for _, run := range finished {
		d.logger.Debug("animation finished", "run", run.ID, "target", run.Target)
	}
	return running
}

// Cancel stops the tween on cell, leaving its current value in place.
func (d *Driver) Cancel(cell state.Writable[float64]) bool {
	if d == nil || cell == nil {
		return false
	}
	d.mu.Lock()
	prev, ok := d.removeLocked(cell)
	d.mu.Unlock()
	if ok {
		d.logger.Debug("animation cancelled", "run", prev.run.ID)
	}
	return ok
}

// CancelAll stops every tween.
func (d *Driver) CancelAll() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.runs = nil
	d.mu.Unlock()
}

// Active returns the in-flight tween for cell.
func (d *Driver) Active(cell state.Writable[float64]) (Run, bool) {
	if d == nil || cell == nil {
		return Run{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.runs {
		if a.cell == cell {
			return a.run, true
		}
	}
	return Run{}, false
}

// Running returns the number of in-flight tweens.
func (d *Driver) Running() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.runs)
}

type write struct {
	cell  state.Writable[float64]
	value float64
}

func (d *Driver) apply(writes []write) {
	if len(writes) == 0 {
		return
	}
	set := func() {
		for _, w := range writes {
			w.cell.Set(w.value)
		}
	}
	if d.graph == nil {
		set()
		return
	}
	d.graph.Batch(set)
}

func (d *Driver) removeLocked(cell state.Writable[float64]) (*active, bool) {
	for i, a := range d.runs {
		if a.cell == cell {
			d.runs = append(d.runs[:i], d.runs[i+1:]...)
			return a, true
		}
	}
	return nil, false
}
