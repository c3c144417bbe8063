package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/state"
	"github.com/odvcencio/cascade/terminal"
)

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands the runtime does not know.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// KeyHandler sees every key before the widget tree.
type KeyHandler interface {
	HandleKey(app *App, msg KeyMsg) bool
}

// KeyHandlerFunc adapts a function to KeyHandler.
type KeyHandlerFunc func(app *App, msg KeyMsg) bool

// HandleKey calls f.
func (f KeyHandlerFunc) HandleKey(app *App, msg KeyMsg) bool {
	return f(app, msg)
}

// RenderStats describes one render pass.
type RenderStats struct {
	Frame          int64
	Started        time.Time
	RenderDuration time.Duration
	FlushDuration  time.Duration
	TotalDuration  time.Duration
	DirtyCells     int
	TotalCells     int
	FlushedCells   int
	FullRedraw     bool
	LayerCount     int
}

// RenderObserver receives stats after every render.
type RenderObserver interface {
	ObserveRender(stats RenderStats)
}

// RenderObserverFunc adapts a function to RenderObserver.
type RenderObserverFunc func(stats RenderStats)

// ObserveRender calls f.
func (f RenderObserverFunc) ObserveRender(stats RenderStats) {
	f(stats)
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Update         UpdateFunc
	CommandHandler CommandHandler
	KeyHandler     KeyHandler
	MessageBuffer  int
	// TickRate is the TickMsg period. Zero disables ticks.
	TickRate       time.Duration
	StateQueue     *state.Queue
	FlushPolicy    QueueFlushPolicy
	RenderObserver RenderObserver
	Logger         *log.Logger
}

// App runs a widget tree against a terminal backend.
type App struct {
	backend        backend.Backend
	screen         *Screen
	root           Widget
	update         UpdateFunc
	commandHandler CommandHandler
	keyHandler     KeyHandler
	messages       chan Message
	tickRate       time.Duration
	stateQueue     *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	renderObserver RenderObserver
	logger         *log.Logger
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingMu      sync.Mutex
	pendingEffects []Effect

	running     atomic.Bool
	dirty       bool
	renderMu    sync.Mutex
	renderFrame int64
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	app := &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		keyHandler:     cfg.KeyHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		stateQueue:     queue,
		flushPolicy:    cfg.FlushPolicy,
		renderObserver: cfg.RenderObserver,
		logger:         logger,
	}
	app.queueScheduler = NewQueueScheduler(queue, app.tryPost)
	app.invalidator = NewInvalidator(app.tryPost)
	return app
}

// Screen returns the active screen, if initialized.
func (a *App) Screen() *Screen {
	return a.screen
}

// Logger returns the app logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// StateQueue returns the app's state queue.
func (a *App) StateQueue() *state.Queue {
	if a == nil {
		return nil
	}
	return a.stateQueue
}

// StateScheduler returns a scheduler that wakes the app to flush.
func (a *App) StateScheduler() state.Scheduler {
	if a == nil || a.queueScheduler == nil {
		return nil
	}
	return a.queueScheduler
}

// InvalidateScheduler returns a scheduler that invalidates the render pass.
func (a *App) InvalidateScheduler() state.Scheduler {
	if a == nil || a.invalidator == nil {
		return nil
	}
	return a.invalidator
}

// Invalidate requests a render pass.
func (a *App) Invalidate() {
	if a == nil || a.invalidator == nil {
		return
	}
	a.invalidator.Invalidate()
}

// Spawn starts an effect using the app task context.
// If Run has not started, the effect is queued until start.
func (a *App) Spawn(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	a.pendingMu.Lock()
	if a.taskCtx == nil {
		a.pendingEffects = append(a.pendingEffects, effect)
		a.pendingMu.Unlock()
		return
	}
	a.pendingMu.Unlock()
	a.runEffect(effect)
}

// After runs fn on the event loop once delay has passed.
func (a *App) After(delay time.Duration, fn func()) {
	a.Spawn(Later(delay, fn))
}

// SetRoot swaps the root widget.
func (a *App) SetRoot(root Widget) {
	a.root = root
	if a.screen != nil {
		a.screen.SetRoot(root)
		a.dirty = true
	}
}

// Post sends a message to the event loop, dropping it when the queue is full.
func (a *App) Post(msg Message) {
	if !a.tryPost(msg) {
		a.logger.Debug("message dropped", "type", fmt.Sprintf("%T", msg))
	}
}

// TryPost sends a message to the event loop without blocking.
func (a *App) TryPost(msg Message) bool {
	return a.tryPost(msg)
}

func (a *App) tryPost(msg Message) bool {
	if a == nil || a.messages == nil {
		return false
	}
	select {
	case a.messages <- msg:
		return true
	default:
		return false
	}
}

// Run starts the event loop until Quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, taskCancel := context.WithCancel(ctx)
	a.pendingMu.Lock()
	a.taskCtx = taskCtx
	a.taskCancel = taskCancel
	a.pendingMu.Unlock()
	defer func() {
		taskCancel()
		a.pendingMu.Lock()
		a.taskCtx = nil
		a.taskCancel = nil
		a.pendingMu.Unlock()
	}()
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.screen = NewScreen(w, h)
	a.screen.SetServices(a.Services())
	if a.root != nil {
		a.screen.SetRoot(a.root)
	}
	if a.update == nil {
		a.update = DefaultUpdate
	}
	a.logger.Debug("app started", "width", w, "height", h, "tick", a.tickRate)

	a.running.Store(true)
	a.render()
	a.dirty = false
	a.startPendingEffects()
	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for a.running.Load() {
		var msg Message
		select {
		case <-ctx.Done():
			a.stop()
		case msg = <-a.messages:
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}
		if msg != nil && a.update(a, msg) {
			a.dirty = true
		}
		if !a.running.Load() {
			continue
		}
		if msg != nil {
			if a.flushQueueIfNeeded(msg) {
				a.dirty = true
			}
			if _, ok := msg.(InvalidateMsg); ok {
				a.invalidator.resetPending()
			}
		}
		if a.dirty {
			a.render()
			a.dirty = false
		}
	}
	a.logger.Debug("app stopped")
	return ctx.Err()
}

// DefaultUpdate handles input messages and widget commands.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.screen == nil {
		return false
	}
	switch m := msg.(type) {
	case ResizeMsg:
		app.screen.Resize(m.Width, m.Height)
		return true
	case KeyMsg:
		if app.keyHandler != nil && app.keyHandler.HandleKey(app, m) {
			return true
		}
		return app.dispatchMessage(msg)
	case QueueFlushMsg:
		return false
	case InvalidateMsg:
		return true
	case CallMsg:
		if m.Fn != nil {
			m.Fn()
		}
		return true
	default:
		return app.dispatchMessage(msg)
	}
}

func (a *App) dispatchMessage(msg Message) bool {
	if a == nil || a.screen == nil {
		return false
	}
	result := a.screen.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		if a.handleCommand(cmd) {
			dirty = true
		}
	}
	return dirty
}

func (a *App) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		a.stop()
		return false
	case Refresh:
		if a.screen != nil {
			a.screen.Buffer().MarkAllDirty()
		}
		return true
	case SendMsg:
		if c.Message != nil {
			a.Post(c.Message)
		}
		return false
	case Effect:
		a.runEffect(c)
		return false
	case PushOverlay, PopOverlay:
		return true
	case Notify:
		a.logNotify(c)
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

func (a *App) logNotify(n Notify) {
	switch n.Level {
	case "error":
		a.logger.Error(n.Text, "err", n.Err)
	case "warn":
		a.logger.Warn(n.Text, "err", n.Err)
	default:
		a.logger.Info(n.Text)
	}
}

// ExecuteCommand runs a command through the app handler.
func (a *App) ExecuteCommand(cmd Command) bool {
	if a == nil {
		return false
	}
	return a.handleCommand(cmd)
}

func (a *App) stop() {
	a.running.Store(false)
	a.cancelTasks()
}

func (a *App) pollEvents() {
	for a.running.Load() {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case terminal.KeyEvent:
			a.Post(KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift})
		case terminal.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		case terminal.MouseEvent:
			a.Post(MouseMsg{
				X:      e.X,
				Y:      e.Y,
				Button: e.Button,
				Action: e.Action,
				Alt:    e.Alt,
				Ctrl:   e.Ctrl,
				Shift:  e.Shift,
			})
		case terminal.PasteEvent:
			a.Post(PasteMsg{Text: e.Text})
		}
	}
}

func (a *App) render() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()
	if a.screen == nil {
		return
	}

	stats := RenderStats{
		Frame:      atomic.AddInt64(&a.renderFrame, 1),
		Started:    time.Now(),
		LayerCount: a.screen.LayerCount(),
	}
	a.screen.Render()
	stats.RenderDuration = time.Since(stats.Started)

	buf := a.screen.Buffer()
	w, h := buf.Size()
	stats.TotalCells = w * h
	if buf.IsDirty() {
		flushStart := time.Now()
		stats.DirtyCells = buf.DirtyCount()
		stats.FullRedraw = stats.DirtyCells > stats.TotalCells/2
		stats.FlushedCells = a.flush(buf, stats.FullRedraw)
		stats.FlushDuration = time.Since(flushStart)
		buf.ClearDirty()
	}
	a.backend.Show()

	stats.TotalDuration = time.Since(stats.Started)
	if a.renderObserver != nil {
		a.renderObserver.ObserveRender(stats)
	}
}

// flush copies dirty cells to the backend using the widest writer it offers.
func (a *App) flush(buf *Buffer, full bool) int {
	w, h := buf.Size()
	cells := buf.Cells()
	rowWriter, hasRowWriter := a.backend.(backend.RowWriter)
	rectWriter, hasRectWriter := a.backend.(backend.RectWriter)

	if full {
		switch {
		case hasRectWriter:
			rectWriter.SetRect(0, 0, w, h, cells)
		case hasRowWriter:
			for y := 0; y < h; y++ {
				rowWriter.SetRow(y, 0, cells[y*w:(y+1)*w])
			}
		default:
			for i, cell := range cells {
				a.backend.SetContent(i%w, i/w, cell.Rune, nil, cell.Style)
			}
		}
		return w * h
	}

	flushed := 0
	if hasRowWriter {
		buf.ForEachDirtySpan(func(y, startX, endX int) {
			rowWriter.SetRow(y, startX, cells[y*w+startX:y*w+endX])
			flushed += endX - startX
		})
		return flushed
	}
	buf.ForEachDirtyCell(func(x, y int, cell Cell) {
		a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
		flushed++
	})
	return flushed
}

func (a *App) taskContext() context.Context {
	a.pendingMu.Lock()
	defer a.pendingMu.Unlock()
	if a.taskCtx != nil {
		return a.taskCtx
	}
	return context.Background()
}

func (a *App) cancelTasks() {
	a.pendingMu.Lock()
	cancel := a.taskCancel
	a.pendingMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) runEffect(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	go effect.Run(a.taskContext(), a.tryPost)
}

func (a *App) startPendingEffects() {
	a.pendingMu.Lock()
	effects := a.pendingEffects
	a.pendingEffects = nil
	a.pendingMu.Unlock()
	for _, effect := range effects {
		a.runEffect(effect)
	}
}

func (a *App) flushQueueIfNeeded(msg Message) bool {
	if a.stateQueue == nil || !shouldFlushQueue(a.flushPolicy, msg) {
		return false
	}
	a.queueScheduler.resetPending()
	return a.stateQueue.Flush() > 0
}
