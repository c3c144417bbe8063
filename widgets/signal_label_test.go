package widgets

import (
	"testing"

	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/state"
)

func TestSignalLabel_LifecycleQueue(t *testing.T) {
	sig := state.NewCell(nil, "start")
	queue := state.NewQueue()
	label := NewSignalLabel(sig, queue)

	label.Mount()
	if label.text != "start" {
		t.Fatalf("expected initial text start, got %q", label.text)
	}

	sig.Set("next")
	if label.text != "start" {
		t.Fatalf("expected text to update after flush, got %q", label.text)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 queued callback, got %d", flushed)
	}
	if label.text != "next" {
		t.Fatalf("expected updated text next, got %q", label.text)
	}

	label.Unmount()
	sig.Set("final")
	if flushed := queue.Flush(); flushed != 0 {
		t.Fatalf("expected no queued callbacks after unmount, got %d", flushed)
	}
	if label.text != "next" {
		t.Fatalf("expected text to remain next after unmount, got %q", label.text)
	}
}

func TestSignalLabel_RenderAlignment(t *testing.T) {
	sig := state.NewCell(nil, "hi")
	label := NewSignalLabel(sig, nil)
	label.Mount()
	defer label.Unmount()

	buf := runtime.NewBuffer(6, 1)
	label.Layout(runtime.Rect{Width: 6, Height: 1})
	label.SetAlignment(AlignRight)
	label.Render(runtime.RenderContext{Buffer: buf, Bounds: runtime.Rect{Width: 6, Height: 1}})
	if got := bufferLine(buf, 0); got != "    hi" {
		t.Fatalf("right aligned = %q", got)
	}

	// Without a scheduler the label follows the cell synchronously.
	sig.Set("a longer text")
	label.Render(runtime.RenderContext{Buffer: buf, Bounds: runtime.Rect{Width: 6, Height: 1}})
	if got := bufferLine(buf, 0); got != "a lon…" {
		t.Fatalf("truncated = %q", got)
	}
}
