package runtime

import (
	"testing"

	"github.com/odvcencio/cascade/backend"
)

func TestBuffer_SetTracksDirty(t *testing.T) {
	buf := NewBuffer(10, 4)
	if buf.IsDirty() {
		t.Fatalf("new buffer should be clean")
	}
	buf.Set(2, 1, 'a', backend.DefaultStyle())
	buf.Set(5, 3, 'b', backend.DefaultStyle())
	if buf.DirtyCount() != 2 {
		t.Fatalf("dirty count = %d", buf.DirtyCount())
	}
	if got := buf.DirtyRect(); got != (Rect{X: 2, Y: 1, Width: 4, Height: 3}) {
		t.Fatalf("dirty rect = %+v", got)
	}
	buf.ClearDirty()
	buf.Set(2, 1, 'a', backend.DefaultStyle())
	if buf.IsDirty() {
		t.Fatalf("rewriting the same cell should stay clean")
	}
}

func TestBuffer_SetStringWide(t *testing.T) {
	buf := NewBuffer(6, 1)
	end := buf.SetString(0, 0, "a日b", backend.DefaultStyle())
	if end != 4 {
		t.Fatalf("end column = %d, want 4", end)
	}
	if buf.Get(1, 0).Rune != '日' || buf.Get(2, 0).Rune != 0 || buf.Get(3, 0).Rune != 'b' {
		t.Fatalf("unexpected cells %q %q %q", buf.Get(1, 0).Rune, buf.Get(2, 0).Rune, buf.Get(3, 0).Rune)
	}
	buf.SetString(5, 0, "日", backend.DefaultStyle())
	if buf.Get(5, 0).Rune != ' ' {
		t.Fatalf("wide rune should not be split at the right edge")
	}
}

func TestBuffer_SetStringClipsLeft(t *testing.T) {
	buf := NewBuffer(4, 1)
	buf.SetString(-2, 0, "abcd", backend.DefaultStyle())
	if buf.Get(0, 0).Rune != 'c' || buf.Get(1, 0).Rune != 'd' {
		t.Fatalf("expected cd at the left edge, got %q%q", buf.Get(0, 0).Rune, buf.Get(1, 0).Rune)
	}
}

func TestBuffer_DirtySpans(t *testing.T) {
	buf := NewBuffer(8, 2)
	buf.SetString(1, 0, "ab", backend.DefaultStyle())
	buf.Set(6, 0, 'c', backend.DefaultStyle())
	var spans [][3]int
	buf.ForEachDirtySpan(func(y, startX, endX int) {
		spans = append(spans, [3]int{y, startX, endX})
	})
	want := [][3]int{{0, 1, 3}, {0, 6, 7}}
	if len(spans) != len(want) || spans[0] != want[0] || spans[1] != want[1] {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
}

func TestBuffer_ResizeKeepsContent(t *testing.T) {
	buf := NewBuffer(3, 2)
	buf.Set(1, 1, 'x', backend.DefaultStyle())
	buf.Resize(5, 3)
	if buf.Get(1, 1).Rune != 'x' {
		t.Fatalf("content lost on resize")
	}
	if buf.DirtyCount() != 15 || !buf.IsCellDirty(4, 2) {
		t.Fatalf("resize should mark everything dirty")
	}
}

func TestSubBuffer_Clips(t *testing.T) {
	buf := NewBuffer(10, 3)
	sub := buf.Sub(Rect{X: 2, Y: 1, Width: 3, Height: 1})
	sub.SetString(0, 0, "hello", backend.DefaultStyle())
	if buf.Get(2, 1).Rune != 'h' || buf.Get(4, 1).Rune != 'l' || buf.Get(5, 1).Rune != ' ' {
		t.Fatalf("sub buffer did not clip")
	}
	sub.Fill(Rect{X: -1, Y: 0, Width: 10, Height: 5}, '#', backend.DefaultStyle())
	if buf.Get(1, 1).Rune != ' ' || buf.Get(2, 1).Rune != '#' || buf.Get(2, 2).Rune != ' ' {
		t.Fatalf("sub fill escaped its bounds")
	}
}

func TestHitGrid_TopmostWins(t *testing.T) {
	grid := NewHitGrid(10, 5)
	a := &nodeWidget{}
	b := &nodeWidget{}
	grid.Add(a, Rect{0, 0, 10, 5})
	grid.Add(b, Rect{2, 2, 3, 1})
	if grid.WidgetAt(0, 0) != a {
		t.Fatalf("expected a at origin")
	}
	if grid.WidgetAt(3, 2) != b {
		t.Fatalf("expected b on top")
	}
	if grid.WidgetAt(20, 20) != nil {
		t.Fatalf("expected nil outside the grid")
	}
	grid.Clear()
	if grid.WidgetAt(3, 2) != nil {
		t.Fatalf("expected empty grid after Clear")
	}
}
