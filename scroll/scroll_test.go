package scroll

import (
	"testing"

	"github.com/odvcencio/cascade/runtime"
)

func TestViewportClampOffset(t *testing.T) {
	v := NewViewport()
	v.SetViewHeight(5)
	v.SetContentHeight(20)

	v.ScrollTo(100)
	if got := v.Offset(); got != 15 {
		t.Fatalf("offset clamp = %d, want 15", got)
	}
	v.ScrollTo(-7)
	if got := v.Offset(); got != 0 {
		t.Fatalf("offset clamp negative = %d, want 0", got)
	}
}

func TestViewportShrinkingContentClamps(t *testing.T) {
	v := NewViewport()
	v.SetViewHeight(5)
	v.SetContentHeight(20)
	v.ScrollToEnd()
	var changes []int
	v.SetOnChange(func(offset, content, view int) { changes = append(changes, offset) })

	v.SetContentHeight(8)
	if got := v.Offset(); got != 3 {
		t.Fatalf("offset after shrink = %d, want 3", got)
	}
	v.SetContentHeight(4)
	if got := v.Offset(); got != 0 || v.Scrollable() {
		t.Fatalf("offset = %d scrollable=%v, want 0 and not scrollable", got, v.Scrollable())
	}
	if len(changes) != 2 {
		t.Fatalf("onChange calls = %v", changes)
	}
}

func TestViewportPageAndEnsureVisible(t *testing.T) {
	v := NewViewport()
	v.SetViewHeight(10)
	v.SetContentHeight(100)

	v.PageBy(2)
	if got := v.Offset(); got != 18 {
		t.Fatalf("PageBy(2) = %d, want 18", got)
	}
	v.EnsureVisible(40, 3)
	if got := v.Offset(); got != 33 {
		t.Fatalf("EnsureVisible below = %d, want 33", got)
	}
	v.EnsureVisible(5, 2)
	if got := v.Offset(); got != 5 {
		t.Fatalf("EnsureVisible above = %d, want 5", got)
	}
	v.EnsureVisible(50, 30)
	if got := v.Offset(); got != 50 {
		t.Fatalf("EnsureVisible tall = %d, want 50", got)
	}
}

func TestScrollbarRender(t *testing.T) {
	v := NewViewport()
	v.SetViewHeight(4)
	v.SetContentHeight(8)
	v.ScrollToEnd()

	bar := DefaultScrollbar()
	start, length := bar.ThumbSpan(v, 4)
	if start != 2 || length != 2 {
		t.Fatalf("thumb = %d+%d, want 2+2", start, length)
	}
	buf := runtime.NewBuffer(1, 4)
	bar.Render(buf, 0, 0, 4, v)
	if buf.Get(0, 0).Rune != '│' || buf.Get(0, 3).Style != bar.Thumb {
		t.Fatalf("unexpected scrollbar cells")
	}
}

func TestOffsetIndex(t *testing.T) {
	index := OffsetIndex{Offsets: []int{0, 3, 10, 12}}
	tests := map[int]int{-4: 0, 0: 0, 2: 0, 3: 1, 9: 1, 10: 2, 11: 2, 12: 3, 99: 3}
	for y, want := range tests {
		if got := index.IndexForOffset(y); got != want {
			t.Fatalf("IndexForOffset(%d) = %d, want %d", y, got, want)
		}
	}
	if got := index.OffsetForIndex(7); got != 12 {
		t.Fatalf("OffsetForIndex(7) = %d, want 12", got)
	}
	if got := (OffsetIndex{}).IndexForOffset(5); got != 0 {
		t.Fatalf("empty index = %d", got)
	}
}
