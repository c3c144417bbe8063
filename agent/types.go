package agent

import (
	"time"

	"github.com/odvcencio/cascade/runtime"
)

// Snapshot captures a structured view of the current UI state.
type Snapshot struct {
	Timestamp  time.Time    `json:"timestamp"`
	Frame      int64        `json:"frame"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	LayerCount int          `json:"layer_count,omitempty"`
	Text       string       `json:"text,omitempty"`
	Widgets    []WidgetInfo `json:"widgets,omitempty"`
}

// WidgetInfo describes a widget in the UI tree. Widgets holds one entry
// per layer root, bottom layer first.
type WidgetInfo struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Bounds   runtime.Rect `json:"bounds"`
	Children []WidgetInfo `json:"children,omitempty"`
}
