package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// CastOptions configures a Cast.
type CastOptions struct {
	Title string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Cast writes screen frames as an asciicast v2 recording, one "o" event
// per frame that changed the screen.
type Cast struct {
	mu     sync.Mutex
	w      io.Writer
	clock  func() time.Time
	start  time.Time
	width  int
	height int
	title  string
	last   string
	frames int
	err    error
}

type castHeader struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title,omitempty"`
}

// NewCast starts a recording on w. The header is written with the first frame.
func NewCast(w io.Writer, opts CastOptions) *Cast {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Cast{w: w, clock: clock, title: opts.Title}
}

// Frame records the screen text if it differs from the previous frame.
func (c *Cast) Frame(width, height int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	now := c.clock()
	if c.frames == 0 {
		c.start = now
		c.width, c.height = width, height
		c.err = c.writeJSON(castHeader{
			Version:   2,
			Width:     width,
			Height:    height,
			Timestamp: now.Unix(),
			Title:     c.title,
		})
		if c.err != nil {
			return c.err
		}
	} else if text == c.last {
		return nil
	}
	c.last = text
	c.frames++

	// Home the cursor and redraw every row, clearing to end of line.
	data := "\x1b[H" + strings.ReplaceAll(text, "\n", "\x1b[K\r\n") + "\x1b[K\x1b[J"
	elapsed := now.Sub(c.start).Seconds()
	c.err = c.writeJSON([]any{elapsed, "o", data})
	return c.err
}

// Frames returns the number of recorded frames.
func (c *Cast) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Err returns the first write error.
func (c *Cast) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Cast) writeJSON(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cast event: %w", err)
	}
	line = append(line, '\n')
	if _, err := c.w.Write(line); err != nil {
		return fmt.Errorf("write cast: %w", err)
	}
	return nil
}
