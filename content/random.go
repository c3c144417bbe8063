package content

import (
	"math/rand/v2"
	"strings"
)

// DefaultLabels are the block captions used by Random.
var DefaultLabels = []string{"apple", "banana", "kiwi", "milk", "water"}

// Block is one labelled element of a random body.
type Block struct {
	Label  string
	Height int
}

// RandomOptions bounds the blocks produced by Random.
type RandomOptions struct {
	MinBlocks int
	MaxBlocks int
	MinHeight int
	MaxHeight int
	Labels    []string
}

// DefaultRandomOptions returns one to ten blocks of one to three rows.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		MinBlocks: 1,
		MaxBlocks: 10,
		MinHeight: 1,
		MaxHeight: 3,
		Labels:    DefaultLabels,
	}
}

// Random picks a stack of blocks. The result is fixed for a given rng state.
func Random(rng *rand.Rand, opts RandomOptions) []Block {
	if opts.MinBlocks < 1 {
		opts.MinBlocks = 1
	}
	if opts.MaxBlocks < opts.MinBlocks {
		opts.MaxBlocks = opts.MinBlocks
	}
	if opts.MinHeight < 1 {
		opts.MinHeight = 1
	}
	if opts.MaxHeight < opts.MinHeight {
		opts.MaxHeight = opts.MinHeight
	}
	labels := opts.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}

	count := opts.MinBlocks + rng.IntN(opts.MaxBlocks-opts.MinBlocks+1)
	blocks := make([]Block, count)
	for i := range blocks {
		blocks[i] = Block{
			Label:  labels[rng.IntN(len(labels))],
			Height: opts.MinHeight + rng.IntN(opts.MaxHeight-opts.MinHeight+1),
		}
	}
	return blocks
}

// BlockLines draws blocks as framed boxes width cells wide.
// A block of height h takes max(h, 1) rows; tall blocks get a top and bottom edge.
func BlockLines(blocks []Block, width int) []string {
	if width < 4 {
		return nil
	}
	inner := width - 2
	var lines []string
	for _, b := range blocks {
		h := max(b.Height, 1)
		if h < 3 {
			lines = append(lines, "["+Fit(" "+b.Label, inner)+"]")
			for range h - 1 {
				lines = append(lines, "["+strings.Repeat(" ", inner)+"]")
			}
			continue
		}
		lines = append(lines, "┌"+strings.Repeat("─", inner)+"┐")
		lines = append(lines, "│"+Fit(" "+b.Label, inner)+"│")
		for range h - 3 {
			lines = append(lines, "│"+strings.Repeat(" ", inner)+"│")
		}
		lines = append(lines, "└"+strings.Repeat("─", inner)+"┘")
	}
	return lines
}
