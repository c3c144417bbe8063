package backend

// Color is a terminal color. The zero value is the terminal default.
type Color uint32

const (
	ColorDefault Color = 0

	paletteFlag Color = 1 << 24
	rgbFlag     Color = 1 << 25
)

// Palette colors.
const (
	ColorBlack Color = paletteFlag | iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// ColorRGB returns a true-color value.
func ColorRGB(r, g, b uint8) Color {
	return rgbFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Palette reports the palette index of c.
func (c Color) Palette() (int, bool) {
	if c&paletteFlag == 0 {
		return 0, false
	}
	return int(c &^ paletteFlag), true
}

// RGB reports the components of a true-color value.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	if c&rgbFlag == 0 {
		return 0, 0, 0, false
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c), true
}

// AttrMask is a set of text attributes.
type AttrMask uint8

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Style is an immutable, comparable cell style.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the terminal's default colors with no attributes.
func DefaultStyle() Style {
	return Style{}
}

// Foreground returns s with foreground c.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background returns s with background c.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

func (s Style) attr(a AttrMask, on bool) Style {
	if on {
		s.attrs |= a
	} else {
		s.attrs &^= a
	}
	return s
}

// Bold toggles bold text.
func (s Style) Bold(on bool) Style { return s.attr(AttrBold, on) }

// Dim toggles faint text.
func (s Style) Dim(on bool) Style { return s.attr(AttrDim, on) }

// Italic toggles italic text.
func (s Style) Italic(on bool) Style { return s.attr(AttrItalic, on) }

// Underline toggles underlined text.
func (s Style) Underline(on bool) Style { return s.attr(AttrUnderline, on) }

// Reverse toggles reverse video.
func (s Style) Reverse(on bool) Style { return s.attr(AttrReverse, on) }

// Decompose returns the colors and attributes of s.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}
