package slidecast

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is an available layout region in pixels.
type Box struct {
	X, Y, W, H int
}

// TextStyle configures one laid-out text block. Reveal is the fraction
// of the block's characters to paint, in [0,1]; callers animating a
// reveal vary only this field between frames.
type TextStyle struct {
	Font       string
	Size       float64 // base font size in pixels
	MinSize    float64 // auto-fit floor; defaults to 10
	Bold       bool
	Italic     bool
	LineHeight float64 // line height factor; defaults to 1.3
	Align      HorizontalAlignment
	Color      color.RGBA
	Reveal     float64
}

// LayoutResult reports what a layout pass produced so callers can align
// dependent blocks below it.
type LayoutResult struct {
	Lines        []string // wrapped lines at the chosen size, pre-reveal
	FontSize     float64  // size actually used after auto-fit
	NextY        int      // vertical cursor immediately below the last painted line
	PaintedChars int      // characters painted after applying Reveal
}

// fontSizeStep is the fixed decrement used when shrinking text to fit.
const fontSizeStep = 2.0

// LayoutEngine performs deterministic auto-fit text layout. The same
// engine instance (and font cache) is shared by on-screen preview and
// export rendering so both wrap at identical character positions.
type LayoutEngine struct {
	fonts *FontCache
}

// NewLayoutEngine creates a layout engine backed by the given font cache.
func NewLayoutEngine(fonts *FontCache) *LayoutEngine {
	return &LayoutEngine{fonts: fonts}
}

// Layout measures without painting: it wraps, auto-fits and computes the
// reveal budget exactly as Draw would.
func (e *LayoutEngine) Layout(text string, box Box, style TextStyle) LayoutResult {
	return e.run(nil, text, box, style)
}

// Draw lays out and paints the text block onto dst. Word-wrap is greedy
// at measured advances; if the wrapped block overflows the box at the
// base size, the size shrinks in fixed decrements down to MinSize, where
// remaining overflow is clipped (lines beyond the box are dropped).
func (e *LayoutEngine) Draw(dst draw.Image, text string, box Box, style TextStyle) LayoutResult {
	return e.run(dst, text, box, style)
}

func (e *LayoutEngine) run(dst draw.Image, text string, box Box, style TextStyle) LayoutResult {
	size := style.Size
	if size <= 0 {
		size = 16
	}
	minSize := style.MinSize
	if minSize <= 0 {
		minSize = 10
	}
	if minSize > size {
		minSize = size
	}
	lineFactor := style.LineHeight
	if lineFactor <= 0 {
		lineFactor = 1.3
	}

	// Auto-fit: shrink until the wrapped block's height fits, or the
	// minimum size is reached.
	var lines []string
	for {
		lines = e.wrap(text, box.W, style, size)
		if lineHeightPx(size, lineFactor)*len(lines) <= box.H || size-fontSizeStep < minSize {
			break
		}
		size -= fontSizeStep
	}

	lineH := lineHeightPx(size, lineFactor)
	total := 0
	for _, l := range lines {
		total += len([]rune(l))
	}
	budget := revealBudget(total, style.Reveal)

	face := e.renderFace(style, size)
	painted := 0
	curY := box.Y
	for _, line := range lines {
		if budget <= 0 {
			break
		}
		if curY+lineH > box.Y+box.H {
			// Last-resort clipping at the minimum size.
			break
		}
		runes := []rune(line)
		visible := line
		if len(runes) > budget {
			visible = string(runes[:budget]) // clip mid-word
		}
		if dst != nil && visible != "" {
			e.paintLine(dst, visible, line, face, box, curY, style)
		}
		painted += len([]rune(visible))
		budget -= len(runes)
		curY += lineH
	}

	return LayoutResult{
		Lines:        lines,
		FontSize:     size,
		NextY:        curY,
		PaintedChars: painted,
	}
}

// revealBudget converts a reveal fraction into a visible-character
// budget. Reveal is clamped to [0,1]; 1 paints everything, 0 nothing.
func revealBudget(total int, reveal float64) int {
	if reveal >= 1 {
		return total
	}
	if reveal <= 0 {
		return 0
	}
	return int(math.Floor(reveal * float64(total)))
}

func lineHeightPx(size, factor float64) int {
	h := int(math.Round(size * factor))
	if h < 1 {
		h = 1
	}
	return h
}

// wrap greedily packs words into lines no wider than width, measured
// with the unhinted measure face. A single word wider than the box gets
// a line of its own.
func (e *LayoutEngine) wrap(text string, width int, style TextStyle, size float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	face := e.measureFace(style, size)

	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}
		candidate := cur.String() + " " + word
		if font.MeasureString(face, candidate).Ceil() <= width {
			cur.Reset()
			cur.WriteString(candidate)
			continue
		}
		lines = append(lines, cur.String())
		cur.Reset()
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// paintLine draws one (possibly clipped) line. Alignment offsets are
// computed from the full line so a partially revealed line does not
// shift as more characters appear.
func (e *LayoutEngine) paintLine(dst draw.Image, visible, full string, face font.Face, box Box, y int, style TextStyle) {
	drawX := box.X
	switch style.Align {
	case AlignCenter:
		drawX = box.X + (box.W-font.MeasureString(face, full).Ceil())/2
	case AlignRight:
		drawX = box.X + box.W - font.MeasureString(face, full).Ceil()
	}
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{style.Color},
		Face: face,
		Dot:  fixed.P(drawX, y+ascent),
	}
	d.DrawString(visible)
}

func (e *LayoutEngine) renderFace(style TextStyle, size float64) font.Face {
	if e.fonts != nil {
		if f := e.fonts.GetFace(fontName(style), size, style.Bold, style.Italic); f != nil {
			return f
		}
		for _, fallback := range []string{"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica"} {
			if f := e.fonts.GetFace(fallback, size, style.Bold, style.Italic); f != nil {
				return f
			}
		}
	}
	return basicfont.Face7x13
}

func (e *LayoutEngine) measureFace(style TextStyle, size float64) font.Face {
	if e.fonts != nil {
		if f := e.fonts.GetMeasureFace(fontName(style), size, style.Bold, style.Italic); f != nil {
			return f
		}
		for _, fallback := range []string{"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica"} {
			if f := e.fonts.GetMeasureFace(fallback, size, style.Bold, style.Italic); f != nil {
				return f
			}
		}
	}
	return basicfont.Face7x13
}

func fontName(style TextStyle) string {
	if style.Font != "" {
		return style.Font
	}
	return "dejavu sans"
}
