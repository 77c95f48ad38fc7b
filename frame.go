package slidecast

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
)

// FrameOptions selects how one frame of a slide is drawn.
type FrameOptions struct {
	Orientation Orientation
	Theme       Theme
	// Progress is the position within the slide's duration, in [0,1].
	// It drives the text reveal and the Ken Burns drift; progress 1
	// always yields the fully-revealed still of the slide.
	Progress float64
	// Hero overrides hero resolution with a pre-fetched image. When nil
	// the renderer consults its cache, then the procedural placeholder.
	Hero image.Image
}

// FrameRenderer rasterizes slides into RGBA frames. One renderer is
// shared across a whole export so font faces and hero artwork stay
// cached between frames.
type FrameRenderer struct {
	engine *LayoutEngine
	heroes *HeroCache
}

// NewFrameRenderer builds a renderer. heroes may be nil, in which case
// every slide gets placeholder artwork.
func NewFrameRenderer(engine *LayoutEngine, heroes *HeroCache) *FrameRenderer {
	return &FrameRenderer{engine: engine, heroes: heroes}
}

const (
	frameMargin       = 72
	panelRadius       = 24
	kenBurnsZoom      = 0.08
	headlineRevealEnd = 0.25
	bodyRevealStart   = 0.10
	bodyRevealEnd     = 0.60
)

// RenderFrame draws one frame of the slide into dst, which must match
// the orientation's dimensions. The slide is sanitized first so exports
// never leak raw URLs or model labels, and missing hero or chart data
// degrades the frame rather than failing it.
func (fr *FrameRenderer) RenderFrame(ctx context.Context, slide Slide, dst *image.RGBA, opts FrameOptions) error {
	s := SanitizeForExport(slide)
	p := opts.Theme.Palette()
	progress := clamp01(opts.Progress)

	draw.Draw(dst, dst.Bounds(), &image.Uniform{p.Background.RGBA()}, image.Point{}, draw.Src)

	switch s.Template {
	case TemplateQuadGrid:
		fr.renderQuadGrid(ctx, dst, s, p, opts, progress)
	case TemplateTextImageChart:
		fr.renderTextImage(ctx, dst, s, p, opts, progress, true)
	default:
		fr.renderTextImage(ctx, dst, s, p, opts, progress, false)
	}
	return nil
}

// renderTextImage draws the text-image and text-image-chart templates:
// a text column beside (landscape) or above (portrait) a media panel.
// withChart reserves a lower band of the text column for the chart.
func (fr *FrameRenderer) renderTextImage(ctx context.Context, dst *image.RGBA, s Slide, p Palette, opts FrameOptions, progress float64, withChart bool) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	var textBox, mediaBox Box
	if w >= h {
		colW := (w - 3*frameMargin) / 2
		textBox = Box{X: frameMargin, Y: frameMargin, W: colW, H: h - 2*frameMargin}
		mediaBox = Box{X: 2*frameMargin + colW, Y: frameMargin, W: colW, H: h - 2*frameMargin}
	} else {
		mediaH := (h - 3*frameMargin) * 2 / 5
		mediaBox = Box{X: frameMargin, Y: frameMargin, W: w - 2*frameMargin, H: mediaH}
		textBox = Box{X: frameMargin, Y: 2*frameMargin + mediaH, W: w - 2*frameMargin, H: h - 3*frameMargin - mediaH}
	}

	var chartBox Box
	if withChart {
		chartH := textBox.H * 35 / 100
		chartBox = Box{X: textBox.X, Y: textBox.Y + textBox.H - chartH, W: textBox.W, H: chartH}
		textBox.H -= chartH + frameMargin/4
	}

	fr.drawHeroPanel(ctx, dst, s, mediaBox, p, opts, progress)
	fr.drawTextColumn(dst, s, textBox, p, progress)
	if withChart {
		fr.drawChartPanel(dst, s, chartBox, p)
	}
}

func (fr *FrameRenderer) drawTextColumn(dst *image.RGBA, s Slide, box Box, p Palette, progress float64) {
	headlineReveal := rampReveal(progress, 0, headlineRevealEnd)
	bodyReveal := rampReveal(progress, bodyRevealStart, bodyRevealEnd)

	res := fr.engine.Draw(dst, s.Headline, Box{X: box.X, Y: box.Y, W: box.W, H: box.H / 3}, TextStyle{
		Size:    64,
		MinSize: 36,
		Bold:    true,
		Color:   p.Headline.RGBA(),
		Reveal:  headlineReveal,
	})

	y := box.Y + box.H/3
	if res.NextY+16 < y {
		y = res.NextY + 16
	}
	res = fr.engine.Draw(dst, s.Summary, Box{X: box.X, Y: y, W: box.W, H: box.H / 4}, TextStyle{
		Size:    28,
		MinSize: 18,
		Color:   p.Body.RGBA(),
		Reveal:  bodyReveal,
	})

	y = res.NextY + 24
	for _, bullet := range s.Bullets {
		if bullet == "" {
			continue
		}
		marker := Box{X: box.X, Y: y, W: 24, H: 32}
		fr.engine.Draw(dst, "•", marker, TextStyle{Size: 28, Color: p.Accent.RGBA(), Reveal: bodyReveal})

		title, body := splitBullet(bullet)
		res = fr.engine.Draw(dst, title, Box{X: box.X + 32, Y: y, W: box.W - 32, H: box.Y + box.H - y}, TextStyle{
			Size:    26,
			MinSize: 18,
			Bold:    true,
			Color:   p.Body.RGBA(),
			Reveal:  bodyReveal,
		})
		y = res.NextY + 4
		if body != "" && y < box.Y+box.H {
			res = fr.engine.Draw(dst, body, Box{X: box.X + 32, Y: y, W: box.W - 32, H: box.Y + box.H - y}, TextStyle{
				Size:    24,
				MinSize: 16,
				Color:   p.Body.RGBA(),
				Reveal:  bodyReveal,
			})
			y = res.NextY
		}
		y += 14
		if y >= box.Y+box.H {
			break
		}
	}
}

// renderQuadGrid draws the quad-grid template: a full-width headline
// over a 2x2 grid of bullet cards with the hero panel in the middle.
func (fr *FrameRenderer) renderQuadGrid(ctx context.Context, dst *image.RGBA, s Slide, p Palette, opts FrameOptions, progress float64) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	headlineReveal := rampReveal(progress, 0, headlineRevealEnd)
	bodyReveal := rampReveal(progress, bodyRevealStart, bodyRevealEnd)

	headBox := Box{X: frameMargin, Y: frameMargin, W: w - 2*frameMargin, H: h / 6}
	fr.engine.Draw(dst, s.Headline, headBox, TextStyle{
		Size:    64,
		MinSize: 36,
		Bold:    true,
		Align:   AlignCenter,
		Color:   p.Headline.RGBA(),
		Reveal:  headlineReveal,
	})

	gridTop := frameMargin + h/6 + frameMargin/2
	gap := frameMargin / 2
	cellW := (w - 2*frameMargin - gap) / 2
	cellH := (h - gridTop - frameMargin - gap) / 2

	for i := 0; i < 4 && i < len(s.Bullets); i++ {
		col, row := i%2, i/2
		cell := Box{
			X: frameMargin + col*(cellW+gap),
			Y: gridTop + row*(cellH+gap),
			W: cellW,
			H: cellH,
		}
		fillRoundedRect(dst, cell, panelRadius, p.Surface.RGBA())

		title, body := splitBullet(s.Bullets[i])
		inner := Box{X: cell.X + 28, Y: cell.Y + 24, W: cell.W - 56, H: cell.H - 48}
		res := fr.engine.Draw(dst, title, Box{X: inner.X, Y: inner.Y, W: inner.W, H: inner.H / 3}, TextStyle{
			Size:    32,
			MinSize: 22,
			Bold:    true,
			Color:   p.Accent.RGBA(),
			Reveal:  bodyReveal,
		})
		if body != "" {
			y := res.NextY + 10
			fr.engine.Draw(dst, body, Box{X: inner.X, Y: y, W: inner.W, H: inner.Y + inner.H - y}, TextStyle{
				Size:    24,
				MinSize: 16,
				Color:   p.Body.RGBA(),
				Reveal:  bodyReveal,
			})
		}
	}

	heroW := cellW * 3 / 5
	heroH := cellH * 3 / 5
	heroBox := Box{
		X: frameMargin + cellW + gap/2 - heroW/2,
		Y: gridTop + cellH + gap/2 - heroH/2,
		W: heroW,
		H: heroH,
	}
	fr.drawHeroPanel(ctx, dst, s, heroBox, p, opts, progress)
}

// splitBullet divides a bullet into a card title and body at the first
// colon or dash separator; without one, the first three words title the
// card and the remainder is the body.
func splitBullet(s string) (title, body string) {
	for _, sep := range []string{":", " - ", " – ", " — "} {
		if i := strings.Index(s, sep); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		}
	}
	words := strings.Fields(s)
	if len(words) <= 3 {
		return s, ""
	}
	return strings.Join(words[:3], " "), strings.Join(words[3:], " ")
}

func (fr *FrameRenderer) drawHeroPanel(ctx context.Context, dst *image.RGBA, s Slide, box Box, p Palette, opts FrameOptions, progress float64) {
	fillRoundedRect(dst, box, panelRadius, p.Surface.RGBA())

	hero := opts.Hero
	if hero == nil {
		hero = fr.resolveHero(ctx, s, box, p)
	}
	if hero == nil {
		return
	}
	drawKenBurns(dst, hero, box, progress)
}

// resolveHero tries the cache with the slide's image reference; any
// failure degrades to the deterministic placeholder.
func (fr *FrameRenderer) resolveHero(ctx context.Context, s Slide, box Box, p Palette) image.Image {
	if fr.heroes != nil && s.HeroImage != "" {
		img, err := fr.heroes.Get(ctx, s.ID, s.HeroImage)
		if err == nil {
			return img
		}
		log().Warn().Str("slide", s.ID).Err(err).Msg("hero fetch failed, using placeholder")
	}
	return PlaceholderHero(s.HeroPrompt, box.W, box.H, p)
}

func (fr *FrameRenderer) drawChartPanel(dst *image.RGBA, s Slide, box Box, p Palette) {
	fillRoundedRect(dst, box, panelRadius, p.Surface.RGBA())
	if !s.ChartEnabled || s.Chart == nil {
		return
	}
	captionH := 0
	if s.ChartRationale != "" {
		captionH = 26
	}
	inner := Box{X: box.X + 16, Y: box.Y + 16, W: box.W - 32, H: box.H - 32 - captionH}
	DrawChart(dst, fr.engine, s.Chart, inner, p)
	if captionH > 0 {
		caption := Box{X: inner.X, Y: box.Y + box.H - captionH - 6, W: inner.W, H: captionH}
		fr.engine.Draw(dst, s.ChartRationale, caption, TextStyle{
			Size:   16,
			Italic: true,
			Color:  p.Muted.RGBA(),
			Reveal: 1,
		})
	}
}

// drawKenBurns paints the hero covering the panel with a slow zoom-out:
// scale runs from 1.08 at progress 0 to 1.0 at progress 1, cropped
// centrally, clipped to the panel's rounded corners.
func drawKenBurns(dst *image.RGBA, hero image.Image, box Box, progress float64) {
	scale := 1 + kenBurnsZoom*(1-clamp01(progress))
	scaledW := int(math.Round(float64(box.W) * scale))
	scaledH := int(math.Round(float64(box.H) * scale))

	fitted := coverImage(hero, scaledW, scaledH)
	offX := (scaledW - box.W) / 2
	offY := (scaledH - box.H) / 2

	mask := roundedRectMask(box.W, box.H, panelRadius)
	rect := image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H)
	draw.DrawMask(dst, rect, fitted, image.Pt(offX, offY), mask, image.Point{}, draw.Over)
}

// coverImage scales src to fill dstW x dstH, cropping the overflow
// dimension, with nearest-neighbor sampling.
func coverImage(src image.Image, dstW, dstH int) image.Image {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	if srcW == 0 || srcH == 0 || dstW <= 0 || dstH <= 0 {
		return src
	}

	// Scale preserving aspect ratio so both dimensions cover the target.
	scaleW := float64(dstW) / float64(srcW)
	scaleH := float64(dstH) / float64(srcH)
	scale := scaleW
	if scaleH > scale {
		scale = scaleH
	}
	cropW := int(float64(dstW) / scale)
	cropH := int(float64(dstH) / scale)
	cropX := sb.Min.X + (srcW-cropW)/2
	cropY := sb.Min.Y + (srcH-cropH)/2

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			srcX := cropX + x*cropW/dstW
			srcY := cropY + y*cropH/dstH
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}

// fillRoundedRect fills box with c, rounding the corners with radius r.
func fillRoundedRect(dst *image.RGBA, box Box, r int, c color.RGBA) {
	mask := roundedRectMask(box.W, box.H, r)
	rect := image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H)
	draw.DrawMask(dst, rect, &image.Uniform{c}, image.Point{}, mask, image.Point{}, draw.Over)
}

// roundedRectMask builds an alpha mask that is opaque inside a rounded
// rectangle of the given size.
func roundedRectMask(w, h, r int) *image.Alpha {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if insideRounded(x, y, w, h, r) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}

func insideRounded(x, y, w, h, r int) bool {
	if x >= r && x < w-r {
		return true
	}
	if y >= r && y < h-r {
		return true
	}
	cx, cy := r, r
	if x >= w-r {
		cx = w - r - 1
	}
	if y >= h-r {
		cy = h - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// rampReveal maps overall slide progress onto a [0,1] reveal fraction
// that ramps linearly between start and end.
func rampReveal(progress, start, end float64) float64 {
	if end <= start {
		return 1
	}
	return clamp01((progress - start) / (end - start))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
