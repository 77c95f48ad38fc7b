package slidecast

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// chartPainter draws a ChartSpec into a pixel region of a frame. It is
// a thin raster layer: datasets already carry aligned labels and values,
// so the painter only scales and plots.
type chartPainter struct {
	img     *image.RGBA
	engine  *LayoutEngine
	palette Palette
}

// chartPadding is the inset between the chart box and the plot area,
// leaving room for the axis labels.
const chartPadding = 28

// DrawChart paints the spec into box on dst. Invalid specs are a no-op:
// callers treat chart absence as a degraded frame, never a failed one.
func DrawChart(dst *image.RGBA, engine *LayoutEngine, spec *ChartSpec, box Box, p Palette) {
	if spec == nil || !spec.Valid() || box.W < 4*chartPadding || box.H < 4*chartPadding {
		return
	}
	cp := &chartPainter{img: dst, engine: engine, palette: p}
	plot := Box{
		X: box.X + chartPadding,
		Y: box.Y + chartPadding/2,
		W: box.W - 2*chartPadding,
		H: box.H - 2*chartPadding,
	}

	lo, hi := valueRange(spec)
	cp.drawAxes(plot)
	switch spec.Kind {
	case ChartLine:
		cp.drawLineSeries(plot, spec, lo, hi)
	default:
		cp.drawBarSeries(plot, spec, lo, hi)
	}
	cp.drawLabels(plot, spec.Labels)
}

// valueRange spans all datasets, always including zero so bar baselines
// stay meaningful.
func valueRange(spec *ChartSpec) (lo, hi float64) {
	lo, hi = 0, 0
	for _, ds := range spec.Datasets {
		for _, v := range ds.Values {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func (cp *chartPainter) seriesColor(i int) color.RGBA {
	colors := []Color{cp.palette.Accent, cp.palette.AccentAlt, cp.palette.Muted}
	return colors[i%len(colors)].RGBA()
}

func (cp *chartPainter) drawAxes(plot Box) {
	axis := cp.palette.Muted.RGBA()
	cp.drawSegment(plot.X, plot.Y+plot.H, plot.X+plot.W, plot.Y+plot.H, axis)
	cp.drawSegment(plot.X, plot.Y, plot.X, plot.Y+plot.H, axis)
}

func (cp *chartPainter) drawLineSeries(plot Box, spec *ChartSpec, lo, hi float64) {
	n := len(spec.Labels)
	for si, ds := range spec.Datasets {
		c := cp.seriesColor(si)
		prevX, prevY := 0, 0
		for i, v := range ds.Values {
			x := plot.X + plotX(i, n, plot.W)
			y := plot.Y + plotY(v, lo, hi, plot.H)
			cp.fillDot(x, y, 3, c)
			if i > 0 {
				cp.drawSegment(prevX, prevY, x, y, c)
			}
			prevX, prevY = x, y
		}
	}
}

func (cp *chartPainter) drawBarSeries(plot Box, spec *ChartSpec, lo, hi float64) {
	n := len(spec.Labels)
	series := len(spec.Datasets)
	if n == 0 || series == 0 {
		return
	}
	groupW := plot.W / n
	barW := groupW * 6 / (series * 10)
	if barW < 2 {
		barW = 2
	}
	baseline := plot.Y + plotY(0, lo, hi, plot.H)

	for si, ds := range spec.Datasets {
		c := cp.seriesColor(si)
		for i, v := range ds.Values {
			groupX := plot.X + i*groupW + groupW/5
			x := groupX + si*barW
			y := plot.Y + plotY(v, lo, hi, plot.H)
			top, bottom := y, baseline
			if top > bottom {
				top, bottom = bottom, top
			}
			rect := image.Rect(x, top, x+barW, bottom)
			draw.Draw(cp.img, rect, &image.Uniform{c}, image.Point{}, draw.Over)
		}
	}
}

// drawLabels paints category labels under the baseline, thinned when
// they would collide.
func (cp *chartPainter) drawLabels(plot Box, labels []string) {
	n := len(labels)
	if n == 0 || cp.engine == nil {
		return
	}
	step := 1
	maxLabels := plot.W / 64
	if maxLabels < 1 {
		maxLabels = 1
	}
	for n/step > maxLabels {
		step++
	}
	style := TextStyle{
		Size:   14,
		Align:  AlignCenter,
		Color:  cp.palette.Muted.RGBA(),
		Reveal: 1,
	}
	slot := plot.W / n
	for i := 0; i < n; i += step {
		box := Box{X: plot.X + i*slot, Y: plot.Y + plot.H + 6, W: slot, H: 20}
		cp.engine.Draw(cp.img, labels[i], box, style)
	}
}

// plotX maps a category index to a horizontal offset, centering points
// inside their category slots.
func plotX(i, n, width int) int {
	if n <= 1 {
		return width / 2
	}
	slot := float64(width) / float64(n)
	return int(math.Round(slot*float64(i) + slot/2))
}

// plotY maps a value to a vertical offset from the plot top.
func plotY(v, lo, hi float64, height int) int {
	frac := (v - lo) / (hi - lo)
	y := int(math.Round(float64(height) * (1 - frac)))
	if y < 0 {
		y = 0
	}
	if y > height {
		y = height
	}
	return y
}

func (cp *chartPainter) drawSegment(x1, y1, x2, y2 int, c color.RGBA) {
	// Bresenham's line algorithm
	dx := absInt(x2 - x1)
	dy := absInt(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	e := dx - dy

	for {
		cp.setPixel(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x1 += sx
		}
		if e2 < dx {
			e += dx
			y1 += sy
		}
	}
}

func (cp *chartPainter) fillDot(cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				cp.setPixel(x, y, c)
			}
		}
	}
}

func (cp *chartPainter) setPixel(x, y int, c color.RGBA) {
	b := cp.img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		cp.img.SetRGBA(x, y, c)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
