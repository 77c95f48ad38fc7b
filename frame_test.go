package slidecast

import (
	"context"
	"image"
	"testing"
)

func testFrame(t *testing.T, slide Slide, opts FrameOptions) *image.RGBA {
	t.Helper()
	w, h := opts.Orientation.Dimensions()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	fr := NewFrameRenderer(NewLayoutEngine(nil), nil)
	if err := fr.RenderFrame(context.Background(), slide, dst, opts); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	return dst
}

func TestRenderFrameBackground(t *testing.T) {
	slide := Normalize(Slide{Headline: "Title", Summary: "Body"})
	dst := testFrame(t, slide, FrameOptions{Orientation: OrientationLandscape, Theme: ThemeDark, Progress: 1})

	want := ThemeDark.Palette().Background.RGBA()
	if got := dst.RGBAAt(2, 2); got != want {
		t.Errorf("corner pixel = %v, want theme background %v", got, want)
	}
}

func TestRenderFrameTemplates(t *testing.T) {
	chart := &ChartSpec{
		Kind:     ChartBar,
		Labels:   []string{"a", "b", "c"},
		Datasets: []Dataset{{Label: "s", Values: []float64{3, 1, 2}}},
	}
	slides := []Slide{
		{Template: TemplateTextImage, Headline: "Plain", Summary: "text", Bullets: []string{"one", "two", "three"}},
		{Template: TemplateTextImageChart, Headline: "Charted", Chart: chart, ChartEnabled: true},
		{Template: TemplateQuadGrid, Headline: "Grid", Bullets: []string{"A: a", "B: b", "C: c", "D: d"}},
	}
	for _, orient := range []Orientation{OrientationLandscape, OrientationPortrait} {
		for _, s := range slides {
			testFrame(t, Normalize(s), FrameOptions{Orientation: orient, Theme: ThemeLight, Progress: 0.5})
		}
	}
}

func TestRenderFrameDegradesWithoutChartData(t *testing.T) {
	// Chart template with no spec: panel renders empty, no error.
	slide := Slide{Template: TemplateTextImageChart, Headline: "No data"}
	testFrame(t, Normalize(slide), FrameOptions{Orientation: OrientationLandscape, Progress: 1})
}

func TestSplitBullet(t *testing.T) {
	tests := []struct {
		in, title, body string
	}{
		{"Speed: ships in two days", "Speed", "ships in two days"},
		{"Reach - three new regions", "Reach", "three new regions"},
		{"Short one", "Short one", ""},
		{"The first three words then more detail", "The first three", "words then more detail"},
		{"", "", ""},
	}
	for _, tt := range tests {
		title, body := splitBullet(tt.in)
		if title != tt.title || body != tt.body {
			t.Errorf("splitBullet(%q) = (%q, %q), want (%q, %q)", tt.in, title, body, tt.title, tt.body)
		}
	}
}

func TestCoverImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := coverImage(src, 40, 40)
	b := out.Bounds()
	if b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("cover output %dx%d, want 40x40", b.Dx(), b.Dy())
	}
}

func TestRoundedRectMaskCorners(t *testing.T) {
	mask := roundedRectMask(40, 40, 10)
	if mask.AlphaAt(0, 0).A != 0 {
		t.Error("corner pixel should be outside the rounded rect")
	}
	if mask.AlphaAt(20, 20).A != 255 {
		t.Error("center pixel should be inside")
	}
	if mask.AlphaAt(20, 0).A != 255 {
		t.Error("edge midpoint should be inside")
	}
}

func TestRampReveal(t *testing.T) {
	if got := rampReveal(0, 0, 0.25); got != 0 {
		t.Errorf("start = %v", got)
	}
	if got := rampReveal(0.25, 0, 0.25); got != 1 {
		t.Errorf("end = %v", got)
	}
	if got := rampReveal(1, 0, 0.25); got != 1 {
		t.Errorf("past end = %v", got)
	}
	if got := rampReveal(0.125, 0, 0.25); got != 0.5 {
		t.Errorf("midpoint = %v", got)
	}
}

func TestKenBurnsEndsAtRest(t *testing.T) {
	// At progress 1 the zoom factor is exactly 1: the hero fills the
	// panel with no crop drift between the preview still and the last
	// export frame.
	hero := image.NewRGBA(image.Rect(0, 0, 64, 64))
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	drawKenBurns(dst, hero, Box{X: 10, Y: 10, W: 80, H: 80}, 1)
	drawKenBurns(dst, hero, Box{X: 10, Y: 10, W: 80, H: 80}, 0)
}
