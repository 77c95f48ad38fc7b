package slidecast

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"
)

// VideoOptions configures a full deck export.
type VideoOptions struct {
	Orientation Orientation
	Theme       Theme
	FPS         int // defaults to 30
	// FadeFrames is the length of the cross-fade inserted between
	// consecutive slides. Fades never run before the first slide or
	// after the last one.
	FadeFrames int
	// Pacing optionally throttles frame production for callers that
	// mirror frames to a live preview. Zero renders as fast as the
	// encoder accepts frames.
	Pacing time.Duration
	// OnProgress receives whole percentages in [0,100]. Values are
	// strictly increasing across calls; repeated percentages are
	// swallowed.
	OnProgress func(percent int)
	Token      *CancelToken
}

// VideoResult is a finished export.
type VideoResult struct {
	Data   []byte
	MIME   string
	Frames int
}

const defaultFPS = 30

// ExportVideo renders the deck into a video. Each slide contributes
// ceil(duration*fps) frames with per-slide progress advancing from 0 to
// exactly 1, so the last frame of every slide is its fully revealed
// still. Cancellation is checked before every frame; an aborted export
// returns an abort error and no bytes.
func ExportVideo(ctx context.Context, fr *FrameRenderer, deck []Slide, opts VideoOptions) (*VideoResult, error) {
	if len(deck) == 0 {
		return nil, RenderError("empty deck", nil)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	w, h := opts.Orientation.Dimensions()

	enc, err := NewEncoder(EncoderConfig{Width: w, Height: h, FPS: fps})
	if err != nil {
		return nil, err
	}
	rec := StartRecording(enc)

	totalFrames := 0
	slideFrames := make([]int, len(deck))
	for i, s := range deck {
		slideFrames[i] = framesFor(s, fps)
		totalFrames += slideFrames[i]
	}
	if opts.FadeFrames > 0 {
		totalFrames += opts.FadeFrames * (len(deck) - 1)
	}

	log().Info().
		Int("slides", len(deck)).
		Int("fps", fps).
		Int("frames", totalFrames).
		Str("orientation", string(opts.Orientation)).
		Msg("exporting video")

	prog := progressReporter{total: totalFrames, fn: opts.OnProgress, last: -1}
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	next := image.NewRGBA(image.Rect(0, 0, w, h))
	blend := image.NewRGBA(image.Rect(0, 0, w, h))

	emit := func(img *image.RGBA) error {
		if err := checkAbort(ctx, opts.Token); err != nil {
			return err
		}
		if err := rec.AddFrame(img); err != nil {
			return err
		}
		prog.step()
		if opts.Pacing > 0 {
			select {
			case <-time.After(opts.Pacing):
			case <-opts.Token.Done():
			case <-ctx.Done():
			}
		}
		return nil
	}

	frameOpts := FrameOptions{Orientation: opts.Orientation, Theme: opts.Theme}

	for i, slide := range deck {
		n := slideFrames[i]
		for f := 0; f < n; f++ {
			frameOpts.Progress = frameProgress(f, n)
			if err := fr.RenderFrame(ctx, slide, frame, frameOpts); err != nil {
				rec.Abort()
				return nil, err
			}
			if err := emit(frame); err != nil {
				rec.Abort()
				return nil, err
			}
		}

		// Cross-fade into the next slide's opening frame.
		if opts.FadeFrames > 0 && i+1 < len(deck) {
			nextOpts := frameOpts
			nextOpts.Progress = 0
			if err := fr.RenderFrame(ctx, deck[i+1], next, nextOpts); err != nil {
				rec.Abort()
				return nil, err
			}
			for f := 1; f <= opts.FadeFrames; f++ {
				alpha := float64(f) / float64(opts.FadeFrames+1)
				crossFade(blend, frame, next, alpha)
				if err := emit(blend); err != nil {
					rec.Abort()
					return nil, err
				}
			}
		}
	}

	data, mime, err := rec.Stop()
	if err != nil {
		return nil, err
	}
	prog.finish()
	return &VideoResult{Data: data, MIME: mime, Frames: totalFrames}, nil
}

// framesFor is the slide's frame budget: ceil(duration * fps), never
// fewer than one frame.
func framesFor(s Slide, fps int) int {
	d := s.Duration
	if d <= 0 {
		d = DefaultSlideDuration
	}
	n := int(math.Ceil(d.Seconds() * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// frameProgress maps frame index to [0,1] so the final frame always
// lands on exactly 1. A single-frame slide shows its finished still.
func frameProgress(f, n int) float64 {
	if n <= 1 {
		return 1
	}
	return float64(f) / float64(n-1)
}

func checkAbort(ctx context.Context, token *CancelToken) error {
	if token.Cancelled() {
		return AbortError("export cancelled", nil)
	}
	if err := ctx.Err(); err != nil {
		return AbortError("export cancelled", err)
	}
	return nil
}

// crossFade writes a*(1-alpha) + b*alpha into dst using a uniform
// alpha mask, all three images sharing the same bounds.
func crossFade(dst, a, b *image.RGBA, alpha float64) {
	draw.Draw(dst, dst.Bounds(), a, a.Bounds().Min, draw.Src)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(dst, dst.Bounds(), b, b.Bounds().Min, mask, image.Point{}, draw.Over)
}

// progressReporter collapses frame counts into strictly increasing
// whole percentages.
type progressReporter struct {
	total int
	count int
	last  int
	fn    func(int)
}

func (p *progressReporter) step() {
	p.count++
	if p.fn == nil || p.total == 0 {
		return
	}
	pct := p.count * 100 / p.total
	if pct > 100 {
		pct = 100
	}
	if pct > p.last {
		p.last = pct
		p.fn(pct)
	}
}

func (p *progressReporter) finish() {
	if p.fn != nil && p.last < 100 {
		p.last = 100
		p.fn(100)
	}
}
