package slidecast

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"time"
)

// StoryboardSlide is one finished slide still plus its copy, packaged
// for review outside the app.
type StoryboardSlide struct {
	ID              string   `json:"id"`
	Template        Template `json:"template"`
	Headline        string   `json:"headline"`
	Summary         string   `json:"summary"`
	Bullets         []string `json:"bullets"`
	ChartEnabled    bool     `json:"chartEnabled"`
	ChartRationale  string   `json:"chartRationale,omitempty"`
	SourcePages     []int    `json:"sourcePages"`
	DurationSeconds float64  `json:"duration"`
	// DataURL is a data:image/png;base64 URL of the fully revealed frame.
	DataURL string `json:"dataUrl"`
}

// Storyboard is the JSON review artifact for a whole deck.
type Storyboard struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generatedAt"`
	SourceName  string            `json:"sourceName,omitempty"`
	Orientation Orientation       `json:"orientation"`
	Theme       Theme             `json:"theme"`
	Layout      string            `json:"layout,omitempty"`
	Slides      []StoryboardSlide `json:"slides"`
}

// BuildStoryboard renders every slide's finished still (progress 1, no
// reveal animation) and packages the deck as a storyboard.
func BuildStoryboard(ctx context.Context, fr *FrameRenderer, state State) (*Storyboard, error) {
	w, h := state.Orientation.Dimensions()
	frame := image.NewRGBA(image.Rect(0, 0, w, h))

	sb := &Storyboard{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		SourceName:  state.SourceName,
		Orientation: state.Orientation,
		Theme:       state.Theme,
		Layout:      state.Layout,
		Slides:      make([]StoryboardSlide, 0, len(state.Deck)),
	}

	opts := FrameOptions{Orientation: state.Orientation, Theme: state.Theme, Progress: 1}
	for _, slide := range state.Deck {
		if err := ctx.Err(); err != nil {
			return nil, AbortError("storyboard cancelled", err)
		}
		if err := fr.RenderFrame(ctx, slide, frame, opts); err != nil {
			return nil, err
		}
		dataURL, err := pngDataURL(frame)
		if err != nil {
			return nil, err
		}
		clean := SanitizeForExport(slide)
		sb.Slides = append(sb.Slides, StoryboardSlide{
			ID:              clean.ID,
			Template:        clean.Template,
			Headline:        clean.Headline,
			Summary:         clean.Summary,
			Bullets:         clean.Bullets,
			ChartEnabled:    clean.ChartEnabled,
			ChartRationale:  clean.ChartRationale,
			SourcePages:     clean.SourcePages,
			DurationSeconds: clean.Duration.Seconds(),
			DataURL:         dataURL,
		})
	}
	return sb, nil
}

// Marshal renders the storyboard as indented JSON.
func (sb *Storyboard) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(sb, "", "  ")
	if err != nil {
		return nil, IOError("marshal storyboard", err)
	}
	return data, nil
}

func pngDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", RenderError("png encode still", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
