package slidecast

import (
	"time"

	"github.com/google/uuid"
)

// Template is the structural layout variant a slide uses.
type Template string

const (
	TemplateTextImage      Template = "text-image"
	TemplateTextImageChart Template = "text-image-chart"
	TemplateQuadGrid       Template = "quad-grid"
)

// BulletCapacity returns the exact number of bullets the template renders.
func (t Template) BulletCapacity() int {
	if t == TemplateQuadGrid {
		return 4
	}
	return 3
}

// SupportsChart reports whether the template reserves a chart region.
func (t Template) SupportsChart() bool {
	return t == TemplateTextImageChart
}

func knownTemplate(t Template) bool {
	switch t {
	case TemplateTextImage, TemplateTextImageChart, TemplateQuadGrid:
		return true
	}
	return false
}

// DefaultSlideDuration is the fixed per-slide timing budget for export.
// Constant across the deck in the current design.
const DefaultSlideDuration = 8 * time.Second

// Slide is the canonical record the rest of the pipeline operates on.
type Slide struct {
	ID             string        `json:"id"`
	Template       Template      `json:"template"`
	Headline       string        `json:"headline"`
	Summary        string        `json:"summary"`
	Bullets        []string      `json:"bullets"`
	HeroPrompt     string        `json:"heroPrompt"`
	HeroImage      string        `json:"heroImage,omitempty"`
	Chart          *ChartSpec    `json:"chartSpec,omitempty"`
	ChartEnabled   bool          `json:"chartEnabled"`
	ChartRationale string        `json:"chartRationale,omitempty"`
	SourcePages    []int         `json:"sourcePages"`
	SourceText     string        `json:"-"`
	Duration       time.Duration `json:"duration"`
}

// NewSlideID returns a fresh, deck-unique slide identifier.
func NewSlideID() string {
	return uuid.NewString()
}

// Normalize enforces the slide invariants. It is pure, total and
// idempotent: Normalize(Normalize(s)) == Normalize(s) for all inputs.
//
// It clamps the template to the closed set, pads or truncates bullets to
// the template's capacity, and forces chart fields off when the template
// cannot support them.
func Normalize(s Slide) Slide {
	if !knownTemplate(s.Template) {
		s.Template = TemplateTextImage
	}
	if s.ID == "" {
		s.ID = NewSlideID()
	}
	if s.Duration <= 0 {
		s.Duration = DefaultSlideDuration
	}

	capacity := s.Template.BulletCapacity()
	bullets := make([]string, capacity)
	copy(bullets, s.Bullets)
	s.Bullets = bullets

	if !s.Template.SupportsChart() {
		s.ChartEnabled = false
	}
	if s.Chart != nil && !s.Chart.Valid() {
		s.Chart = nil
	}
	if s.Chart == nil {
		s.ChartEnabled = false
	}
	return s
}

// NormalizeDeck normalizes every slide and enforces deck-unique IDs.
// The first occurrence of an ID keeps it; later duplicates are reassigned.
func NormalizeDeck(deck []Slide) []Slide {
	out := make([]Slide, len(deck))
	seen := make(map[string]bool, len(deck))
	for i, s := range deck {
		n := Normalize(s)
		for n.ID == "" || seen[n.ID] {
			n.ID = NewSlideID()
		}
		seen[n.ID] = true
		out[i] = n
	}
	return out
}

// CloneSlide returns a deep copy so the renderer never shares backing
// arrays with the editable deck.
func CloneSlide(s Slide) Slide {
	out := s
	out.Bullets = append([]string(nil), s.Bullets...)
	out.SourcePages = append([]int(nil), s.SourcePages...)
	if s.Chart != nil {
		c := s.Chart.Clone()
		out.Chart = &c
	}
	return out
}

// CloneDeck deep-copies an entire deck.
func CloneDeck(deck []Slide) []Slide {
	out := make([]Slide, len(deck))
	for i, s := range deck {
		out[i] = CloneSlide(s)
	}
	return out
}
