package slidecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTargetSlideCount(t *testing.T) {
	tests := []struct{ pages, want int }{
		{0, 2},
		{1, 2},
		{2, 2},
		{5, 3},
		{10, 4},
		{18, 5},
		{30, 6},
		{500, 6},
	}
	for _, tt := range tests {
		if got := TargetSlideCount(tt.pages); got != tt.want {
			t.Errorf("TargetSlideCount(%d) = %d, want %d", tt.pages, got, tt.want)
		}
	}
}

func TestBuildDocumentPrompt(t *testing.T) {
	pages := []Page{
		{Index: 0, Text: "First page body."},
		{Index: 1, Text: ""},
		{Index: 2, Text: "Third page body."},
	}
	prompt := BuildDocumentPrompt(pages)
	if !strings.Contains(prompt, "Page 1:") || !strings.Contains(prompt, "Page 3:") {
		t.Errorf("prompt missing page markers:\n%s", prompt)
	}
	if strings.Contains(prompt, "Page 2:") {
		t.Error("empty pages must be skipped")
	}
}

func TestBuildDocumentPromptBudgets(t *testing.T) {
	long := strings.Repeat("x", perPageCharBudget*2)
	var pages []Page
	for i := 0; i < 20; i++ {
		pages = append(pages, Page{Index: i, Text: long})
	}
	prompt := BuildDocumentPrompt(pages)
	if len(prompt) > promptCharBudget {
		t.Errorf("prompt length %d exceeds global budget %d", len(prompt), promptCharBudget)
	}
}

func TestBuildDocumentPromptNoText(t *testing.T) {
	prompt := BuildDocumentPrompt([]Page{{Index: 0, Text: "  "}})
	if prompt != noReadableTextPlaceholder {
		t.Errorf("empty document should use the placeholder, got %q", prompt)
	}
}

func TestChunkPages(t *testing.T) {
	tests := []struct {
		n, k int
	}{
		{10, 4},
		{4, 4},
		{1, 3},
		{0, 2},
		{7, 2},
	}
	for _, tt := range tests {
		chunks := chunkPages(tt.n, tt.k)
		if len(chunks) != tt.k {
			t.Fatalf("chunkPages(%d,%d): got %d chunks", tt.n, tt.k, len(chunks))
		}
		if tt.n == 0 {
			continue
		}
		// Every chunk non-empty, pages in range and non-decreasing.
		covered := map[int]bool{}
		for i, c := range chunks {
			if len(c) == 0 {
				t.Errorf("chunkPages(%d,%d): chunk %d empty", tt.n, tt.k, i)
			}
			for _, p := range c {
				if p < 0 || p >= tt.n {
					t.Errorf("chunkPages(%d,%d): page %d out of range", tt.n, tt.k, p)
				}
				covered[p] = true
			}
		}
		if tt.n >= tt.k && len(covered) != tt.n {
			t.Errorf("chunkPages(%d,%d): only %d pages covered", tt.n, tt.k, len(covered))
		}
	}
}

func TestSynthesizeWithMock(t *testing.T) {
	pages := make([]Page, 6)
	for i := range pages {
		pages[i] = Page{Index: i, Text: fmt.Sprintf("Page %d content.", i+1)}
	}
	deck, err := Synthesize(context.Background(), MockSummarizer{}, SynthesisInput{Pages: pages})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(deck) != TargetSlideCount(len(pages)) {
		t.Fatalf("deck has %d slides, want %d", len(deck), TargetSlideCount(len(pages)))
	}
	for i, s := range deck {
		if s.ID == "" {
			t.Errorf("slide %d missing ID", i)
		}
		if len(s.Bullets) != s.Template.BulletCapacity() {
			t.Errorf("slide %d has %d bullets for template %s", i, len(s.Bullets), s.Template)
		}
		if len(s.SourcePages) == 0 {
			t.Errorf("slide %d has no source pages", i)
		}
		if s.Duration != DefaultSlideDuration {
			t.Errorf("slide %d duration %v", i, s.Duration)
		}
		if s.HeroPrompt == "" {
			t.Errorf("slide %d missing hero prompt", i)
		}
	}
}

func TestSynthesizeSinglePageNoText(t *testing.T) {
	deck, err := Synthesize(context.Background(), MockSummarizer{}, SynthesisInput{
		Pages: []Page{{Index: 0, Text: ""}},
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(deck) != 2 {
		t.Fatalf("one-page document should still yield a full deck, got %d slides", len(deck))
	}
	for i, s := range deck {
		if len(s.SourcePages) != 1 || s.SourcePages[0] != 0 {
			t.Errorf("slide %d sourcePages = %v, want [0]", i, s.SourcePages)
		}
	}
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, SummarizeRequest) ([]SlideCandidate, error) {
	return nil, errors.New("model unavailable")
}

func TestSynthesizeAllOrNothing(t *testing.T) {
	deck, err := Synthesize(context.Background(), failingSummarizer{}, SynthesisInput{
		Pages: []Page{{Index: 0, Text: "content"}},
	})
	if err == nil {
		t.Fatal("expected an error from the failing summarizer")
	}
	if !IsKind(err, KindSynthesis) {
		t.Errorf("error should be classified as synthesis, got %v", err)
	}
	if deck != nil {
		t.Error("no partial deck may be returned on failure")
	}
}

type chartHintSummarizer struct{ hint string }

func (c chartHintSummarizer) Summarize(context.Context, SummarizeRequest) ([]SlideCandidate, error) {
	return []SlideCandidate{
		{Headline: "Numbers", Summary: "s", Bullets: []string{"a", "b", "c"}, ChartHint: c.hint},
		{Headline: "Prose", Summary: "s", Bullets: []string{"a", "b", "c"}},
	}, nil
}

func TestSynthesizeChartHint(t *testing.T) {
	deck, err := Synthesize(context.Background(),
		chartHintSummarizer{hint: "Revenue: 10. Cost: 4. Profit: 6."},
		SynthesisInput{Pages: []Page{{Index: 0, Text: "content"}}})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if deck[0].Template != TemplateTextImageChart {
		t.Errorf("chart-hinted slide got template %s", deck[0].Template)
	}
	if deck[0].Chart == nil || !deck[0].ChartEnabled {
		t.Error("chart-hinted slide with numeric signal should carry an enabled chart")
	}
	if deck[0].ChartRationale == "" {
		t.Error("chart rationale missing")
	}
	if deck[1].ChartEnabled {
		t.Error("plain slide must not chart")
	}
}

func TestSynthesizeChartHintWithoutSignal(t *testing.T) {
	deck, err := Synthesize(context.Background(),
		chartHintSummarizer{hint: "trend looks good"},
		SynthesisInput{Pages: []Page{{Index: 0, Text: "no numbers anywhere"}}})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if deck[0].Template != TemplateTextImage {
		t.Errorf("hinted slide without numeric signal should fall back to text-image, got %s", deck[0].Template)
	}
	if deck[0].Chart != nil || deck[0].ChartEnabled {
		t.Error("no chart may be attached without a numeric signal")
	}
}
