package slidecast

import (
	"context"
	"fmt"
	"strings"
)

// SynthesisInput carries everything the pipeline needs for one run.
type SynthesisInput struct {
	Pages       []Page
	Orientation Orientation
	Layout      string
	Tables      []ImportedTable
}

// Synthesize turns a document into a full, normalized deck: build a
// bounded prompt, call the summarizer once, normalize every candidate
// into the canonical schema and attach chart specs and provenance.
//
// Failure is all-or-nothing: any summarizer error is wrapped and
// propagated, and no partial deck is ever returned — callers keep their
// prior state on error.
func Synthesize(ctx context.Context, s Summarizer, in SynthesisInput) ([]Slide, error) {
	count := TargetSlideCount(len(in.Pages))
	prompt := BuildDocumentPrompt(in.Pages)

	log().Info().
		Int("pages", len(in.Pages)).
		Int("target_slides", count).
		Int("prompt_chars", len(prompt)).
		Msg("synthesizing deck")

	candidates, err := s.Summarize(ctx, SummarizeRequest{
		Prompt:      prompt,
		SlideCount:  count,
		Orientation: in.Orientation,
		Layout:      in.Layout,
	})
	if err != nil {
		if IsKind(err, KindSynthesis) {
			return nil, err
		}
		return nil, SynthesisError("summarizer failed", err)
	}

	chunks := chunkPages(len(in.Pages), len(candidates))
	deck := make([]Slide, len(candidates))
	for i, c := range candidates {
		deck[i] = buildSlide(c, chunks[i], in)
	}
	return NormalizeDeck(deck), nil
}

// chunkPages partitions page indices [0,n) into k contiguous, roughly
// equal chunks, one per candidate in order. Purely positional: the
// mapping does not try to align the model's topic boundaries with page
// boundaries. When n < k, chunks repeat the nearest page.
func chunkPages(n, k int) [][]int {
	if k <= 0 {
		return nil
	}
	out := make([][]int, k)
	if n <= 0 {
		return out
	}
	for i := 0; i < k; i++ {
		start := i * n / k
		end := (i + 1) * n / k
		if end <= start {
			if start >= n {
				start = n - 1
			}
			end = start + 1
		}
		pages := make([]int, 0, end-start)
		for p := start; p < end; p++ {
			pages = append(pages, p)
		}
		out[i] = pages
	}
	return out
}

// buildSlide normalizes one candidate: sanitize copy, resolve the
// template, attach a chart spec when charting resolved, and default the
// hero prompt.
func buildSlide(c SlideCandidate, sourcePages []int, in SynthesisInput) Slide {
	headline := SanitizeText(c.Headline)
	summary := SanitizeText(c.Summary)
	bullets := make([]string, 0, len(c.Bullets))
	for _, b := range c.Bullets {
		bullets = append(bullets, SanitizeText(b))
	}

	sourceText := chunkText(in.Pages, sourcePages)
	template := resolveTemplate(c)

	slide := Slide{
		Template:    template,
		Headline:    headline,
		Summary:     summary,
		Bullets:     bullets,
		HeroPrompt:  SanitizeText(c.HeroPrompt),
		SourcePages: sourcePages,
		SourceText:  sourceText,
		Duration:    DefaultSlideDuration,
	}

	if template == TemplateTextImageChart {
		spec := detectForSlide(c, summary, bullets, sourceText, in.Tables)
		if spec != nil {
			slide.Chart = spec
			slide.ChartEnabled = true
			slide.ChartRationale = SanitizeText(spec.Rationale)
		} else {
			// Chart-hinted but no numeric signal anywhere: fall back
			// to the plain template.
			slide.Template = TemplateTextImage
		}
	}

	if slide.HeroPrompt == "" {
		slide.HeroPrompt = defaultHeroPrompt(headline, c.Tone)
	}
	return slide
}

/// detectForSlide tries chart sources in order of specificity: the
// model's chart hint, then the slide's own copy, then the source chunk,
// each alongside any imported tables.
func detectForSlide(c SlideCandidate, summary string, bullets []string, sourceText string, tables []ImportedTable) *ChartSpec {
	if spec := DetectChartSpec(c.ChartHint, tables); spec != nil {
		return spec
	}
	combined := summary + "\n" + strings.Join(bullets, "\n")
	if spec := DetectChartSpec(combined, tables); spec != nil {
		return spec
	}
	return DetectChartSpec(sourceText, tables)
}

func resolveTemplate(c SlideCandidate) Template {
	if hint := Template(strings.TrimSpace(c.TemplateHint)); knownTemplate(hint) {
		return hint
	}
	if strings.TrimSpace(c.ChartHint) != "" {
		return TemplateTextImageChart
	}
	if len(c.Bullets) >= 4 {
		return TemplateQuadGrid
	}
	return TemplateTextImage
}

func defaultHeroPrompt(headline, tone string) string {
	headline = strings.TrimSpace(headline)
	tone = strings.TrimSpace(tone)
	switch {
	case headline != "" && tone != "":
		return fmt.Sprintf("%s, %s style illustration", headline, tone)
	case headline != "":
		return fmt.Sprintf("%s, editorial illustration", headline)
	default:
		return "abstract presentation background"
	}
}

func chunkText(pages []Page, indices []int) string {
	var b strings.Builder
	for _, i := range indices {
		if i < 0 || i >= len(pages) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pages[i].Text)
	}
	return b.String()
}
