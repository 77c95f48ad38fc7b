package slidecast

import (
	"regexp"
	"strings"
)

// The summarizer sometimes leaks image URLs or "Image prompt:"-style
// labels into slide copy. These patterns strip the obvious cases before
// text reaches a rendered frame. Best-effort filter, not a security
// boundary.
var (
	bracketedURLRe     = regexp.MustCompile(`\[[^\]\n]*(?:https?://|www\.)[^\]\n]*\]`)
	parentheticalURLRe = regexp.MustCompile(`\([^)\n]*(?:https?://|www\.)[^)\n]*\)`)
	bareURLRe          = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	leadingLabelRe     = regexp.MustCompile(`(?i)^\s*(?:hero\s+)?(?:image|photo|illustration|picture|graphic)?\s*(?:url|prompt|link|src)\s*[:=]\s*`)
	multiSpaceRe       = regexp.MustCompile(`\s+`)
)

// SanitizeText applies the export text filter to a single free-text
// field: drop bracketed/parenthetical URL fragments, drop bare URLs,
// drop leading "image url:"-style labels, collapse whitespace and trim
// stray edge punctuation.
func SanitizeText(s string) string {
	s = bracketedURLRe.ReplaceAllString(s, "")
	s = parentheticalURLRe.ReplaceAllString(s, "")
	s = leadingLabelRe.ReplaceAllString(s, "")
	s = bareURLRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " \t\n,;:-–—|")
	return s
}

// SanitizeForExport normalizes the slide and additionally scrubs every
// free-text field via SanitizeText. Deterministic and side-effect-free,
// so it is safe to run once per keystroke and again at export time.
func SanitizeForExport(s Slide) Slide {
	s = Normalize(CloneSlide(s))
	s.Headline = SanitizeText(s.Headline)
	s.Summary = SanitizeText(s.Summary)
	for i, b := range s.Bullets {
		s.Bullets[i] = SanitizeText(b)
	}
	s.ChartRationale = SanitizeText(s.ChartRationale)
	if s.Chart != nil {
		s.Chart.Rationale = SanitizeText(s.Chart.Rationale)
	}
	return s
}
