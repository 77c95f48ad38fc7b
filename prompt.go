package slidecast

import (
	"fmt"
	"strings"
)

// Prompt building budgets. The summarizer sees at most perPageCharBudget
// characters of any single page and promptCharBudget characters overall.
const (
	perPageCharBudget = 1600
	promptCharBudget  = 12000
)

// noReadableTextPlaceholder stands in for documents with no extractable
// text. The summarizer is still invoked so a deck is always produced.
const noReadableTextPlaceholder = "The document contains no readable text. Propose a generic slide outline for an untitled document."

// TargetSlideCount maps a document's page count to the number of slides
// to request, via a fixed step function clamped to [2,6].
func TargetSlideCount(pageCount int) int {
	var n int
	switch {
	case pageCount <= 2:
		n = 2
	case pageCount <= 5:
		n = 3
	case pageCount <= 10:
		n = 4
	case pageCount <= 18:
		n = 5
	default:
		n = 6
	}
	if n < 2 {
		n = 2
	}
	if n > 6 {
		n = 6
	}
	return n
}

// BuildDocumentPrompt concatenates per-page text, each page truncated to
// its character budget and prefixed with its page number, until the
// global budget is reached.
func BuildDocumentPrompt(pages []Page) string {
	var b strings.Builder
	hasText := false
	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		hasText = true
		if len(text) > perPageCharBudget {
			text = text[:perPageCharBudget]
		}
		entry := fmt.Sprintf("Page %d:\n%s\n\n", p.Index+1, text)
		if b.Len()+len(entry) > promptCharBudget {
			remaining := promptCharBudget - b.Len()
			if remaining > 0 {
				b.WriteString(entry[:remaining])
			}
			break
		}
		b.WriteString(entry)
	}
	if !hasText {
		return noReadableTextPlaceholder
	}
	return strings.TrimSpace(b.String())
}
