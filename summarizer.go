package slidecast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
)

// SummarizeRequest carries the document-derived prompt plus deck hints.
type SummarizeRequest struct {
	Prompt      string
	SlideCount  int
	Orientation Orientation
	Layout      string
}

// SlideCandidate is one raw record proposed by the summarizer, before
// normalization into the canonical schema. All fields are free text.
type SlideCandidate struct {
	ID           string
	TemplateHint string
	Headline     string
	Summary      string
	Bullets      []string
	HeroPrompt   string
	ChartHint    string
	Rationale    string
	Tone         string
}

// Summarizer abstracts the remote language model so it can be mocked.
type Summarizer interface {
	Summarize(ctx context.Context, req SummarizeRequest) ([]SlideCandidate, error)
}

// SummarizerConfig configures the OpenAI-backed summarizer.
type SummarizerConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

const defaultSummarizerModel = "gpt-4o-mini"

// OpenAISummarizer implements Summarizer using the official openai-go
// SDK (chat completions).
type OpenAISummarizer struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAISummarizer validates the config and builds a client wrapper.
func NewOpenAISummarizer(cfg SummarizerConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, ConfigError("summarizer api key missing", nil)
	}
	model := cfg.Model
	if model == "" {
		model = defaultSummarizerModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAISummarizer{model: model, opts: opts}, nil
}

const summarizerSystemPrompt = `You turn documents into concise slide decks.
Reply with ONLY a JSON object of the form:
{"slides":[{"headline":"...","summary":"...","bullets":["..."],"template":"text-image|text-image-chart|quad-grid","heroPrompt":"...","chartHint":"...","rationale":"...","tone":"..."}]}
Rules:
- Produce exactly the requested number of slides, in document order.
- Headlines under 8 words. Summaries one short paragraph. 3-4 bullets each.
- Include chartHint only when the source contains numeric series worth charting; phrase it as "Label: value" statements.
- No markdown, no commentary outside the JSON.`

func (o *OpenAISummarizer) Summarize(ctx context.Context, req SummarizeRequest) ([]SlideCandidate, error) {
	client := openai.NewClient(o.opts...)

	user := fmt.Sprintf("Target slide count: %d\nOrientation: %s\nLayout: %s\n\nDocument:\n%s",
		req.SlideCount, req.Orientation, req.Layout, req.Prompt)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summarizerSystemPrompt),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return nil, SynthesisError("summarizer call failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, SynthesisError("summarizer returned no choices", nil)
	}
	return ParseCandidates(resp.Choices[0].Message.Content)
}

// ParseCandidates extracts slide candidates from the model's reply.
// The reply is expected to be a JSON object with a top-level "slides"
// array; a missing body or missing array is a hard failure.
func ParseCandidates(raw string) ([]SlideCandidate, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return nil, SynthesisError("summarizer returned empty content", nil)
	}
	// Models occasionally wrap the JSON in a markdown fence.
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	slides := gjson.Get(body, "slides")
	if !slides.Exists() || !slides.IsArray() {
		return nil, SynthesisError("summarizer response has no slides array", errors.New(snippet(body)))
	}

	var out []SlideCandidate
	slides.ForEach(func(_, v gjson.Result) bool {
		c := SlideCandidate{
			ID:           v.Get("id").String(),
			TemplateHint: v.Get("template").String(),
			Headline:     v.Get("headline").String(),
			Summary:      v.Get("summary").String(),
			HeroPrompt:   v.Get("heroPrompt").String(),
			ChartHint:    v.Get("chartHint").String(),
			Rationale:    v.Get("rationale").String(),
			Tone:         v.Get("tone").String(),
		}
		for _, b := range v.Get("bullets").Array() {
			c.Bullets = append(c.Bullets, b.String())
		}
		out = append(out, c)
		return true
	})
	if len(out) == 0 {
		return nil, SynthesisError("summarizer response has an empty slides array", nil)
	}
	return out, nil
}

func snippet(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

// MockSummarizer produces a deterministic deck without calling any
// external model. Useful for offline runs and tests.
type MockSummarizer struct{}

func (MockSummarizer) Summarize(_ context.Context, req SummarizeRequest) ([]SlideCandidate, error) {
	n := req.SlideCount
	if n < 2 {
		n = 2
	}
	out := make([]SlideCandidate, n)
	for i := range out {
		out[i] = SlideCandidate{
			Headline:   fmt.Sprintf("Section %d", i+1),
			Summary:    fmt.Sprintf("Key points from section %d of the document.", i+1),
			Bullets:    []string{"First point: context", "Second point: detail", "Third point: outcome"},
			HeroPrompt: "abstract presentation background",
			Tone:       "neutral",
		}
	}
	return out, nil
}
