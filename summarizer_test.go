package slidecast

import "testing"

func TestParseCandidates(t *testing.T) {
	raw := `{"slides":[
		{"headline":"H1","summary":"S1","bullets":["a","b","c"],"template":"text-image","heroPrompt":"p1","tone":"upbeat"},
		{"headline":"H2","summary":"S2","bullets":["d"],"chartHint":"X: 1. Y: 2. Z: 3."}
	]}`
	out, err := ParseCandidates(raw)
	if err != nil {
		t.Fatalf("ParseCandidates: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
	if out[0].Headline != "H1" || out[0].TemplateHint != "text-image" || out[0].Tone != "upbeat" {
		t.Errorf("candidate 0 = %+v", out[0])
	}
	if len(out[0].Bullets) != 3 {
		t.Errorf("candidate 0 bullets = %v", out[0].Bullets)
	}
	if out[1].ChartHint == "" {
		t.Error("chart hint dropped")
	}
}

func TestParseCandidatesFenced(t *testing.T) {
	raw := "```json\n{\"slides\":[{\"headline\":\"H\"}]}\n```"
	out, err := ParseCandidates(raw)
	if err != nil {
		t.Fatalf("fenced JSON should parse: %v", err)
	}
	if len(out) != 1 || out[0].Headline != "H" {
		t.Errorf("got %+v", out)
	}
}

func TestParseCandidatesFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"no slides key", `{"decks":[]}`},
		{"slides not array", `{"slides":"nope"}`},
		{"empty array", `{"slides":[]}`},
		{"prose", "I could not produce slides."},
	}
	for _, tt := range cases {
		out, err := ParseCandidates(tt.raw)
		if err == nil {
			t.Errorf("%s: expected error, got %+v", tt.name, out)
			continue
		}
		if !IsKind(err, KindSynthesis) {
			t.Errorf("%s: error should be synthesis-classified, got %v", tt.name, err)
		}
	}
}
