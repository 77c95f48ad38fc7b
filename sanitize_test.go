package slidecast

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Quarterly revenue grew", "Quarterly revenue grew"},
		{"bare url", "See https://example.com/report for details", "See for details"},
		{"www url", "Visit www.example.com today", "Visit today"},
		{"bracketed", "Growth [https://cdn.example.com/img.png] continued", "Growth continued"},
		{"parenthetical", "Margins improved (see http://example.com)", "Margins improved"},
		{"image label", "Image URL: a city skyline at dusk", "a city skyline at dusk"},
		{"hero prompt label", "Hero image prompt: abstract gradient", "abstract gradient"},
		{"whitespace", "too   many\n\nspaces", "too many spaces"},
		{"edge punctuation", " - trailing dash - ", "trailing dash"},
		{"empty", "", ""},
		{"only url", "https://example.com", ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("%s: SanitizeText(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestSanitizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"See https://example.com now",
		"Image URL: skyline",
		"plain   text",
	}
	for _, in := range inputs {
		once := SanitizeText(in)
		if twice := SanitizeText(once); twice != once {
			t.Errorf("SanitizeText not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitizeForExport(t *testing.T) {
	s := Slide{
		Template: TemplateTextImage,
		Headline: "Revenue https://example.com/x",
		Summary:  "Image URL: margins improved",
		Bullets:  []string{"First: see www.example.com", "Second"},
	}
	out := SanitizeForExport(s)

	if out.Headline != "Revenue" {
		t.Errorf("headline = %q", out.Headline)
	}
	if out.Summary != "margins improved" {
		t.Errorf("summary = %q", out.Summary)
	}
	if out.Bullets[0] != "First: see" {
		t.Errorf("bullet = %q", out.Bullets[0])
	}
	if len(out.Bullets) != 3 {
		t.Errorf("sanitize must normalize too: got %d bullets", len(out.Bullets))
	}
	// Input untouched.
	if s.Headline != "Revenue https://example.com/x" {
		t.Error("SanitizeForExport mutated its input")
	}
}
