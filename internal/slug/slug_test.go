package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"display name", "Hero A", "hero-a"},
		{"section type", "how_it_works", "how-it-works"},
		{"version dots", "Pricing v2.1", "pricing-v2-1"},
		{"path separators", "acme/launch page", "acme-launch-page"},
		{"punctuation dropped", "Grow, faster!", "grow-faster"},
		{"apostrophe joins", "Don't wait", "dont-wait"},
		{"separator runs collapse", "a -- _ b", "a-b"},
		{"leading and trailing separators", "  _hero_  ", "hero"},
		{"tabs and newlines", "FAQ\tblock\nfinal", "faq-block-final"},
		{"japanese only", "ヒーローセクション", ""},
		{"mixed japanese and ascii", "LP用 Hero 2026", "lp-hero-2026"},
		{"accented letters dropped", "Café Menu", "caf-menu"},
		{"empty", "", ""},
		{"only separators", " - _ / ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	for _, input := range []string{"Hero A", "how_it_works", "LP用 Hero 2026", "a -- b"} {
		once := Generate(input)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate(Generate(%q)) = %q, want %q", input, twice, once)
		}
	}
}

func TestGenerateLength(t *testing.T) {
	got := Generate(strings.Repeat("abc-", 40))
	if len(got) > maxLen {
		t.Errorf("len = %d, want <= %d", len(got), maxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug ends with a hyphen: %q", got)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		ext      string
		want     string
	}{
		{"ascii name", "Hero A", "template", ".json", "hero-a.json"},
		{"japanese name uses fallback", "ヒーロー", "hero", ".html", "hero.html"},
		{"fallback with id", "", "template-3F2A", ".json", "template-3f2a.json"},
		{"empty fallback", "", "", ".json", "download.json"},
		{"long name truncated", strings.Repeat("abc-", 40), "x", ".html", strings.TrimRight(strings.Repeat("abc-", 20), "-") + ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.input, tt.fallback, tt.ext); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
