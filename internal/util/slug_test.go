package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"section name", "Spring Sale Hero", "spring-sale-hero"},
		{"punctuation stripped", "New Arrivals: Shoes & Bags!", "new-arrivals-shoes-bags"},
		{"numbers kept", "Top 10 Deals", "top-10-deals"},
		{"accents folded", "Été Précommande", "ete-precommande"},
		{"runs of spaces", "Holiday   Gift  Guide", "holiday-gift-guide"},
		{"existing hyphens", "Back - To - School", "back-to-school"},
		{"surrounding whitespace", "  Clearance Rack  ", "clearance-rack"},
		{"symbols only", "!@#$%^&*()", ""},
		{"cyrillic transliterated", "Новая Коллекция", "novaia-kollektsiia"},
		{"umlauts transliterated", "Frühjahrs Angebote", "fruhjahrs-angebote"},
		{"empty", "", ""},
		{"single word", "Featured", "featured"},
		{"mixed case", "FlAsH SaLe", "flash-sale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"spring-sale-hero", true},
		{"top-10-deals", true},
		{"featured", true},
		{"2026", true},
		{"", false},
		{"Spring-Sale", false},
		{"spring sale", false},
		{"spring!sale", false},
		{"-spring", false},
		{"spring-", false},
		{"spring--sale", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
