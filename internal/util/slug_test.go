package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Raduno Madonnina 2026", "raduno-madonnina-2026"},
		{"italian accents", "Perché è già così", "perche-e-gia-cosi"},
		{"french", "À propos de nous", "a-propos-de-nous"},
		{"punctuation", "Chi siamo? Il Consiglio!", "chi-siamo-il-consiglio"},
		{"cyrillic transliterated", "Привет", "privet"},
		{"german sharp s", "Straße", "strasse"},
		{"surrounding junk", "  --Eventi--  ", "eventi"},
		{"underscore becomes hyphen", "foto_2025", "foto-2025"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"About Us", "about-us"},
		{"Événements passés", "evenements-passes"},
		{"_", "_"},
		{"!!!", DefaultSlug},
		{"", DefaultSlug},
	}

	for _, tt := range tests {
		if got := SanitizeSlug(tt.input); got != tt.want {
			t.Errorf("SanitizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncateSlug(t *testing.T) {
	tests := []struct {
		slug string
		max  int
		want string
	}{
		{"raduno-madonnina", 100, "raduno-madonnina"},
		{"raduno-madonnina", 7, "raduno"},
		{"raduno-madonnina", 6, "raduno"},
		{"abc", 0, "abc"},
	}

	for _, tt := range tests {
		if got := TruncateSlug(tt.slug, tt.max); got != tt.want {
			t.Errorf("TruncateSlug(%q, %d) = %q, want %q", tt.slug, tt.max, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"chi-siamo", true},
		{"foto_2025", true},
		{"", false},
		{"-eventi", false},
		{"eventi-", false},
		{"chi--siamo", false},
		{"Chi-Siamo", false},
		{"chi siamo", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
