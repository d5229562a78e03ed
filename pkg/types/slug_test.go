package types

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pricing Assumption", "pricing-assumption"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"Already-Slugged", "already-slugged"},
		{"Ünïcode & symbols!", "n-code-symbols"},
		{"123 numbers first", "123-numbers-first"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
