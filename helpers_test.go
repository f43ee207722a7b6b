package pubsite

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Web Dev  ", "web-dev"},
		{"Café au lait", "cafe-au-lait"},
		{"2018/My Trip", "2018-my-trip"},
		{"C++", "c"},
		{"Go!", "go"},
		{"Привет, мир!", "привет-мир"},
		{"Йога", "йога"},
		{"日本語", "日本語"},
		{"ガイド", "ガイド"},
		{"हिन्दी", "हिन्दी"},
		{"🎉 party", "party"},
		{"---", ""},
		{"🎉", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyKeepsScriptsApart(t *testing.T) {
	if a, b := Slugify("日本語"), Slugify("русский"); a == b {
		t.Errorf("Slugify gave %q for two different tags", a)
	}
}
