package taxonomy

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain word", "Action", "action"},
		{"ampersand and punctuation", "Sci-Fi & Fantasy!", "sci-fi-fantasy"},
		{"internal whitespace", "New  Releases", "new-releases"},
		{"leading and trailing junk", "  --Top Rated--  ", "top-rated"},
		{"digits preserved", "Top 10 Picks", "top-10-picks"},
		{"already a slug", "coming-soon", "coming-soon"},
		{"only special characters", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	first := Slugify("Sci-Fi & Fantasy!")
	for i := 0; i < 5; i++ {
		if got := Slugify("Sci-Fi & Fantasy!"); got != first {
			t.Fatalf("Slugify not deterministic: %q vs %q", got, first)
		}
	}
}
