package assets

import "testing"

func TestCleanAssetPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"music/forest.wav", "music/forest.wav"},
		{"assets/music/forest.wav", "music/forest.wav"},
		{"/home/me/game/assets/music/cave.wav", "music/cave.wav"},
		{"/tmp/cave.wav", "cave.wav"},
	}
	for _, c := range cases {
		if got := cleanAssetPath(c.in); got != c.want {
			t.Fatalf("cleanAssetPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("music/does_not_exist.wav"); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}
