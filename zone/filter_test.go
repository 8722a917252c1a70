package zone

import "testing"

func TestFilterAllow(t *testing.T) {
	player := &Actor{Name: "hero", Tag: "player", Layer: "music"}
	enemy := &Actor{Name: "slime", Tag: "enemy", Layer: "default"}

	cases := []struct {
		name   string
		tag    string
		layer  string
		script string
		actor  *Actor
		want   bool
	}{
		{"no_filter", "", "", "", enemy, true},
		{"tag_match", "player", "", "", player, true},
		{"tag_mismatch", "player", "", "", enemy, false},
		{"layer_match", "", "music", "", player, true},
		{"layer_mismatch", "", "music", "", enemy, false},
		{"tag_and_layer", "player", "music", "", player, true},
		{"script_allows", "", "", `allow := tag == "player"`, player, true},
		{"script_denies", "", "", `allow := tag == "player"`, enemy, false},
		{"script_uses_zone", "", "", `allow := zone == "forest" && actor == "hero"`, player, true},
		{"script_stdlib", "", "", "text := import(\"text\")\nallow := text.has_prefix(layer, \"mus\")", player, true},
		{"tag_checked_before_script", "player", "", `allow := true`, enemy, false},
		{"nil_actor", "", "", "", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, err := NewFilter(c.tag, c.layer, c.script)
			if err != nil {
				t.Fatalf("NewFilter: %v", err)
			}
			got, err := f.Allow(c.actor, "forest")
			if err != nil {
				t.Fatalf("Allow: %v", err)
			}
			if got != c.want {
				t.Fatalf("Allow = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFilterRejectsBadScripts(t *testing.T) {
	for _, script := range []string{
		`allow := `,
		`x := 1`,
	} {
		if _, err := NewFilter("", "", script); err == nil {
			t.Fatalf("expected error for script %q", script)
		}
	}
}
