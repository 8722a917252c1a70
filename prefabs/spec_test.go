package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestEmbeddedMusicSpec(t *testing.T) {
	spec, err := LoadMusicSpec()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	settings := spec.Settings()
	if settings.Rate <= 0 || settings.TickInterval != 100*time.Millisecond {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if spec.PlayFirstClip && len(settings.FirstClips) == 0 {
		t.Fatalf("play_first_clip without first_clips")
	}
}

func TestEmbeddedZones(t *testing.T) {
	specs, err := LoadZones("")
	if err != nil {
		t.Fatalf("load zones: %v", err)
	}
	if len(specs) == 0 {
		t.Fatalf("expected zones")
	}
	for _, s := range specs {
		if s.Bounds.Empty() {
			t.Fatalf("zone %s has empty bounds", s.Name)
		}
		if len(s.Clips) == 0 {
			t.Fatalf("zone %s has no clips", s.Name)
		}
	}
}

func TestZoneSetSpecDefaults(t *testing.T) {
	set, err := DecodeSpec[ZoneSetSpec]([]byte(`
zones:
  - clips: [a.wav, " b.wav "]
    rect: {x: 1, y: 2, width: 3, height: 4}
  - name: quiet
    volume: 0
    clips: [c.wav]
`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	specs, err := set.Specs()
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	if specs[0].Name != "zone_0" || specs[0].Volume != 1 || specs[0].Clips[1] != "b.wav" {
		t.Fatalf("unexpected defaults %+v", specs[0])
	}
	if specs[0].Bounds.X != 1 || specs[0].Bounds.Height != 4 {
		t.Fatalf("unexpected bounds %+v", specs[0].Bounds)
	}
	if specs[1].Volume != 0 {
		t.Fatalf("explicit zero volume should be kept, got %v", specs[1].Volume)
	}
}

func TestZoneSetSpecMissingScript(t *testing.T) {
	set := ZoneSetSpec{Zones: []ZoneSpec{{Name: "x", Script: "does_not_exist.tengo"}}}
	if _, err := set.Specs(); err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestEmbeddedScript(t *testing.T) {
	for _, name := range []string{"player_only.tengo", "scripts/player_only.tengo", "prefabs/scripts/player_only.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
	}
}

func TestDecodeTimeline(t *testing.T) {
	tl, err := DecodeSpec[TimelineSpec]([]byte("events:\n  - {at: 0, enter: meadow}\n  - {at: 1.5, exit: meadow}\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tl.Events) != 2 || tl.Events[1].At != 1.5 || tl.Events[1].Exit != "meadow" {
		t.Fatalf("unexpected timeline %+v", tl)
	}
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "zones.yaml")
	if err := os.WriteFile(target, []byte("zones: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case c := <-w.Changes:
		if c.Path != target || c.Kind != ChangeZones {
			t.Fatalf("expected zones change for %s, got %+v", target, c)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no watcher event")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		event  fsnotify.Event
		kind   ChangeKind
		report bool
	}{
		{"zones", fsnotify.Event{Name: "prefabs/zones.yaml", Op: fsnotify.Write}, ChangeZones, true},
		{"music", fsnotify.Event{Name: "prefabs/music.yaml", Op: fsnotify.Create}, ChangeMusic, true},
		{"script", fsnotify.Event{Name: "prefabs/scripts/a.tengo", Op: fsnotify.Rename}, ChangeScript, true},
		{"yml", fsnotify.Event{Name: "cave.YML", Op: fsnotify.Write}, ChangeZones, true},
		{"other_ext", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, 0, false},
		{"chmod_only", fsnotify.Event{Name: "zones.yaml", Op: fsnotify.Chmod}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := classify(tt.event)
			if ok != tt.report {
				t.Fatalf("report=%v, want %v", ok, tt.report)
			}
			if ok && c.Kind != tt.kind {
				t.Fatalf("kind=%s, want %s", c.Kind, tt.kind)
			}
		})
	}
}
