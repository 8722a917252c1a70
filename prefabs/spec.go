package prefabs

import (
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/zonemusic/music"
	"github.com/milk9111/zonemusic/zone"
	"gopkg.in/yaml.v3"
)

const (
	MusicFile = "music.yaml"
	ZonesFile = "zones.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := DecodeSpec[T](data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

func DecodeSpec[T any](data []byte) (T, error) {
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// MusicSpec is the scene-wide crossfade configuration.
type MusicSpec struct {
	Rate              float64  `yaml:"rate"`
	TickMS            int      `yaml:"tick_ms"`
	PlayFirstClip     bool     `yaml:"play_first_clip"`
	FirstClips        []string `yaml:"first_clips"`
	FirstLevel        float64  `yaml:"first_level"`
	ReturnToFirstClip bool     `yaml:"return_to_first_clip"`
	// Background is the clip of the persistent base music source, if any.
	Background string `yaml:"background"`
}

// Settings converts the preset. The persistent source needs a live output, so
// the host fills Settings.Persistent itself from Background.
func (s MusicSpec) Settings() music.Settings {
	return music.Settings{
		Rate:              s.Rate,
		TickInterval:      time.Duration(s.TickMS) * time.Millisecond,
		PlayFirstClip:     s.PlayFirstClip,
		FirstClips:        toClips(s.FirstClips),
		FirstLevel:        s.FirstLevel,
		ReturnToFirstClip: s.ReturnToFirstClip,
	}
}

func LoadMusicSpec() (*MusicSpec, error) {
	spec, err := LoadSpec[MusicSpec](MusicFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ZoneSpec is one music zone preset.
type ZoneSpec struct {
	Name   string   `yaml:"name"`
	Volume *float64 `yaml:"volume"`
	Clips  []string `yaml:"clips"`
	Rect   RectSpec `yaml:"rect"`
	Tag    string   `yaml:"tag"`
	Layer  string   `yaml:"layer"`
	// Script is a path under prefabs/scripts to a tengo filter.
	Script string `yaml:"script"`
}

type ZoneSetSpec struct {
	Zones []ZoneSpec `yaml:"zones"`
}

// Specs resolves the presets into trigger specs, loading filter scripts.
// Volume defaults to 1 when omitted.
func (s ZoneSetSpec) Specs() ([]zone.Spec, error) {
	out := make([]zone.Spec, 0, len(s.Zones))
	for i, z := range s.Zones {
		name := strings.TrimSpace(z.Name)
		if name == "" {
			name = fmt.Sprintf("zone_%d", i)
		}
		volume := 1.0
		if z.Volume != nil {
			volume = *z.Volume
		}

		var script string
		if strings.TrimSpace(z.Script) != "" {
			b, err := LoadScript(z.Script)
			if err != nil {
				return nil, fmt.Errorf("prefabs: zone %q script %s: %w", name, z.Script, err)
			}
			script = string(b)
		}

		out = append(out, zone.Spec{
			Name:   name,
			Volume: volume,
			Clips:  toClips(z.Clips),
			Bounds: zone.Rect{X: z.Rect.X, Y: z.Rect.Y, Width: z.Rect.Width, Height: z.Rect.Height},
			Tag:    z.Tag,
			Layer:  z.Layer,
			Script: script,
		})
	}
	return out, nil
}

func LoadZones(filename string) ([]zone.Spec, error) {
	if filename == "" {
		filename = ZonesFile
	}
	set, err := LoadSpec[ZoneSetSpec](filename)
	if err != nil {
		return nil, err
	}
	return set.Specs()
}

// TimelineSpec is a scripted sequence of zone crossings for fadesim.
type TimelineSpec struct {
	Events []TimelineEvent `yaml:"events"`
}

type TimelineEvent struct {
	At    float64 `yaml:"at"`
	Enter string  `yaml:"enter"`
	Exit  string  `yaml:"exit"`
}

func toClips(paths []string) []music.Clip {
	clips := make([]music.Clip, 0, len(paths))
	for _, p := range paths {
		clips = append(clips, music.Clip(strings.TrimSpace(p)))
	}
	return clips
}
