package music

import (
	"github.com/google/uuid"
	"github.com/milk9111/zonemusic/common"
)

// Voice is one playing (or fading) output.
//
// Volume is the current volume. Level is the desired level the voice rises
// to while it is the active voice; every other voice falls toward zero.
type Voice struct {
	ID         uuid.UUID
	Clip       Clip
	Volume     float64
	Level      float64
	Persistent bool
	Loop       bool

	out Output
}

// NewVoice creates a silent looping voice for clip backed by out.
func NewVoice(clip Clip, level float64, out Output) *Voice {
	return &Voice{
		ID:    uuid.New(),
		Clip:  clip,
		Level: common.Clamp01(level),
		Loop:  true,
		out:   out,
	}
}

// NewPersistentVoice wraps an externally owned output. The voice is silenced
// but never destroyed.
func NewPersistentVoice(clip Clip, level float64, out Output) *Voice {
	v := NewVoice(clip, level, out)
	v.Persistent = true
	return v
}

// Output returns the sink output backing the voice, if any.
func (v *Voice) Output() Output {
	if v == nil {
		return nil
	}
	return v.out
}

func (v *Voice) setVolume(volume float64) {
	v.Volume = common.Clamp01(volume)
	if v.out != nil {
		v.out.SetVolume(v.Volume)
	}
}

func (v *Voice) start() {
	if v.out == nil {
		return
	}
	v.out.SetLoop(v.Loop)
	v.out.SetVolume(v.Volume)
	v.out.Play()
}

func (v *Voice) destroy() error {
	if v.out == nil {
		return nil
	}
	out := v.out
	v.out = nil
	return out.Close()
}

// VoiceState is a read-only copy of a voice for overlays and tools.
type VoiceState struct {
	ID         uuid.UUID
	Clip       Clip
	Volume     float64
	Level      float64
	Persistent bool
	Active     bool
}
