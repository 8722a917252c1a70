package music

import "time"

// Settings configures a Controller at construction.
type Settings struct {
	// Rate is the fade speed in volume units per second.
	Rate         float64
	TickInterval time.Duration

	// PlayFirstClip plays a random clip from FirstClips on Start.
	PlayFirstClip bool
	FirstClips    []Clip
	// FirstLevel is the desired level of first clips and of the persistent
	// voice when it is re-activated. Zero means full volume.
	FirstLevel float64
	// ReturnToFirstClip replays a first clip when a zone is exited and there
	// is no persistent source.
	ReturnToFirstClip bool

	// Persistent is an externally owned base music output. It is silenced and
	// re-activated but never destroyed.
	Persistent *PersistentSource
}

type PersistentSource struct {
	Clip   Clip
	Output Output
}

func (s Settings) firstLevel() float64 {
	if s.FirstLevel <= 0 {
		return 1
	}
	return s.FirstLevel
}

func (s Settings) firstZone() Zone {
	return Zone{Name: "first", Volume: s.firstLevel(), Clips: s.FirstClips}
}
