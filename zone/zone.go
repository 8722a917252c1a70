package zone

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/zonemusic/music"
)

// Rect is an axis aligned box in world pixels, top-left origin.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rect) bb() cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.X + r.Width, T: r.Y + r.Height}
}

// Spec describes one music zone: where it is, what it plays and who may
// trigger it. Tag, Layer and Script are optional.
type Spec struct {
	Name   string
	Volume float64
	Clips  []music.Clip
	Bounds Rect
	Tag    string
	Layer  string
	Script string
}

// Zone is the part of the zone the music controller consumes.
func (s Spec) Zone() music.Zone {
	clips := make([]music.Clip, len(s.Clips))
	copy(clips, s.Clips)
	return music.Zone{Name: s.Name, Volume: s.Volume, Clips: clips}
}

// Listener receives zone crossings. *music.Controller satisfies it.
type Listener interface {
	Enter(zone music.Zone) error
	Exit(zone music.Zone) error
}
