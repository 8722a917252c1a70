package music

import "strings"

// Clip references immutable audio content, usually an asset path.
// The empty clip is the null reference.
type Clip string

func (c Clip) Valid() bool {
	return strings.TrimSpace(string(c)) != ""
}

func (c Clip) String() string {
	return string(c)
}

// Zone is the read-only clip association of a trigger volume.
type Zone struct {
	Name   string
	Volume float64
	Clips  []Clip
}

func (z Zone) validClips() []Clip {
	out := make([]Clip, 0, len(z.Clips))
	for _, c := range z.Clips {
		if c.Valid() {
			out = append(out, c)
		}
	}
	return out
}
