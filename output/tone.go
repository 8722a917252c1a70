package output

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/milk9111/zonemusic/music"
)

const (
	tonePrefix    = "tone:"
	toneSeconds   = 2.0
	toneAmplitude = 0.25
	bytesPerFrame = 4 // 16-bit stereo
)

// ParseTone reports the frequency of a procedural "tone:<hz>" clip.
func ParseTone(clip music.Clip) (float64, bool) {
	s, ok := strings.CutPrefix(strings.TrimSpace(clip.String()), tonePrefix)
	if !ok {
		return 0, false
	}
	hz, err := strconv.ParseFloat(s, 64)
	if err != nil || hz <= 0 || math.IsInf(hz, 0) {
		return 0, false
	}
	return hz, true
}

// Tone renders a sine wave as 16-bit little endian stereo PCM. The length is
// rounded to whole cycles so the clip loops without a click.
func Tone(sampleRate int, hz, seconds float64) []byte {
	if sampleRate <= 0 || hz <= 0 || seconds <= 0 {
		return nil
	}
	cycles := math.Max(1, math.Round(hz*seconds))
	frames := int(math.Round(cycles * float64(sampleRate) / hz))
	buf := make([]byte, frames*bytesPerFrame)
	for i := 0; i < frames; i++ {
		s := math.Sin(2 * math.Pi * hz * float64(i) / float64(sampleRate))
		v := uint16(int16(s * toneAmplitude * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame:], v)
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame+2:], v)
	}
	return buf
}
