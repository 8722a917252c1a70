package output

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/zonemusic/music"
	"github.com/rs/zerolog"
)

const DefaultSampleRate = 44100

// Ebiten plays clips through ebiten's audio context.
type Ebiten struct {
	ctx    *audio.Context
	load   func(path string) ([]byte, error)
	logger zerolog.Logger
}

// NewEbiten reuses the process audio context if one exists. load resolves
// clip paths to file contents.
func NewEbiten(sampleRate int, load func(path string) ([]byte, error), logger zerolog.Logger) *Ebiten {
	ctx := audio.CurrentContext()
	if ctx == nil {
		if sampleRate <= 0 {
			sampleRate = DefaultSampleRate
		}
		ctx = audio.NewContext(sampleRate)
	}
	return &Ebiten{
		ctx:    ctx,
		load:   load,
		logger: logger.With().Str("component", "ebiten-output").Logger(),
	}
}

func (e *Ebiten) Create(clip music.Clip) (music.Output, error) {
	src, length, err := e.decode(clip)
	if err != nil {
		return nil, err
	}
	return &ebitenOutput{
		ctx:    e.ctx,
		src:    src,
		length: length,
		name:   clip.String(),
		logger: e.logger,
	}, nil
}

func (e *Ebiten) decode(clip music.Clip) (io.ReadSeeker, int64, error) {
	if hz, ok := ParseTone(clip); ok {
		pcm := Tone(e.ctx.SampleRate(), hz, toneSeconds)
		return bytes.NewReader(pcm), int64(len(pcm)), nil
	}
	if e.load == nil {
		return nil, 0, fmt.Errorf("load %q: no asset loader", clip)
	}
	b, err := e.load(clip.String())
	if err != nil {
		return nil, 0, fmt.Errorf("load %q: %w", clip, err)
	}

	if strings.EqualFold(filepath.Ext(clip.String()), ".wav") {
		stream, err := wav.DecodeWithSampleRate(e.ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, 0, fmt.Errorf("decode wav %q: %w", clip, err)
		}
		return stream, stream.Length(), nil
	}

	// Fallback for already-decoded PCM assets in Ebiten's native format.
	return bytes.NewReader(b), int64(len(b)), nil
}

type ebitenOutput struct {
	ctx    *audio.Context
	src    io.ReadSeeker
	length int64
	name   string
	logger zerolog.Logger

	player *audio.Player
	volume float64
	loop   bool
}

func (o *ebitenOutput) SetVolume(volume float64) {
	o.volume = volume
	if o.player != nil {
		o.player.SetVolume(volume)
	}
}

// SetLoop takes effect on the next Play.
func (o *ebitenOutput) SetLoop(loop bool) {
	o.loop = loop
}

func (o *ebitenOutput) Play() {
	if o.player == nil {
		var r io.Reader = o.src
		if o.loop && o.length > 0 {
			r = audio.NewInfiniteLoop(o.src, o.length)
		}
		p, err := o.ctx.NewPlayer(r)
		if err != nil {
			o.logger.Warn().Err(err).Str("clip", o.name).Msg("create player")
			return
		}
		o.player = p
	}
	o.player.SetVolume(o.volume)
	o.player.Play()
}

func (o *ebitenOutput) Close() error {
	if o.player == nil {
		return nil
	}
	p := o.player
	o.player = nil
	p.Pause()
	return p.Close()
}

