package music

import (
	"errors"
	"sync"
)

type fakeOutput struct {
	clip    Clip
	volume  float64
	loop    bool
	playing bool
	closes  int
}

func (o *fakeOutput) SetVolume(volume float64) { o.volume = volume }
func (o *fakeOutput) SetLoop(loop bool)        { o.loop = loop }
func (o *fakeOutput) Play()                    { o.playing = true }
func (o *fakeOutput) Close() error {
	o.closes++
	o.playing = false
	return nil
}

type fakeSink struct {
	mu      sync.Mutex
	outputs []*fakeOutput
	fail    bool
}

func (s *fakeSink) Create(clip Clip) (Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("no device")
	}
	out := &fakeOutput{clip: clip}
	s.outputs = append(s.outputs, out)
	return out, nil
}

func (s *fakeSink) created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outputs)
}
