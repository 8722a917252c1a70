package output

import (
	"sync"

	"github.com/milk9111/zonemusic/music"
)

// Memory is a sink that only records what it is asked to do. fadesim uses it
// to print volume curves without an audio device.
type Memory struct {
	mu      sync.Mutex
	outputs []*MemoryOutput
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(clip music.Clip) (music.Output, error) {
	out := &MemoryOutput{Clip: clip}
	m.mu.Lock()
	m.outputs = append(m.outputs, out)
	m.mu.Unlock()
	return out, nil
}

// Outputs returns every output created so far, including closed ones.
func (m *Memory) Outputs() []*MemoryOutput {
	m.mu.Lock()
	defer m.mu.Unlock()
	outs := make([]*MemoryOutput, 0, len(m.outputs))
	return append(outs, m.outputs...)
}

type MemoryOutput struct {
	Clip    music.Clip
	Volume  float64
	Loop    bool
	Playing bool
	Closed  bool
}

func (o *MemoryOutput) SetVolume(volume float64) { o.Volume = volume }
func (o *MemoryOutput) SetLoop(loop bool)        { o.Loop = loop }
func (o *MemoryOutput) Play()                    { o.Playing = true }

func (o *MemoryOutput) Close() error {
	o.Playing = false
	o.Closed = true
	return nil
}
