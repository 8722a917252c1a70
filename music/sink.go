package music

// Sink creates playable outputs for clips. The controller never cares how
// playback happens; it only needs the operations below.
type Sink interface {
	Create(clip Clip) (Output, error)
}

// Output is one playable audio instance owned by a Voice.
type Output interface {
	SetVolume(volume float64)
	SetLoop(loop bool)
	Play()
	// Close stops playback and releases the output. It is the destroy step.
	Close() error
}
