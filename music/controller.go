package music

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Activation describes a voice that just became the active target.
type Activation struct {
	VoiceID uuid.UUID
	Clip    Clip
	Level   float64
	Zone    string
}

// Controller turns zone enter/exit events into registry changes and owns the
// crossfade scheduler's lifecycle.
type Controller struct {
	mu        sync.Mutex
	sink      Sink
	settings  Settings
	registry  *Registry
	scheduler *Scheduler
	rng       *rand.Rand
	logger    zerolog.Logger

	persistent *Voice
	listeners  []func(Activation)

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithRand sets the source used to pick clips from a zone's clip set.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func NewController(sink Sink, settings Settings, opts ...Option) *Controller {
	c := &Controller{
		sink:     sink,
		settings: settings,
		registry: NewRegistry(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.logger
	c.logger = base.With().Str("component", "music").Logger()
	c.scheduler = NewScheduler(c.registry, &c.mu, settings.Rate, settings.TickInterval, base)

	if p := settings.Persistent; p != nil && p.Clip.Valid() {
		c.persistent = NewPersistentVoice(p.Clip, settings.firstLevel(), p.Output)
	} else if p != nil {
		c.logger.Warn().Msg("persistent source has no clip; ignoring it")
	}
	return c
}

// OnActivate registers fn to be called once for every voice that becomes the
// active target. Deduplicated enters do not notify.
func (c *Controller) OnActivate(fn func(Activation)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Enter starts a random clip from zone and fades everything else out.
func (c *Controller) Enter(zone Zone) error {
	clips := zone.validClips()
	if len(clips) == 0 {
		c.logger.Warn().Str("zone", zone.Name).Msg("zone has no clips; ignoring enter")
		return fmt.Errorf("enter %q: %w", zone.Name, ErrEmptyClipSet)
	}
	clip := clips[c.pick(len(clips))]
	return c.activate(clip, zone.Volume, zone.Name)
}

// Exit falls back to the persistent voice, the first clip set, or silence,
// in that order.
func (c *Controller) Exit(zone Zone) error {
	if c.persistent != nil {
		c.mu.Lock()
		c.persistent.Level = c.settings.firstLevel()
		act, ok, err := c.add(c.persistent, zone.Name)
		c.mu.Unlock()
		if err != nil {
			return fmt.Errorf("exit %q: %w", zone.Name, err)
		}
		if ok {
			c.notify(act)
		}
		return nil
	}

	if c.settings.ReturnToFirstClip {
		err := c.Enter(c.settings.firstZone())
		if err == nil {
			return nil
		}
		c.logger.Warn().Err(err).Str("zone", zone.Name).Msg("first clip fallback failed; fading out")
	}

	c.mu.Lock()
	c.registry.MarkAllExiting()
	c.mu.Unlock()
	c.logger.Debug().Str("zone", zone.Name).Msg("all voices exiting")
	return nil
}

// Play activates a single clip at level. Empty clips are ignored.
func (c *Controller) Play(clip Clip, level float64) error {
	if !clip.Valid() {
		return nil
	}
	return c.activate(clip, level, "")
}

func (c *Controller) activate(clip Clip, level float64, zone string) error {
	c.mu.Lock()
	if active := c.registry.Active(); active != nil && active.Clip == clip {
		c.mu.Unlock()
		c.logger.Debug().Str("clip", clip.String()).Msg("clip already playing")
		return nil
	}
	c.mu.Unlock()

	var out Output
	if c.sink != nil {
		o, err := c.sink.Create(clip)
		if err != nil {
			c.logger.Warn().Err(err).Str("clip", clip.String()).Msg("create output")
			return fmt.Errorf("create output for %q: %w", clip, err)
		}
		out = o
	}
	v := NewVoice(clip, level, out)

	c.mu.Lock()
	act, ok, err := c.add(v, zone)
	c.mu.Unlock()
	if err != nil || !ok {
		_ = v.destroy()
		return err
	}
	c.notify(act)
	return nil
}

// add requires c.mu held.
func (c *Controller) add(v *Voice, zone string) (Activation, bool, error) {
	fresh := !c.registry.Contains(v)
	added, err := c.registry.Add(v)
	if err != nil || !added {
		return Activation{}, false, err
	}
	if fresh && !v.Persistent {
		v.start()
	}
	c.logger.Info().Str("clip", v.Clip.String()).Str("zone", zone).Float64("level", v.Level).Msg("playing clip")
	return Activation{VoiceID: v.ID, Clip: v.Clip, Level: v.Level, Zone: zone}, true, nil
}

func (c *Controller) notify(act Activation) {
	c.mu.Lock()
	listeners := append([]func(Activation){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(act)
	}
}

func (c *Controller) pick(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}

// Start prepares the scene music and starts the periodic tick.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	c.Prepare()

	go func() {
		defer close(done)
		c.scheduler.Run(ctx)
	}()
	return nil
}

// Prepare registers the persistent voice, if it is not registered yet, and
// plays a random first clip when configured. Start calls it; hosts that drive
// Tick themselves call it once before the first tick.
func (c *Controller) Prepare() {
	c.mu.Lock()
	var first *Activation
	if p := c.persistent; p != nil && !c.registry.Contains(p) {
		p.setVolume(0)
		act, ok, err := c.add(p, "")
		if err != nil {
			c.logger.Warn().Err(err).Msg("register persistent voice")
		} else if ok {
			first = &act
		}
	}
	c.mu.Unlock()

	if first != nil {
		c.notify(*first)
	}
	if c.settings.PlayFirstClip {
		if err := c.Enter(c.settings.firstZone()); err != nil {
			c.logger.Warn().Err(err).Msg("play first clip")
		}
	}
}

// Stop cancels the periodic tick, destroys every non-persistent voice and
// silences the persistent one. Stop on a stopped controller does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.registry.Voices() {
		v.setVolume(0)
		if err := c.registry.Remove(v); err != nil {
			c.logger.Warn().Err(err).Str("clip", v.Clip.String()).Msg("destroy voice on stop")
		}
	}
	c.registry.ClearExiting()
}

// Running reports whether the periodic tick is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Tick advances the crossfade by dt seconds. Hosts that drive their own
// clock can call Tick instead of Start.
func (c *Controller) Tick(dt float64) {
	c.scheduler.Tick(dt)
}

// Snapshot returns the registered voices in insertion order.
func (c *Controller) Snapshot() []VoiceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	active := c.registry.Active()
	voices := c.registry.Voices()
	out := make([]VoiceState, 0, len(voices))
	for _, v := range voices {
		out = append(out, VoiceState{
			ID:         v.ID,
			Clip:       v.Clip,
			Volume:     v.Volume,
			Level:      v.Level,
			Persistent: v.Persistent,
			Active:     v == active,
		})
	}
	return out
}

// Exiting reports whether every voice is fading to silence.
func (c *Controller) Exiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Exiting()
}
