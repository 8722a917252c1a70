package music

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/milk9111/zonemusic/common"
	"github.com/rs/zerolog"
)

const (
	DefaultRate         = 5.0
	MinRate             = 0.1
	MaxRate             = 10.0
	DefaultTickInterval = 100 * time.Millisecond

	// Volumes this close to their target snap onto it so accumulated float
	// error never leaves a voice hovering just short of silence.
	volumeEpsilon = 1e-9
)

// Scheduler converges voice volumes on a fixed wall-clock cadence.
type Scheduler struct {
	registry *Registry
	mu       sync.Locker
	rate     float64
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewScheduler builds a scheduler for registry. mu guards the registry and
// is held for the duration of every tick.
func NewScheduler(registry *Registry, mu sync.Locker, rate float64, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{
		registry: registry,
		mu:       mu,
		rate:     ClampRate(rate),
		interval: interval,
		now:      time.Now,
		logger:   logger.With().Str("component", "crossfade").Logger(),
	}
}

// ClampRate bounds a fade rate to [MinRate, MaxRate]; zero selects DefaultRate.
func ClampRate(rate float64) float64 {
	if rate == 0 || math.IsNaN(rate) {
		return DefaultRate
	}
	return math.Max(MinRate, math.Min(MaxRate, rate))
}

func (s *Scheduler) Rate() float64 {
	return s.rate
}

// Tick applies one convergence step of dt seconds.
func (s *Scheduler) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick(dt)
}

// tick requires s.mu held.
func (s *Scheduler) tick(dt float64) {
	if s.registry == nil {
		return
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	step := s.rate * dt
	active := s.registry.Active()

	var done []*Voice
	for _, v := range s.registry.Voices() {
		if v == active {
			if v.Volume != v.Level {
				v.setVolume(snap(common.Approach(v.Volume, v.Level, step), v.Level))
			}
			continue
		}

		if v.Volume > 0 {
			v.setVolume(snap(v.Volume-step, 0))
		}
		if v.Volume == 0 && !v.Persistent {
			done = append(done, v)
		}
	}

	for _, v := range done {
		if err := s.registry.Remove(v); err != nil {
			s.logger.Warn().Err(err).Str("clip", v.Clip.String()).Msg("destroy faded voice")
			continue
		}
		s.logger.Debug().Str("clip", v.Clip.String()).Str("voice", v.ID.String()).Msg("faded voice removed")
	}
}

// Run ticks until ctx is cancelled. Each tick uses the real elapsed time
// since the previous one, so jitter in the ticker does not change fade speed.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			dt := now.Sub(last).Seconds()
			last = now
			s.Tick(dt)
		}
	}
}

func snap(v, target float64) float64 {
	if math.Abs(v-target) < volumeEpsilon {
		return target
	}
	return common.Clamp01(v)
}
