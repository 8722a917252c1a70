package music

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestScheduler(rate float64) (*Scheduler, *Registry) {
	r := NewRegistry()
	return NewScheduler(r, &sync.Mutex{}, rate, 0, zerolog.Nop()), r
}

func TestSchedulerRiseClampsAtLevel(t *testing.T) {
	cases := []struct {
		name      string
		rate      float64
		dt        float64
		level     float64
		wantTicks int
	}{
		{"rate5_dt100ms", 5, 0.1, 1, 2},
		{"overshoot", 3, 0.1, 1, 4},
		{"twenty_ticks", 0.5, 0.1, 1, 20},
		{"partial_level", 5, 0.1, 0.7, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, r := newTestScheduler(c.rate)
			out := &fakeOutput{}
			v := NewVoice("a.wav", c.level, out)
			mustAdd(t, r, v)

			for i := 1; i <= c.wantTicks; i++ {
				s.Tick(c.dt)
				if v.Volume > c.level {
					t.Fatalf("tick %d: volume %v overshot level %v", i, v.Volume, c.level)
				}
				if i < c.wantTicks && v.Volume == c.level {
					t.Fatalf("tick %d: reached level early", i)
				}
			}
			if v.Volume != c.level {
				t.Fatalf("expected volume exactly %v after %d ticks, got %v", c.level, c.wantTicks, v.Volume)
			}
			if out.volume != v.Volume {
				t.Fatalf("output volume %v out of sync with voice %v", out.volume, v.Volume)
			}
		})
	}
}

func TestSchedulerVolumeBounds(t *testing.T) {
	dts := []float64{0, 0.016, 0.1, 3, 1000, -1, math.NaN(), math.Inf(1)}
	s, r := newTestScheduler(MaxRate)
	mustAdd(t, r, NewPersistentVoice("base.wav", 1, nil))
	mustAdd(t, r, NewVoice("a.wav", 1, nil))
	for i, dt := range dts {
		if i%3 == 0 {
			mustAdd(t, r, NewVoice(Clip("zone"+string(rune('a'+i))), 0.8, nil))
		}
		s.Tick(dt)
		for _, v := range r.Voices() {
			if v.Volume < 0 || v.Volume > 1 || math.IsNaN(v.Volume) {
				t.Fatalf("dt=%v: voice %s volume %v out of [0,1]", dt, v.Clip, v.Volume)
			}
		}
	}
}

func TestSchedulerSingleRisingVoice(t *testing.T) {
	s, r := newTestScheduler(2)
	a := NewVoice("a.wav", 1, nil)
	mustAdd(t, r, a)
	for i := 0; i < 3; i++ {
		s.Tick(0.1)
	}
	b := NewVoice("b.wav", 1, nil)
	mustAdd(t, r, b)

	prev := map[*Voice]float64{a: a.Volume, b: b.Volume}
	for i := 0; i < 10; i++ {
		s.Tick(0.1)
		rising := 0
		for _, v := range r.Voices() {
			if v.Volume > prev[v] {
				if v == a {
					t.Fatalf("tick %d: inactive voice rose", i)
				}
				rising++
			}
			prev[v] = v.Volume
		}
		if rising > 1 {
			t.Fatalf("tick %d: %d voices rising", i, rising)
		}
	}
	if r.Contains(a) {
		t.Fatalf("faded voice should be removed")
	}
}

func TestSchedulerExitAllFadesToEmpty(t *testing.T) {
	s, r := newTestScheduler(5)
	outs := []*fakeOutput{{}, {}}
	for i, clip := range []Clip{"a.wav", "b.wav"} {
		v := NewVoice(clip, 1, outs[i])
		v.Volume = 1
		mustAdd(t, r, v)
	}
	r.MarkAllExiting()

	want := []float64{0.5, 0}
	for i, w := range want {
		s.Tick(0.1)
		for _, v := range r.Voices() {
			if v.Volume != w {
				t.Fatalf("tick %d: expected volume %v, got %v", i, w, v.Volume)
			}
		}
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d voices", r.Len())
	}
	for i, o := range outs {
		if o.closes != 1 {
			t.Fatalf("output %d closed %d times", i, o.closes)
		}
	}
}

func TestSchedulerPersistentSilencedNotDestroyed(t *testing.T) {
	s, r := newTestScheduler(5)
	pout := &fakeOutput{}
	p := NewPersistentVoice("base.wav", 1, pout)
	p.Volume = 1
	mustAdd(t, r, p)
	mustAdd(t, r, NewVoice("a.wav", 1, nil))

	for i := 0; i < 10; i++ {
		s.Tick(0.1)
	}
	if !r.Contains(p) {
		t.Fatalf("persistent voice must stay registered")
	}
	if p.Volume != 0 || pout.volume != 0 {
		t.Fatalf("expected persistent voice silenced, got %v", p.Volume)
	}
	if pout.closes != 0 {
		t.Fatalf("persistent output closed")
	}
}

func TestSchedulerLevelChangeOnlyAffectsActive(t *testing.T) {
	s, r := newTestScheduler(1)
	a := NewVoice("a.wav", 1, nil)
	a.Volume = 0.9
	mustAdd(t, r, a)
	b := NewVoice("b.wav", 0.3, nil)
	mustAdd(t, r, b)

	s.Tick(0.5)
	if b.Volume != 0.3 {
		t.Fatalf("active voice should stop at its own level, got %v", b.Volume)
	}
	if a.Volume != 0.4 {
		t.Fatalf("fading voice should head to zero, got %v", a.Volume)
	}
}

func TestClampRate(t *testing.T) {
	cases := map[float64]float64{0: DefaultRate, 0.01: MinRate, 50: MaxRate, 2.5: 2.5}
	for in, want := range cases {
		if got := ClampRate(in); got != want {
			t.Fatalf("ClampRate(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSchedulerRunUsesElapsedTime(t *testing.T) {
	mu := &sync.Mutex{}
	r := NewRegistry()
	s := NewScheduler(r, mu, 1, 2*time.Millisecond, zerolog.Nop())

	var clockMu sync.Mutex
	now := time.Unix(0, 0)
	s.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		now = now.Add(250 * time.Millisecond)
		return now
	}

	v := NewVoice("a.wav", 1, nil)
	mustAdd(t, r, v)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		vol := v.Volume
		mu.Unlock()
		if vol == 1 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatalf("voice never reached its level, volume=%v", vol)
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}
