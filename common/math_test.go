package common

import "testing"

func TestApproach(t *testing.T) {
	cases := []struct {
		name             string
		cur, target, step float64
		want             float64
	}{
		{"rise", 0, 1, 0.25, 0.25},
		{"rise_clamped", 0.9, 1, 0.5, 1},
		{"fall", 1, 0, 0.25, 0.75},
		{"fall_clamped", 0.1, 0, 0.5, 0},
		{"at_target", 0.5, 0.5, 0.1, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Approach(c.cur, c.target, c.step); got != c.want {
				t.Fatalf("Approach(%v, %v, %v) = %v, want %v", c.cur, c.target, c.step, got, c.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.4: 0.4, 3: 1} {
		if got := Clamp01(in); got != want {
			t.Fatalf("Clamp01(%v) = %v, want %v", in, got, want)
		}
	}
}
