package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetupWithWriterLevels(t *testing.T) {
	cases := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info", false, false},
		{"debug", true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupWithWriter(c.debug, &buf)
			logger.Debug().Msg("fade tick")
			logger.Info().Str("clip", "tone:220").Msg("playing clip")

			out := buf.String()
			if !strings.Contains(out, "playing clip") || !strings.Contains(out, "tone:220") {
				t.Fatalf("missing info line: %q", out)
			}
			if got := strings.Contains(out, "fade tick"); got != c.wantDebug {
				t.Fatalf("debug line present=%v, want %v", got, c.wantDebug)
			}
		})
	}
}
