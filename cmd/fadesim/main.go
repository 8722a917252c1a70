package main

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/milk9111/zonemusic/logging"
	"github.com/milk9111/zonemusic/music"
	"github.com/milk9111/zonemusic/output"
	"github.com/milk9111/zonemusic/prefabs"
	"github.com/milk9111/zonemusic/zone"
	"github.com/spf13/cobra"
)

type options struct {
	zonesPath    string
	musicPath    string
	timelinePath string
	dt           float64
	ticks        int
	rate         float64
	seed         uint64
	debug        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "fadesim",
		Short: "Replay zone crossings against the crossfader and print volume curves",
		Long: `fadesim drives the music controller with a synthetic clock. Each tick
advances the crossfade by --dt seconds and prints every registered voice with
its volume; the active voice is marked with '*'.

Examples:
  fadesim --timeline timeline.yaml
  fadesim --timeline timeline.yaml --zones prefabs/zones.yaml --rate 2 --dt 0.05`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.timelinePath, "timeline", "", "YAML timeline of enter/exit events (required)")
	cmd.Flags().StringVar(&opts.zonesPath, "zones", "", "Zone presets (default: embedded zones.yaml)")
	cmd.Flags().StringVar(&opts.musicPath, "music", "", "Music settings (default: embedded music.yaml)")
	cmd.Flags().Float64Var(&opts.dt, "dt", 0.1, "Seconds per tick")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Ticks to simulate (default: until the last event has settled)")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Override the fade rate in volume units per second")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Seed for clip selection")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("timeline")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(out, errOut io.Writer, opts *options) error {
	if opts.dt <= 0 {
		return fmt.Errorf("--dt must be positive")
	}
	logger := logging.SetupWithWriter(opts.debug, errOut)

	zones, err := loadZones(opts.zonesPath)
	if err != nil {
		return err
	}
	spec, err := loadFile[prefabs.MusicSpec](opts.musicPath, prefabs.MusicFile)
	if err != nil {
		return err
	}
	timeline, err := loadFile[prefabs.TimelineSpec](opts.timelinePath, "")
	if err != nil {
		return err
	}
	events := slices.Clone(timeline.Events)
	slices.SortStableFunc(events, func(a, b prefabs.TimelineEvent) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})

	settings := spec.Settings()
	if opts.rate > 0 {
		settings.Rate = opts.rate
	}
	rate := music.ClampRate(settings.Rate)

	sink := output.NewMemory()
	c := music.NewController(sink, settings,
		music.WithLogger(logger),
		music.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))),
	)

	now := 0.0
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	c.OnActivate(func(a music.Activation) {
		fmt.Fprintf(tw, "# %.2fs activate %s level=%.2f zone=%s\n", now, a.Clip, a.Level, a.Zone)
	})
	c.Prepare()

	ticks := opts.ticks
	if ticks <= 0 {
		last := 0.0
		if len(events) > 0 {
			last = events[len(events)-1].At
		}
		ticks = int(math.Ceil(last/opts.dt)) + int(math.Ceil(1/(rate*opts.dt))) + 1
	}

	fmt.Fprintln(tw, "tick\ttime\tvoices")
	next := 0
	for i := 1; i <= ticks; i++ {
		for next < len(events) && events[next].At <= now+1e-9 {
			if err := apply(c, zones, events[next]); err != nil {
				return err
			}
			next++
		}
		c.Tick(opts.dt)
		now += opts.dt
		fmt.Fprintf(tw, "%d\t%.2f\t%s\n", i, now, formatVoices(c.Snapshot()))
	}
	return tw.Flush()
}

func apply(c *music.Controller, zones map[string]zone.Spec, evt prefabs.TimelineEvent) error {
	if name := strings.TrimSpace(evt.Enter); name != "" {
		z, ok := zones[name]
		if !ok {
			return fmt.Errorf("timeline at %.2fs: unknown zone %q", evt.At, name)
		}
		// Configuration errors are warnings; the simulation keeps going.
		_ = c.Enter(z.Zone())
	}
	if name := strings.TrimSpace(evt.Exit); name != "" {
		z, ok := zones[name]
		if !ok {
			return fmt.Errorf("timeline at %.2fs: unknown zone %q", evt.At, name)
		}
		_ = c.Exit(z.Zone())
	}
	return nil
}

func formatVoices(voices []music.VoiceState) string {
	if len(voices) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(voices))
	for _, v := range voices {
		mark := ""
		if v.Active {
			mark = "*"
		}
		if v.Persistent {
			mark += "p"
		}
		parts = append(parts, fmt.Sprintf("%s%s=%.3f", mark, v.Clip, v.Volume))
	}
	return strings.Join(parts, " ")
}

func loadZones(path string) (map[string]zone.Spec, error) {
	var specs []zone.Spec
	if path == "" {
		s, err := prefabs.LoadZones("")
		if err != nil {
			return nil, err
		}
		specs = s
	} else {
		set, err := loadFile[prefabs.ZoneSetSpec](path, "")
		if err != nil {
			return nil, err
		}
		if specs, err = set.Specs(); err != nil {
			return nil, err
		}
	}
	byName := make(map[string]zone.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	return byName, nil
}

// loadFile decodes path, or the embedded prefab fallback when path is empty.
func loadFile[T any](path, fallback string) (T, error) {
	if path == "" {
		return prefabs.LoadSpec[T](fallback)
	}
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	spec, err := prefabs.DecodeSpec[T](data)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	return spec, nil
}
