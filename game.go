package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/zonemusic/assets"
	"github.com/milk9111/zonemusic/common"
	"github.com/milk9111/zonemusic/music"
	"github.com/milk9111/zonemusic/output"
	"github.com/milk9111/zonemusic/prefabs"
	"github.com/milk9111/zonemusic/zone"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	sampleRate = 44100
	stepDt     = 1.0 / 60.0
)

type Options struct {
	ZonesFile string
	Watch     bool
	Debug     bool
}

type Game struct {
	opts   Options
	logger zerolog.Logger

	trigger    *zone.Trigger
	controller *music.Controller
	background music.Output
	watcher    *prefabs.Watcher

	input  *Input
	player *Player
	face   ebtext.Face

	pauseUI *ebitenui.UI
	paused  bool
	quit    bool
}

func NewGame(opts Options, logger zerolog.Logger) (*Game, error) {
	musicSpec, err := prefabs.LoadMusicSpec()
	if err != nil {
		return nil, err
	}

	sink := output.NewEbiten(sampleRate, assets.Load, logger)
	settings := musicSpec.Settings()

	var background music.Output
	if musicSpec.Background != "" {
		clip := music.Clip(musicSpec.Background)
		out, err := sink.Create(clip)
		if err != nil {
			return nil, fmt.Errorf("background %s: %w", clip, err)
		}
		// The host owns the base source: it loops for the whole scene and
		// the controller only drives its volume.
		out.SetLoop(true)
		out.SetVolume(0)
		out.Play()
		background = out
		settings.Persistent = &music.PersistentSource{Clip: clip, Output: out}
	}

	g := &Game{
		opts:       opts,
		logger:     logger.With().Str("component", "game").Logger(),
		trigger:    zone.NewTrigger(cp.NewSpace(), logger),
		controller: music.NewController(sink, settings, music.WithLogger(logger)),
		background: background,
		input:      NewInput(),
		face:       ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.controller.OnActivate(func(act music.Activation) {
		g.logger.Debug().Str("clip", act.Clip.String()).Str("zone", act.Zone).Float64("level", act.Level).Msg("activate")
	})

	if err := g.loadZones(); err != nil {
		return nil, err
	}
	g.player = NewPlayer(g.trigger, g.input, common.BaseWidth/2, common.BaseHeight/2)
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			g.logger.Warn().Err(err).Msg("prefab watcher disabled")
		} else {
			g.watcher = w
		}
	}

	if err := g.controller.Start(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) loadZones() error {
	specs, err := prefabs.LoadZones(g.opts.ZonesFile)
	if err != nil {
		return err
	}
	g.trigger.ClearZones()
	for _, spec := range specs {
		if err := g.trigger.AddZone(spec); err != nil {
			g.logger.Warn().Err(err).Msg("skip zone")
		}
	}
	g.logger.Info().Int("zones", len(specs)).Str("file", g.opts.ZonesFile).Msg("zones loaded")
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			log := g.logger.With().Str("file", change.Path).Stringer("kind", change.Kind).Logger()
			if change.Kind == prefabs.ChangeMusic {
				log.Info().Msg("music preset changed; restart to apply")
				continue
			}
			log.Info().Msg("prefab changed")
			if err := g.loadZones(); err != nil {
				log.Warn().Err(err).Msg("reload zones")
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn().Err(err).Msg("prefab watcher")
		default:
			return
		}
	}
}

func (g *Game) pause() {
	g.paused = true
	g.controller.Stop()
}

// resume restarts the scene music and re-enters whatever zones the player
// is standing in, since Stop dropped their voices.
func (g *Game) resume() {
	g.paused = false
	if err := g.controller.Start(context.Background()); err != nil && !errors.Is(err, music.ErrAlreadyRunning) {
		g.logger.Warn().Err(err).Msg("restart music")
		return
	}
	x, y := g.player.actor.Position()
	cx, cy := x+playerSize/2, y+playerSize/2
	for _, spec := range g.trigger.Zones() {
		if !spec.Bounds.Contains(cx, cy) {
			continue
		}
		if err := g.controller.Enter(spec.Zone()); err != nil {
			g.logger.Debug().Err(err).Str("zone", spec.Name).Msg("re-enter zone")
		}
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.input.Update()
	if g.input.PausePressed {
		if g.paused {
			g.resume()
		} else {
			g.pause()
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollWatcher()
	g.player.Update()
	g.trigger.Step(stepDt)
	g.trigger.Dispatch(g.controller)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, spec := range g.trigger.Zones() {
		b := spec.Bounds
		x, y, w, h := float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height)
		vector.FillRect(screen, x, y, w, h, color.RGBA{R: 60, G: 120, B: 90, A: 80}, false)
		vector.StrokeRect(screen, x, y, w, h, 1.0, color.RGBA{R: 120, G: 220, B: 160, A: 200}, false)
		g.drawText(screen, spec.Name, b.X+6, b.Y+6, colornames.White)
	}

	g.player.Draw(screen)

	if g.opts.Debug {
		g.drawVoices(screen)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawVoices(screen *ebiten.Image) {
	y := 8.0
	for _, v := range g.controller.Snapshot() {
		mark := " "
		if v.Active {
			mark = "*"
		}
		if v.Persistent {
			mark += "p"
		}
		line := fmt.Sprintf("%-2s %-24s vol=%.2f level=%.2f", mark, v.Clip, v.Volume, v.Level)
		g.drawText(screen, line, common.BaseWidth-320, y, colornames.Lightgray)
		y += 16
	}
	if g.controller.Exiting() {
		g.drawText(screen, "exiting", common.BaseWidth-320, y, colornames.Orange)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

// Close stops the music and releases the host-owned background source.
func (g *Game) Close() {
	g.controller.Stop()
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.logger.Warn().Err(err).Msg("close watcher")
		}
	}
	if g.background != nil {
		if err := g.background.Close(); err != nil {
			g.logger.Warn().Err(err).Msg("close background")
		}
	}
}
