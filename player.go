package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/zonemusic/common"
	"github.com/milk9111/zonemusic/zone"
	"golang.org/x/image/colornames"
)

const (
	playerSize  = 24
	playerSpeed = 4.0
)

// Player is the actor that walks between music zones.
type Player struct {
	actor *zone.Actor
	input *Input
}

func NewPlayer(t *zone.Trigger, input *Input, x, y float64) *Player {
	actor := t.AddActor(zone.ActorSpec{
		Name:   "player",
		Tag:    "player",
		Layer:  "music",
		Width:  playerSize,
		Height: playerSize,
	}, x, y)
	return &Player{actor: actor, input: input}
}

func (p *Player) Update() {
	dx, dy := p.input.MoveX, p.input.MoveY
	if dx == 0 && dy == 0 {
		return
	}
	if dx != 0 && dy != 0 {
		dx, dy = dx/math.Sqrt2, dy/math.Sqrt2
	}
	x, y := p.actor.Position()
	x = math.Max(0, math.Min(common.BaseWidth-playerSize, x+dx*playerSpeed))
	y = math.Max(0, math.Min(common.BaseHeight-playerSize, y+dy*playerSpeed))
	p.actor.SetPosition(x, y)
}

func (p *Player) Draw(screen *ebiten.Image) {
	x, y := p.actor.Position()
	vector.FillRect(screen, float32(x), float32(y), playerSize, playerSize, colornames.Gold, false)
}
