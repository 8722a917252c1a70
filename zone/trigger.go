package zone

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"
)

const (
	collisionTypeActor cp.CollisionType = iota + 100
	collisionTypeZone
)

// ActorSpec describes a body that can trigger zones.
type ActorSpec struct {
	Name          string
	Tag           string
	Layer         string
	Width, Height float64
}

// Actor is a zone-triggering body in the physics space.
type Actor struct {
	Name  string
	Tag   string
	Layer string

	width, height float64
	body          *cp.Body
	shape         *cp.Shape
}

// SetPosition moves the actor so its top-left corner is at x,y.
func (a *Actor) SetPosition(x, y float64) {
	if a == nil || a.body == nil {
		return
	}
	a.body.SetPosition(cp.Vector{X: x + a.width/2, Y: y + a.height/2})
}

// Position returns the actor's top-left corner.
func (a *Actor) Position() (float64, float64) {
	if a == nil || a.body == nil {
		return 0, 0
	}
	p := a.body.Position()
	return p.X - a.width/2, p.Y - a.height/2
}

func (a *Actor) Size() (float64, float64) {
	return a.width, a.height
}

type trackedZone struct {
	spec   Spec
	filter *Filter
	shape  *cp.Shape
}

type crossing struct {
	actor *Actor
	zone  *trackedZone
}

// Trigger turns chipmunk sensor overlaps into enter/exit events. Events are
// queued while the space steps and delivered by Dispatch, so listeners never
// run inside a physics callback. Hosts should advance the space through Step.
type Trigger struct {
	space  *cp.Space
	zones  map[*cp.Shape]*trackedZone
	actors map[*cp.Shape]*Actor
	inside map[crossing]bool
	queue  EventQueue
	logger zerolog.Logger
}

func NewTrigger(space *cp.Space, logger zerolog.Logger) *Trigger {
	if space == nil {
		space = cp.NewSpace()
	}
	t := &Trigger{
		space:  space,
		zones:  make(map[*cp.Shape]*trackedZone),
		actors: make(map[*cp.Shape]*Actor),
		inside: make(map[crossing]bool),
		logger: logger.With().Str("component", "zone-trigger").Logger(),
	}

	handler := space.NewCollisionHandler(collisionTypeActor, collisionTypeZone)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		t.begin(arb)
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
		t.separate(arb)
	}
	return t
}

func (t *Trigger) Space() *cp.Space {
	return t.space
}

// AddZone creates a sensor volume for spec.
func (t *Trigger) AddZone(spec Spec) error {
	if spec.Bounds.Empty() {
		return fmt.Errorf("zone %q: empty bounds", spec.Name)
	}
	filter, err := NewFilter(spec.Tag, spec.Layer, spec.Script)
	if err != nil {
		return fmt.Errorf("zone %q: %w", spec.Name, err)
	}
	if len(spec.Clips) == 0 {
		t.logger.Warn().Str("zone", spec.Name).Msg("zone has no clips; entering it will be ignored")
	}

	shape := cp.NewBox2(t.space.StaticBody, spec.Bounds.bb(), 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeZone)
	t.space.AddShape(shape)
	t.zones[shape] = &trackedZone{spec: spec, filter: filter, shape: shape}
	return nil
}

// ClearZones removes every zone. Actors inside a removed zone get an exit.
func (t *Trigger) ClearZones() {
	for shape := range t.zones {
		t.space.RemoveShape(shape)
	}
	for c := range t.inside {
		t.queue.Push(Event{Kind: EventExit, Zone: c.zone.spec, Actor: c.actor.Name})
	}
	clear(t.inside)
	clear(t.zones)
}

// Zones returns the specs of every registered zone.
func (t *Trigger) Zones() []Spec {
	out := make([]Spec, 0, len(t.zones))
	for _, z := range t.zones {
		out = append(out, z.spec)
	}
	return out
}

// AddActor creates a dynamic body for spec with its top-left corner at x,y.
func (t *Trigger) AddActor(spec ActorSpec, x, y float64) *Actor {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	body := cp.NewBody(1, cp.MomentForBox(1, w, h))
	body.SetPosition(cp.Vector{X: x + w/2, Y: y + h/2})
	shape := cp.NewBox(body, w, h, 0)
	shape.SetCollisionType(collisionTypeActor)

	t.space.AddBody(body)
	t.space.AddShape(shape)

	a := &Actor{
		Name:   spec.Name,
		Tag:    spec.Tag,
		Layer:  spec.Layer,
		width:  w,
		height: h,
		body:   body,
		shape:  shape,
	}
	t.actors[shape] = a
	return a
}

// Step advances the physics space. Within one step exits are queued before
// enters, so walking straight from one zone into the next never reads as
// leaving to silence.
func (t *Trigger) Step(dt float64) {
	mark := t.queue.Len()
	t.space.Step(dt)
	t.queue.exitsFirst(mark)
}

// Drain returns queued crossings.
func (t *Trigger) Drain() []Event {
	return t.queue.Drain()
}

// Dispatch delivers queued crossings to l. Listener errors are configuration
// problems, so they are logged and never stop delivery.
func (t *Trigger) Dispatch(l Listener) {
	if l == nil {
		return
	}
	for _, evt := range t.Drain() {
		var err error
		switch evt.Kind {
		case EventEnter:
			err = l.Enter(evt.Zone.Zone())
		case EventExit:
			err = l.Exit(evt.Zone.Zone())
		}
		if err != nil {
			t.logger.Warn().Err(err).Str("zone", evt.Zone.Name).Str("event", string(evt.Kind)).Msg("zone event skipped")
		}
	}
}

func (t *Trigger) resolve(arb *cp.Arbiter) (*Actor, *trackedZone) {
	a, b := arb.Shapes()
	if actor, ok := t.actors[a]; ok {
		return actor, t.zones[b]
	}
	return t.actors[b], t.zones[a]
}

func (t *Trigger) begin(arb *cp.Arbiter) {
	actor, z := t.resolve(arb)
	if actor == nil || z == nil {
		return
	}
	ok, err := z.filter.Allow(actor, z.spec.Name)
	if err != nil {
		t.logger.Warn().Err(err).Str("zone", z.spec.Name).Msg("zone filter failed")
		return
	}
	if !ok {
		t.logger.Debug().Str("zone", z.spec.Name).Str("actor", actor.Name).Msg("actor filtered out")
		return
	}
	t.inside[crossing{actor: actor, zone: z}] = true
	t.queue.Push(Event{Kind: EventEnter, Zone: z.spec, Actor: actor.Name})
}

func (t *Trigger) separate(arb *cp.Arbiter) {
	actor, z := t.resolve(arb)
	if actor == nil || z == nil {
		return
	}
	key := crossing{actor: actor, zone: z}
	if !t.inside[key] {
		return
	}
	delete(t.inside, key)
	t.queue.Push(Event{Kind: EventExit, Zone: z.spec, Actor: actor.Name})
}
