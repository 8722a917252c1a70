package zone

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Filter decides whether an actor may trigger a zone. Tag and layer must
// match exactly when set. A script, when present, must assign a boolean to
// `allow`; it sees `tag`, `layer`, `actor` and `zone`.
type Filter struct {
	tag    string
	layer  string
	script *tengo.Compiled
}

func NewFilter(tag, layer, script string) (*Filter, error) {
	f := &Filter{tag: strings.TrimSpace(tag), layer: strings.TrimSpace(layer)}
	if strings.TrimSpace(script) == "" {
		return f, nil
	}

	s := tengo.NewScript([]byte(script))
	for _, name := range []string{"tag", "layer", "actor", "zone"} {
		if err := s.Add(name, ""); err != nil {
			return nil, fmt.Errorf("zone filter: %w", err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("zone filter: compile: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("zone filter: dry run: %w", err)
	}
	if !compiled.IsDefined("allow") {
		return nil, fmt.Errorf("zone filter: script never assigns allow")
	}
	f.script = compiled
	return f, nil
}

func (f *Filter) Allow(a *Actor, zone string) (bool, error) {
	if f == nil {
		return true, nil
	}
	if a == nil {
		return false, nil
	}
	if f.tag != "" && f.tag != a.Tag {
		return false, nil
	}
	if f.layer != "" && f.layer != a.Layer {
		return false, nil
	}
	if f.script == nil {
		return true, nil
	}

	c := f.script.Clone()
	for name, value := range map[string]string{"tag": a.Tag, "layer": a.Layer, "actor": a.Name, "zone": zone} {
		if err := c.Set(name, value); err != nil {
			return false, err
		}
	}
	if err := c.Run(); err != nil {
		return false, err
	}
	return c.Get("allow").Bool(), nil
}
