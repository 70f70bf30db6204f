package engine

import (
	"github.com/jwebster45206/dialogue-engine/pkg/effects"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
	"github.com/jwebster45206/dialogue-engine/pkg/view"
)

// Debug is a scoped handle for development tooling. It exposes controlled
// read and mutate operations through the same effect machinery as the
// action surface, never raw aliases of session internals.
type Debug struct {
	e *Engine
}

// Debug returns the debug handle for this session.
func (e *Engine) Debug() Debug {
	return Debug{e: e}
}

// State returns a deep copy of the session state. Mutating the copy has no
// effect on the session.
func (d Debug) State() *state.GameState {
	return d.e.state.Clone()
}

// SetFlag sets or clears a flag.
func (d Debug) SetFlag(name string, on bool) *view.Snapshot {
	kind := effects.SetFlag
	if !on {
		kind = effects.ClearFlag
	}
	d.e.state = effects.Apply(d.e.state, effects.Effect{Kind: kind, Name: name}, d.e.rng)
	return d.e.finish()
}

// SetVar sets a variable to a numeric or string value.
func (d Debug) SetVar(name string, value any) *view.Snapshot {
	d.e.state = effects.Apply(d.e.state, effects.Effect{Kind: effects.SetVariable, Name: name, Value: value}, d.e.rng)
	return d.e.finish()
}

// Teleport moves the player without travel time or auto-triggers.
func (d Debug) Teleport(locationID string) *view.Snapshot {
	d.e.state = effects.Apply(d.e.state, effects.Effect{Kind: effects.ChangeLocation, Target: locationID}, d.e.rng)
	return d.e.finish()
}
