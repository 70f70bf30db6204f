// Package engine is the session controller: it owns one mutable game state,
// walks compiled dialogue graphs in response to player actions, and returns
// a fresh render-ready snapshot from every action.
//
// Runtime policy: action methods never fail. Missing dialogues, nodes,
// choices, actors, items and locations degrade gracefully (no-op or end of
// dialogue); catching dangling content references is the offline validator's
// job, not the engine's.
package engine

import (
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/dice"
	"github.com/jwebster45206/dialogue-engine/pkg/effects"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
	"github.com/jwebster45206/dialogue-engine/pkg/view"
)

// Engine drives one game session. It is not safe for concurrent use: a
// session has a single logical owner and every action runs to completion
// before returning.
type Engine struct {
	content *content.Registry
	state   *state.GameState
	rng     *dice.RNG
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for action tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSeed fixes the randomness seed, making roll outcomes reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = dice.New(seed) }
}

// New creates an engine over a content registry. The registry is read-only
// and may be shared across engines.
func New(reg *content.Registry, opts ...Option) *Engine {
	e := &Engine{
		content: reg,
		rng:     dice.New(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSession initializes a fresh state from the start configuration and
// returns the opening view. Entering the start location scans auto-triggers
// the same way travel does.
func (e *Engine) NewSession(cfg state.Config) *view.Snapshot {
	e.state = state.New(cfg)
	e.autoTrigger(e.state.Location)
	return e.finish()
}

// Restore replaces the session state wholesale from saved data.
func (e *Engine) Restore(saved *state.SavedGame) *view.Snapshot {
	if saved == nil || saved.State == nil {
		return e.finish()
	}
	e.state = saved.State.Clone()
	e.rng = dice.Restore(saved.RNGSeed, saved.RNGPos)
	return e.finish()
}

// Save captures the current session verbatim, with format version,
// timestamp and RNG replay coordinates.
func (e *Engine) Save() *state.SavedGame {
	return &state.SavedGame{
		Version: state.SaveVersion,
		SavedAt: time.Now().UTC(),
		RNGSeed: e.rng.Seed(),
		RNGPos:  e.rng.Position(),
		State:   e.state.Clone(),
	}
}

// View produces the current snapshot. Like every action it clears the
// transient cue fields afterwards, preserving the exactly-one-view
// guarantee.
func (e *Engine) View() *view.Snapshot {
	return e.finish()
}

// SelectChoice advances the conversation by the player's selected choice.
// Outside a dialogue this is a no-op.
func (e *Engine) SelectChoice(choiceID string) *view.Snapshot {
	cur := e.state.Dialogue
	if cur == nil {
		return e.finish()
	}
	d := e.content.Dialogues[cur.DialogueID]
	if d == nil {
		e.state.Dialogue = nil
		return e.finish()
	}
	node := d.Node(cur.NodeID)
	if node == nil {
		e.state.Dialogue = nil
		return e.finish()
	}

	var choice *script.Choice
	for _, ch := range node.Choices {
		if ch.ID == choiceID {
			choice = ch
			break
		}
	}
	if choice == nil {
		return e.finish()
	}

	e.state = effects.ApplyAll(e.state, choice.Effects, e.rng)

	// Choice effects may have ended the dialogue or started another one.
	switch after := e.state.Dialogue; {
	case after == nil:
		return e.finish()
	case after.NodeID == "":
		e.initiate(after.DialogueID)
		return e.finish()
	}

	if choice.Next == "" {
		e.state.Dialogue = nil
		return e.finish()
	}
	target := d.Node(choice.Next)
	if target == nil {
		// Unresolvable reference silently ends the dialogue.
		e.state.Dialogue = nil
		return e.finish()
	}
	e.enterNode(d, target, true)
	return e.finish()
}

// TalkTo initiates dialogue with an actor. Actors without an associated
// dialogue are a no-op.
func (e *Engine) TalkTo(actorID string) *view.Snapshot {
	c := e.content.Characters[actorID]
	if c == nil || c.Dialogue == "" {
		return e.finish()
	}
	e.initiate(c.Dialogue)
	return e.finish()
}

// TakeItem relocates an item into the inventory, but only when its recorded
// location equals the current location.
func (e *Engine) TakeItem(itemID string) *view.Snapshot {
	if e.state.Location == "" || e.state.Items[itemID] != e.state.Location {
		return e.finish()
	}
	e.state = effects.Apply(e.state, effects.Effect{Kind: effects.AddItem, Name: itemID}, e.rng)
	e.state.Items[itemID] = ""
	return e.finish()
}

// TravelTo moves the player to another location. Travel time comes from the
// first map listing both endpoints: straight-line marker distance times the
// map scale, rounded to whole hours. Any active dialogue is cleared, then
// auto-triggering dialogues and interludes at the destination are scanned in
// registry order.
func (e *Engine) TravelTo(locationID string) *view.Snapshot {
	if locationID == "" || locationID == e.state.Location {
		return e.finish()
	}

	hours := e.travelHours(e.state.Location, locationID)
	e.state = effects.ApplyAll(e.state, []effects.Effect{
		{Kind: effects.AdvanceTime, Number: float64(hours)},
		{Kind: effects.ChangeLocation, Target: locationID},
	}, e.rng)
	e.state.Dialogue = nil

	if e.logger != nil {
		e.logger.Debug("travel", "to", locationID, "hours", hours)
	}

	e.autoTrigger(locationID)
	return e.finish()
}

// AddNote appends a free-text player note.
func (e *Engine) AddNote(text string) *view.Snapshot {
	if text != "" {
		e.state.Notes = append(e.state.Notes, text)
	}
	return e.finish()
}

// RemoveNote deletes the note at the given index. Out-of-range indexes are
// a no-op.
func (e *Engine) RemoveNote(index int) *view.Snapshot {
	if index >= 0 && index < len(e.state.Notes) {
		e.state.Notes = slices.Delete(e.state.Notes, index, index+1)
	}
	return e.finish()
}

// SetLocale changes the active locale. Content is unaffected until the next
// view is produced.
func (e *Engine) SetLocale(localeID string) *view.Snapshot {
	e.state.Locale = localeID
	return e.finish()
}

// finish projects the view and, as the last step of every action, clears
// the transient cue fields so each cue appears in exactly one view.
func (e *Engine) finish() *view.Snapshot {
	snap := view.Project(e.state, e.content)
	e.state.ClearTransients()
	return snap
}

// initiate enters a dialogue at its declared start node. A missing dialogue
// or start node clears the cursor.
func (e *Engine) initiate(dialogueID string) {
	d := e.content.Dialogues[dialogueID]
	if d == nil {
		e.state.Dialogue = nil
		return
	}
	start := d.Node(d.StartNode)
	if start == nil {
		e.state.Dialogue = nil
		return
	}
	e.enterNode(d, start, true)
}

// enterNode moves the cursor to a node and applies its effects. When the
// node exposes no choices and hop is true, the conditional branches are
// evaluated top to bottom (first match wins), falling through to the default
// next; the winning target is entered one hop deep, and resolution stops
// there for this action. No match at all ends the dialogue.
func (e *Engine) enterNode(d *script.Dialogue, n *script.Node, hop bool) {
	e.state.Dialogue = &state.Cursor{DialogueID: d.ID, NodeID: n.ID}
	e.state = effects.ApplyAll(e.state, n.Effects, e.rng)

	cur := e.state.Dialogue
	if cur == nil {
		return
	}
	if cur.NodeID == "" {
		// A node effect started another dialogue.
		e.initiate(cur.DialogueID)
		return
	}
	if len(n.Choices) > 0 || !hop {
		return
	}

	target := ""
	for _, br := range n.Branches {
		if conditionals.EvalAll(br.Conditions, e.state, e.rng) {
			target = br.Target
			break
		}
	}
	if target == "" {
		target = n.Next
	}
	if target == "" {
		e.state.Dialogue = nil
		return
	}
	next := d.Node(target)
	if next == nil {
		e.state.Dialogue = nil
		return
	}
	e.enterNode(d, next, false)
}

// travelHours computes the time cost between two locations from the first
// map whose markers list both. Without such a map travel is free.
func (e *Engine) travelHours(from, to string) int {
	for _, id := range e.content.MapOrder {
		m := e.content.Maps[id]
		a, b := m.Marker(from), m.Marker(to)
		if a == nil || b == nil {
			continue
		}
		dist := math.Hypot(a.X-b.X, a.Y-b.Y) * m.Scale
		return int(math.Round(dist))
	}
	return 0
}

// autoTrigger scans for a dialogue and an interlude keyed to the entered
// location, applying the first of each kind (in registry insertion order)
// whose gating conditions pass.
func (e *Engine) autoTrigger(locationID string) {
	for _, id := range e.content.DialogueOrder {
		d := e.content.Dialogues[id]
		if d.TriggerLocation != locationID {
			continue
		}
		if !conditionals.EvalAll(d.Conditions, e.state, e.rng) {
			continue
		}
		e.initiate(id)
		break
	}

	for _, id := range e.content.InterludeOrder {
		in := e.content.Interludes[id]
		if in.Location != locationID {
			continue
		}
		if !conditionals.EvalAll(in.Conditions, e.state, e.rng) {
			continue
		}
		e.state.Interlude = in.ID
		break
	}
}
