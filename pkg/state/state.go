// Package state holds the mutable session record for a running game.
// A GameState is owned by exactly one engine session; transitions always
// produce a new value via Clone rather than editing in place.
package state

import (
	"maps"
	"slices"
	"time"
)

// Time is the in-game clock. Hour is in [0, 24); AdvanceTime folds overflow
// into Day.
type Time struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// Cursor marks the current position in a conversation. An empty NodeID is a
// sentinel meaning "resolve via the dialogue's declared start node".
type Cursor struct {
	DialogueID string `json:"dialogue_id"`
	NodeID     string `json:"node_id"`
}

// ActorState is the mutable portion of a character: where they are, whether
// they travel with the player, and how they feel about them.
type ActorState struct {
	Location     string             `json:"location,omitempty"`
	InParty      bool               `json:"in_party,omitempty"`
	Relationship float64            `json:"relationship,omitempty"`
	Stats        map[string]float64 `json:"stats,omitempty"`
}

// GameState is the single authoritative state record for one session.
//
// Notifications, Sounds, Video and Interlude are transient: effects populate
// them during an action, the next produced view carries them, and the engine
// clears them immediately after. Each appears in exactly one view.
type GameState struct {
	Location  string            `json:"location"`
	Time      Time              `json:"time"`
	Flags     map[string]bool   `json:"flags,omitempty"`
	Vars      map[string]any    `json:"vars,omitempty"` // float64 or string values
	Inventory []string          `json:"inventory,omitempty"`
	Quests    map[string]string `json:"quests,omitempty"` // quest id -> stage id
	Journal   []string          `json:"journal,omitempty"` // unlocked entry ids, in unlock order
	Notes     []string          `json:"notes,omitempty"`

	Dialogue *Cursor                `json:"dialogue,omitempty"`
	Actors   map[string]*ActorState `json:"actors,omitempty"`
	Items    map[string]string      `json:"items,omitempty"` // item id -> location id

	MapUnlocked bool   `json:"map_unlocked,omitempty"`
	Locale      string `json:"locale,omitempty"`

	Music   string `json:"music,omitempty"`
	Ambient string `json:"ambient,omitempty"`

	// Transient fields, cleared after every produced view.
	Notifications []string `json:"notifications,omitempty"`
	Sounds        []string `json:"sounds,omitempty"`
	Video         string   `json:"video,omitempty"`
	Interlude     string   `json:"interlude,omitempty"`
}

// Config is the start record a fresh session is built from.
type Config struct {
	StartLocation string                 `json:"start_location"`
	StartTime     Time                   `json:"start_time"`
	Flags         map[string]bool        `json:"flags,omitempty"`
	Vars          map[string]any         `json:"vars,omitempty"`
	Inventory     []string               `json:"inventory,omitempty"`
	Actors        map[string]*ActorState `json:"actors,omitempty"`
	Items         map[string]string      `json:"items,omitempty"`
	Locale        string                 `json:"locale,omitempty"`
}

// New creates a fresh GameState from a start configuration.
func New(cfg Config) *GameState {
	gs := &GameState{
		Location:  cfg.StartLocation,
		Time:      cfg.StartTime,
		Flags:     make(map[string]bool),
		Vars:      make(map[string]any),
		Inventory: make([]string, 0),
		Quests:    make(map[string]string),
		Journal:   make([]string, 0),
		Notes:     make([]string, 0),
		Actors:    make(map[string]*ActorState),
		Items:     make(map[string]string),
		Locale:    cfg.Locale,
	}
	maps.Copy(gs.Flags, cfg.Flags)
	maps.Copy(gs.Vars, cfg.Vars)
	gs.Inventory = append(gs.Inventory, cfg.Inventory...)
	for id, a := range cfg.Actors {
		if a == nil {
			continue
		}
		cp := *a
		cp.Stats = maps.Clone(a.Stats)
		gs.Actors[id] = &cp
	}
	maps.Copy(gs.Items, cfg.Items)
	return gs
}

// Clone returns a deep copy. The effect processor clones before every write
// so callers can hold earlier states without aliasing surprises. The map
// fields come back non-nil even when the source had them nil, as a state
// decoded from JSON does when they were empty at save time.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Flags = make(map[string]bool, len(gs.Flags))
	maps.Copy(cp.Flags, gs.Flags)
	cp.Vars = make(map[string]any, len(gs.Vars))
	maps.Copy(cp.Vars, gs.Vars)
	cp.Quests = make(map[string]string, len(gs.Quests))
	maps.Copy(cp.Quests, gs.Quests)
	cp.Items = make(map[string]string, len(gs.Items))
	maps.Copy(cp.Items, gs.Items)
	cp.Inventory = slices.Clone(gs.Inventory)
	cp.Journal = slices.Clone(gs.Journal)
	cp.Notes = slices.Clone(gs.Notes)
	cp.Notifications = slices.Clone(gs.Notifications)
	cp.Sounds = slices.Clone(gs.Sounds)
	if gs.Dialogue != nil {
		c := *gs.Dialogue
		cp.Dialogue = &c
	}
	cp.Actors = make(map[string]*ActorState, len(gs.Actors))
	for id, a := range gs.Actors {
		ac := *a
		ac.Stats = maps.Clone(a.Stats)
		cp.Actors[id] = &ac
	}
	return &cp
}

// ClearTransients empties the four one-view fields. The engine calls this
// after projecting a snapshot.
func (gs *GameState) ClearTransients() {
	gs.Notifications = nil
	gs.Sounds = nil
	gs.Video = ""
	gs.Interlude = ""
}

// Actor returns the mutable state for an actor, creating it on first touch.
func (gs *GameState) Actor(id string) *ActorState {
	if gs.Actors == nil {
		gs.Actors = make(map[string]*ActorState)
	}
	a, ok := gs.Actors[id]
	if !ok {
		a = &ActorState{}
		gs.Actors[id] = a
	}
	return a
}

// HasItem reports whether the item is in the player's inventory.
func (gs *GameState) HasItem(id string) bool {
	return slices.Contains(gs.Inventory, id)
}

// NumberVar returns a variable's numeric value. ok is false when the
// variable is absent or holds a non-numeric value.
func (gs *GameState) NumberVar(name string) (float64, bool) {
	v, exists := gs.Vars[name]
	if !exists {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

// SaveVersion identifies the persisted record format.
const SaveVersion = "1"

// SavedGame is the persisted record shape: format version, timestamp, RNG
// replay coordinates, and the state verbatim.
type SavedGame struct {
	Version string     `json:"version"`
	SavedAt time.Time  `json:"saved_at"`
	RNGSeed int64      `json:"rng_seed"`
	RNGPos  int64      `json:"rng_pos"`
	State   *GameState `json:"state"`
}
