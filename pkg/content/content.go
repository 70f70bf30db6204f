// Package content defines the static game content registry: locations,
// characters, items, maps, dialogues, quests, journal entries, interludes
// and locale dictionaries. The registry is built once by an external loader
// before any session starts and is read-only afterwards, so it is safe to
// share across sessions.
package content

import (
	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
)

// Location is a place in the game world. Name, Description and Banner may be
// "@key" localization references.
type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Banner      string `json:"banner,omitempty"` // banner image asset
	Music       string `json:"music,omitempty"`
	Ambient     string `json:"ambient,omitempty"`
}

// Character is a static character definition. The mutable side (location,
// party membership, relationship) lives in state.ActorState.
type Character struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Portrait string `json:"portrait,omitempty"`
	Dialogue string `json:"dialogue,omitempty"` // dialogue started when the player talks to them
}

// Item is a static item definition.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// MapMarker places a location on a map image.
type MapMarker struct {
	Location string  `json:"location"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Label    string  `json:"label,omitempty"`
}

// GameMap is a travel map. Scale converts marker-space distance into travel
// hours.
type GameMap struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Image   string      `json:"image,omitempty"`
	Scale   float64     `json:"scale"`
	Markers []MapMarker `json:"markers,omitempty"`
}

// Marker returns the marker for a location id, or nil.
func (m *GameMap) Marker(locationID string) *MapMarker {
	for i := range m.Markers {
		if m.Markers[i].Location == locationID {
			return &m.Markers[i]
		}
	}
	return nil
}

// QuestStage is one step of a quest. Description may be an "@key" reference.
type QuestStage struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Quest is a static quest definition.
type Quest struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Stages []QuestStage `json:"stages,omitempty"`
}

// Stage returns the stage with the given id, or nil.
func (q *Quest) Stage(id string) *QuestStage {
	for i := range q.Stages {
		if q.Stages[i].ID == id {
			return &q.Stages[i]
		}
	}
	return nil
}

// JournalEntry is an unlockable journal page.
type JournalEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Interlude is a full-screen narrative cutaway. Location plus Require gate
// auto-triggering on location entry, mirroring dialogue triggers. Require
// holds raw condition expressions; the loader compiles them into Conditions.
type Interlude struct {
	ID         string   `json:"id"`
	Location   string   `json:"location,omitempty"`
	Require    []string `json:"require,omitempty"`
	Background string   `json:"background,omitempty"`
	Banner     string   `json:"banner,omitempty"`
	Music      string   `json:"music,omitempty"`
	Voice      string   `json:"voice,omitempty"`
	Sounds     []string `json:"sounds,omitempty"`
	Scroll     string   `json:"scroll,omitempty"` // "auto" (default) or "manual"
	Speed      float64  `json:"speed,omitempty"`
	Text       string   `json:"text"`

	Conditions []conditionals.Condition `json:"-"` // compiled from Require
}

// Locale is one language dictionary: a BCP 47 tag and key -> string entries.
type Locale struct {
	Tag     string            `json:"tag"`
	Strings map[string]string `json:"strings"`
}

// Registry is the read-only content store. Ordered id slices preserve
// content insertion order: map selection and auto-trigger scans iterate in
// that order, deterministically.
type Registry struct {
	Locations  map[string]*Location
	Characters map[string]*Character
	Items      map[string]*Item
	Maps       map[string]*GameMap
	Dialogues  map[string]*script.Dialogue
	Quests     map[string]*Quest
	Journal    map[string]*JournalEntry
	Interludes map[string]*Interlude
	Locales    map[string]*Locale

	MapOrder       []string
	DialogueOrder  []string
	InterludeOrder []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Locations:  make(map[string]*Location),
		Characters: make(map[string]*Character),
		Items:      make(map[string]*Item),
		Maps:       make(map[string]*GameMap),
		Dialogues:  make(map[string]*script.Dialogue),
		Quests:     make(map[string]*Quest),
		Journal:    make(map[string]*JournalEntry),
		Interludes: make(map[string]*Interlude),
		Locales:    make(map[string]*Locale),
	}
}

// AddMap registers a map, preserving insertion order.
func (r *Registry) AddMap(m *GameMap) {
	if _, exists := r.Maps[m.ID]; !exists {
		r.MapOrder = append(r.MapOrder, m.ID)
	}
	r.Maps[m.ID] = m
}

// AddDialogue registers a compiled dialogue, preserving insertion order.
func (r *Registry) AddDialogue(d *script.Dialogue) {
	if _, exists := r.Dialogues[d.ID]; !exists {
		r.DialogueOrder = append(r.DialogueOrder, d.ID)
	}
	r.Dialogues[d.ID] = d
}

// AddInterlude registers an interlude, preserving insertion order.
func (r *Registry) AddInterlude(in *Interlude) {
	if _, exists := r.Interludes[in.ID]; !exists {
		r.InterludeOrder = append(r.InterludeOrder, in.ID)
	}
	r.Interludes[in.ID] = in
}

// FirstMap returns the first registered map, or nil. Travel time and the
// projected map view both use this single-map assumption.
func (r *Registry) FirstMap() *GameMap {
	if len(r.MapOrder) == 0 {
		return nil
	}
	return r.Maps[r.MapOrder[0]]
}
