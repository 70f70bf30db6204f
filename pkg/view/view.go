// Package view projects engine state and static content into an immutable,
// fully resolved snapshot: the only structure a renderer ever consumes.
// Localization keys and variable placeholders are resolved here, so the
// snapshot is localization-free and condition-free.
package view

import "github.com/jwebster45206/dialogue-engine/pkg/state"

// LocationView is the resolved current location.
type LocationView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Banner      string `json:"banner,omitempty"`
}

// ActorView is a resolved character, either at the current location or in
// the party.
type ActorView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Portrait string `json:"portrait,omitempty"`
}

// ItemView is a resolved item, on the floor or in the inventory.
type ItemView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// ChoiceView is one currently selectable choice.
type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DialogueView is the resolved current conversation node. Choices contains
// only the choices whose conditions pass right now.
type DialogueView struct {
	Speaker  string       `json:"speaker"`
	Text     string       `json:"text"`
	Voice    string       `json:"voice,omitempty"`
	Portrait string       `json:"portrait,omitempty"`
	Choices  []ChoiceView `json:"choices,omitempty"`
}

// QuestView is an active quest with its current stage resolved.
type QuestView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stage       string `json:"stage"`
	Description string `json:"description,omitempty"`
}

// JournalView is an unlocked journal entry.
type JournalView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// MarkerView is one location marker on the map view.
type MarkerView struct {
	Location string  `json:"location"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Current  bool    `json:"current"`
}

// MapView is the projected travel map.
type MapView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Image   string       `json:"image,omitempty"`
	Markers []MarkerView `json:"markers,omitempty"`
}

// InterludeView is a fully resolved pending interlude.
type InterludeView struct {
	ID         string   `json:"id"`
	Background string   `json:"background,omitempty"`
	Banner     string   `json:"banner,omitempty"`
	Music      string   `json:"music,omitempty"`
	Voice      string   `json:"voice,omitempty"`
	Sounds     []string `json:"sounds,omitempty"`
	Scroll     string   `json:"scroll"`
	Speed      float64  `json:"speed"`
	Text       string   `json:"text"`
}

// Snapshot is the render-ready view produced after every engine action. It
// is immutable and has no identity beyond the call that produced it.
type Snapshot struct {
	Location LocationView `json:"location"`
	Time     state.Time   `json:"time"`
	Locale   string       `json:"locale,omitempty"`

	Actors []ActorView `json:"actors,omitempty"` // occupants of the current location
	Items  []ItemView  `json:"items,omitempty"`  // items at the current location

	Dialogue  *DialogueView `json:"dialogue,omitempty"`
	Party     []ActorView   `json:"party,omitempty"`
	Inventory []ItemView    `json:"inventory,omitempty"`
	Quests    []QuestView   `json:"quests,omitempty"`
	Journal   []JournalView `json:"journal,omitempty"`
	Map       *MapView      `json:"map,omitempty"`
	Notes     []string      `json:"notes,omitempty"`

	Music   string `json:"music,omitempty"`
	Ambient string `json:"ambient,omitempty"`

	// Transient cues: present in exactly the view produced by the action
	// whose effects emitted them.
	Notifications []string       `json:"notifications,omitempty"`
	Sounds        []string       `json:"sounds,omitempty"`
	Video         string         `json:"video,omitempty"`
	Interlude     *InterludeView `json:"interlude,omitempty"`
}
