package view

import (
	"testing"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

func projectRegistry() *content.Registry {
	reg := content.NewRegistry()
	reg.Locations["harbor_inn"] = &content.Location{
		ID:          "harbor_inn",
		Name:        "@loc.inn.name",
		Description: "A low room smelling of tar and ale.",
		Music:       "inn_theme",
		Ambient:     "fireplace",
	}
	reg.Locations["docks"] = &content.Location{ID: "docks", Name: "The Docks"}
	reg.Characters["innkeeper"] = &content.Character{ID: "innkeeper", Name: "@char.innkeeper", Portrait: "marta.png"}
	reg.Characters["mira"] = &content.Character{ID: "mira", Name: "Mira"}
	reg.Items["lantern"] = &content.Item{ID: "lantern", Name: "@item.lantern", Icon: "lantern.png"}
	reg.Quests["lighthouse"] = &content.Quest{
		ID:   "lighthouse",
		Name: "The Dark Lighthouse",
		Stages: []content.QuestStage{
			{ID: "stage1", Description: "Find the keeper."},
			{ID: "stage2", Description: "@quest.lighthouse.stage2"},
		},
	}
	reg.Journal["the_storm"] = &content.JournalEntry{ID: "the_storm", Title: "The Storm", Text: "It came without warning."}
	reg.Locales["en"] = &content.Locale{Tag: "en", Strings: map[string]string{
		"loc.inn.name":            "The Harbor Inn",
		"char.innkeeper":          "Old Marta",
		"item.lantern":            "Storm Lantern",
		"quest.lighthouse.stage2": "Light the beacon.",
		"greeting":                "Welcome back, {playerName}.",
	}}
	reg.Locales["fr"] = &content.Locale{Tag: "fr", Strings: map[string]string{
		"loc.inn.name": "L'Auberge du Port",
		"ui.narrator":  "Narrateur",
	}}
	return reg
}

func TestProjectLocation(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})

	snap := Project(gs, reg)
	if snap.Location.Name != "The Harbor Inn" {
		t.Errorf("location name not localized: %q", snap.Location.Name)
	}
	if snap.Location.Description != "A low room smelling of tar and ale." {
		t.Errorf("description wrong: %q", snap.Location.Description)
	}
	if snap.Music != "inn_theme" || snap.Ambient != "fireplace" {
		t.Errorf("location audio wrong: %q / %q", snap.Music, snap.Ambient)
	}
}

func TestProjectStateAudioOverridesLocation(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn"})
	gs.Music = "storm_theme"

	snap := Project(gs, reg)
	if snap.Music != "storm_theme" {
		t.Errorf("state music should win, got %q", snap.Music)
	}
	if snap.Ambient != "fireplace" {
		t.Errorf("location ambient should remain, got %q", snap.Ambient)
	}
}

func TestProjectUnknownLocationDegrades(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "nowhere"})

	snap := Project(gs, reg)
	if snap.Location.ID != "nowhere" || snap.Location.Name != "" {
		t.Errorf("unknown location should project bare id: %+v", snap.Location)
	}
}

func TestTextResolution(t *testing.T) {
	reg := projectRegistry()

	tests := []struct {
		name   string
		locale string
		vars   map[string]any
		in     string
		want   string
	}{
		{"key hit", "en", nil, "@loc.inn.name", "The Harbor Inn"},
		{"key miss keeps raw", "en", nil, "@loc.missing", "@loc.missing"},
		{"unknown locale keeps raw", "xx-unknown", nil, "@loc.inn.name", "@loc.inn.name"},
		{"string interpolation", "en", map[string]any{"playerName": "Hero"}, "@greeting", "Welcome back, Hero."},
		{"numeric interpolation", "en", map[string]any{"gold": float64(50)}, "You have {gold} gold.", "You have 50 gold."},
		{"fractional interpolation", "en", map[string]any{"x": 2.5}, "{x}", "2.5"},
		{"unknown placeholder untouched", "en", nil, "Hello {ghost}.", "Hello {ghost}."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolver{dict: localeDict(reg, tt.locale), vars: tt.vars}
			if got := r.text(tt.in); got != tt.want {
				t.Errorf("text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocaleTagMatching(t *testing.T) {
	reg := projectRegistry()

	// No exact id, but fr-CA matches the registered fr locale by tag.
	dict := localeDict(reg, "fr-CA")
	if dict["loc.inn.name"] != "L'Auberge du Port" {
		t.Errorf("fr-CA should match fr, got %q", dict["loc.inn.name"])
	}

	if len(localeDict(reg, "zz")) != 0 {
		t.Error("unmatchable locale should fall back to an empty dictionary")
	}
	if len(localeDict(reg, "")) != 0 {
		t.Error("empty locale should fall back to an empty dictionary")
	}
}

func TestProjectActorsAndParty(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Actor("innkeeper").Location = "harbor_inn"
	gs.Actor("mira").Location = "docks"
	gs.Actor("mira").InParty = true
	gs.Actor("stray").Location = "harbor_inn"

	snap := Project(gs, reg)
	if len(snap.Actors) != 2 {
		t.Fatalf("expected 2 actors here, got %+v", snap.Actors)
	}
	// Sorted by id: innkeeper before stray.
	if snap.Actors[0].Name != "Old Marta" || snap.Actors[0].Portrait != "marta.png" {
		t.Errorf("innkeeper not resolved: %+v", snap.Actors[0])
	}
	// Unknown actor id degrades to the id as its name.
	if snap.Actors[1].ID != "stray" || snap.Actors[1].Name != "stray" {
		t.Errorf("unknown actor wrong: %+v", snap.Actors[1])
	}

	if len(snap.Party) != 1 || snap.Party[0].ID != "mira" {
		t.Errorf("party wrong: %+v", snap.Party)
	}
}

func TestProjectItemsAndInventory(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{
		StartLocation: "harbor_inn",
		Locale:        "en",
		Inventory:     []string{"lantern"},
		Items:         map[string]string{"rope": "harbor_inn", "chest": "docks"},
	})

	snap := Project(gs, reg)
	if len(snap.Items) != 1 || snap.Items[0].ID != "rope" {
		t.Errorf("floor items wrong: %+v", snap.Items)
	}
	if len(snap.Inventory) != 1 || snap.Inventory[0].Name != "Storm Lantern" {
		t.Errorf("inventory not resolved: %+v", snap.Inventory)
	}
}

func TestProjectQuestsAndJournal(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Quests["lighthouse"] = "stage2"
	gs.Quests["rumor"] = "start" // not in the registry
	gs.Journal = append(gs.Journal, "the_storm", "missing_entry")

	snap := Project(gs, reg)
	if len(snap.Quests) != 2 {
		t.Fatalf("expected 2 quests, got %+v", snap.Quests)
	}
	if snap.Quests[0].Name != "The Dark Lighthouse" || snap.Quests[0].Description != "Light the beacon." {
		t.Errorf("quest not resolved: %+v", snap.Quests[0])
	}
	if snap.Quests[1].Name != "rumor" || snap.Quests[1].Stage != "start" {
		t.Errorf("unknown quest should degrade to ids: %+v", snap.Quests[1])
	}

	if len(snap.Journal) != 1 || snap.Journal[0].Title != "The Storm" {
		t.Errorf("journal wrong: %+v", snap.Journal)
	}
}

func TestProjectDialogue(t *testing.T) {
	reg := projectRegistry()
	reg.AddDialogue(&script.Dialogue{
		ID:        "talk",
		StartNode: "n",
		Nodes: []*script.Node{{
			ID:      "n",
			Speaker: "innkeeper",
			Text:    "@greeting",
			Choices: []*script.Choice{
				{ID: "n_stay", Text: "I will stay"},
				{
					ID:         "n_room",
					Text:       "A room, please",
					Conditions: []conditionals.Condition{{Kind: conditionals.VariableGreaterThan, Name: "gold", Number: 49}},
				},
				{
					ID:         "n_gamble",
					Text:       "Let fate decide",
					Conditions: []conditionals.Condition{{Kind: conditionals.RandomRoll, Min: 1, Max: 20, Number: 1}},
				},
			},
		}},
	})

	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Vars["playerName"] = "Hero"
	gs.Vars["gold"] = float64(10)
	gs.Dialogue = &state.Cursor{DialogueID: "talk", NodeID: "n"}

	snap := Project(gs, reg)
	if snap.Dialogue == nil {
		t.Fatal("expected dialogue view")
	}
	if snap.Dialogue.Speaker != "Old Marta" || snap.Dialogue.Portrait != "marta.png" {
		t.Errorf("speaker not resolved: %+v", snap.Dialogue)
	}
	if snap.Dialogue.Text != "Welcome back, Hero." {
		t.Errorf("text not resolved: %q", snap.Dialogue.Text)
	}
	// Gold gate fails, and the roll-gated choice fails closed: the projector
	// carries no randomness source.
	if len(snap.Dialogue.Choices) != 1 || snap.Dialogue.Choices[0].ID != "n_stay" {
		t.Errorf("choice filtering wrong: %+v", snap.Dialogue.Choices)
	}
}

func TestProjectNarrator(t *testing.T) {
	reg := projectRegistry()
	reg.AddDialogue(&script.Dialogue{
		ID:        "scene",
		StartNode: "n",
		Nodes:     []*script.Node{{ID: "n", Text: "Rain streaks the windows."}},
	})
	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Dialogue = &state.Cursor{DialogueID: "scene", NodeID: "n"}

	if snap := Project(gs, reg); snap.Dialogue.Speaker != "Narrator" {
		t.Errorf("default narrator label wrong: %q", snap.Dialogue.Speaker)
	}

	gs.Locale = "fr"
	if snap := Project(gs, reg); snap.Dialogue.Speaker != "Narrateur" {
		t.Errorf("localized narrator label wrong: %q", snap.Dialogue.Speaker)
	}
}

func TestProjectDanglingCursorDegrades(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn"})
	gs.Dialogue = &state.Cursor{DialogueID: "ghost", NodeID: "n"}

	if snap := Project(gs, reg); snap.Dialogue != nil {
		t.Errorf("dangling dialogue reference should project no dialogue: %+v", snap.Dialogue)
	}
}

func TestProjectMap(t *testing.T) {
	reg := projectRegistry()
	reg.AddMap(&content.GameMap{
		ID:    "island",
		Name:  "The Island",
		Image: "island.png",
		Scale: 2,
		Markers: []content.MapMarker{
			{Location: "harbor_inn", X: 0, Y: 0},
			{Location: "docks", X: 3, Y: 4, Label: "Old Docks"},
		},
	})

	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	if snap := Project(gs, reg); snap.Map != nil {
		t.Error("map view must be absent while the map is locked")
	}

	gs.MapUnlocked = true
	snap := Project(gs, reg)
	if snap.Map == nil || len(snap.Map.Markers) != 2 {
		t.Fatalf("map view wrong: %+v", snap.Map)
	}
	// Unlabeled markers fall back to the location name.
	if snap.Map.Markers[0].Label != "The Harbor Inn" {
		t.Errorf("marker label wrong: %q", snap.Map.Markers[0].Label)
	}
	if !snap.Map.Markers[0].Current || snap.Map.Markers[1].Current {
		t.Errorf("current flag wrong: %+v", snap.Map.Markers)
	}
	if snap.Map.Markers[1].Label != "Old Docks" {
		t.Errorf("explicit label should win: %q", snap.Map.Markers[1].Label)
	}
}

func TestProjectInterlude(t *testing.T) {
	reg := projectRegistry()
	reg.AddInterlude(&content.Interlude{
		ID:     "shipwreck",
		Music:  "dirge",
		Sounds: []string{"gulls", "surf"},
		Text:   "@loc.inn.name",
	})

	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Interlude = "shipwreck"

	snap := Project(gs, reg)
	if snap.Interlude == nil {
		t.Fatal("expected interlude view")
	}
	if snap.Interlude.Scroll != "auto" || snap.Interlude.Speed != 1 {
		t.Errorf("interlude defaults wrong: %+v", snap.Interlude)
	}
	if snap.Interlude.Text != "The Harbor Inn" {
		t.Errorf("interlude text not resolved: %q", snap.Interlude.Text)
	}
	if len(snap.Interlude.Sounds) != 2 {
		t.Errorf("interlude sounds wrong: %v", snap.Interlude.Sounds)
	}

	gs.Interlude = "missing"
	if snap := Project(gs, reg); snap.Interlude != nil {
		t.Errorf("unknown interlude should project none: %+v", snap.Interlude)
	}
}

func TestProjectTransientCues(t *testing.T) {
	reg := projectRegistry()
	gs := state.New(state.Config{StartLocation: "harbor_inn", Locale: "en"})
	gs.Notifications = []string{"@loc.inn.name", "plain text"}
	gs.Sounds = []string{"door_creak"}
	gs.Video = "opening"

	snap := Project(gs, reg)
	if len(snap.Notifications) != 2 || snap.Notifications[0] != "The Harbor Inn" {
		t.Errorf("notifications should resolve text: %v", snap.Notifications)
	}
	if len(snap.Sounds) != 1 || snap.Sounds[0] != "door_creak" {
		t.Errorf("sounds pass through raw: %v", snap.Sounds)
	}
	if snap.Video != "opening" {
		t.Errorf("video wrong: %q", snap.Video)
	}

	// Projection is pure: the state still carries its cues afterwards.
	if len(gs.Notifications) != 2 || len(gs.Sounds) != 1 || gs.Video == "" {
		t.Error("Project must not clear state transients")
	}
}
