package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

// LoadRegistry builds the content registry from a content directory:
//
//	locations.json, characters.json, items.json, maps.json, quests.json,
//	journal.json, interludes.json   — JSON entity arrays (all optional)
//	locales/<id>.json               — one dictionary per locale
//	dialogues/<id>.dlg              — dialogue scripts, compiled on load
//
// Dialogue and map order in the registry follows sorted filename order, so
// auto-trigger scans are stable across runs.
func LoadRegistry(dir string) (*content.Registry, error) {
	reg := content.NewRegistry()

	var locations []*content.Location
	if err := readJSON(filepath.Join(dir, "locations.json"), &locations); err != nil {
		return nil, err
	}
	for _, l := range locations {
		reg.Locations[l.ID] = l
	}

	var characters []*content.Character
	if err := readJSON(filepath.Join(dir, "characters.json"), &characters); err != nil {
		return nil, err
	}
	for _, c := range characters {
		reg.Characters[c.ID] = c
	}

	var items []*content.Item
	if err := readJSON(filepath.Join(dir, "items.json"), &items); err != nil {
		return nil, err
	}
	for _, it := range items {
		reg.Items[it.ID] = it
	}

	var maps []*content.GameMap
	if err := readJSON(filepath.Join(dir, "maps.json"), &maps); err != nil {
		return nil, err
	}
	for _, m := range maps {
		reg.AddMap(m)
	}

	var quests []*content.Quest
	if err := readJSON(filepath.Join(dir, "quests.json"), &quests); err != nil {
		return nil, err
	}
	for _, q := range quests {
		reg.Quests[q.ID] = q
	}

	var journal []*content.JournalEntry
	if err := readJSON(filepath.Join(dir, "journal.json"), &journal); err != nil {
		return nil, err
	}
	for _, j := range journal {
		reg.Journal[j.ID] = j
	}

	var interludes []*content.Interlude
	if err := readJSON(filepath.Join(dir, "interludes.json"), &interludes); err != nil {
		return nil, err
	}
	for _, in := range interludes {
		for _, expr := range in.Require {
			cond, err := conditionals.Parse(expr)
			if err != nil {
				return nil, fmt.Errorf("interlude %s: %w", in.ID, err)
			}
			in.Conditions = append(in.Conditions, cond)
		}
		reg.AddInterlude(in)
	}

	if err := loadLocales(filepath.Join(dir, "locales"), reg); err != nil {
		return nil, err
	}
	if err := loadDialogues(filepath.Join(dir, "dialogues"), reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// LoadStartConfig reads the session start record from session.json.
func LoadStartConfig(dir string) (state.Config, error) {
	var cfg state.Config
	path := filepath.Join(dir, "session.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read start config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse start config: %w", err)
	}
	return cfg, nil
}

// readJSON unmarshals a JSON file into v. A missing file is not an error.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadLocales(dir string, reg *content.Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read locales dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		var loc content.Locale
		if err := readJSON(filepath.Join(dir, name), &loc); err != nil {
			return err
		}
		id := strings.TrimSuffix(name, ".json")
		if loc.Tag == "" {
			loc.Tag = id
		}
		reg.Locales[id] = &loc
	}
	return nil
}

func loadDialogues(dir string, reg *content.Registry) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read dialogues dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".dlg") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read dialogue %s: %w", name, err)
		}
		id := strings.TrimSuffix(name, ".dlg")
		d, err := script.Compile(id, string(src))
		if err != nil {
			return fmt.Errorf("dialogue %s: %w", name, err)
		}
		reg.AddDialogue(d)
	}
	return nil
}
