package view

import (
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/language"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

const narratorKey = "ui.narrator"

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_.]+)\}`)

// Project produces a snapshot from state and content. It is a pure function:
// it reads both inputs and writes neither.
func Project(gs *state.GameState, reg *content.Registry) *Snapshot {
	r := resolver{
		dict: localeDict(reg, gs.Locale),
		vars: gs.Vars,
	}

	snap := &Snapshot{
		Time:   gs.Time,
		Locale: gs.Locale,
		Notes:  append([]string(nil), gs.Notes...),
		Sounds: append([]string(nil), gs.Sounds...),
		Video:  gs.Video,
	}

	snap.Location = LocationView{ID: gs.Location}
	loc := reg.Locations[gs.Location]
	if loc != nil {
		snap.Location.Name = r.text(loc.Name)
		snap.Location.Description = r.text(loc.Description)
		snap.Location.Banner = loc.Banner
		snap.Music = loc.Music
		snap.Ambient = loc.Ambient
	}
	if gs.Music != "" {
		snap.Music = gs.Music
	}
	if gs.Ambient != "" {
		snap.Ambient = gs.Ambient
	}

	snap.Actors = actorsAt(gs, reg, &r, gs.Location)
	snap.Items = itemsAt(gs, reg, &r)
	snap.Dialogue = dialogueView(gs, reg, &r)
	snap.Party = partyView(gs, reg, &r)

	for _, id := range gs.Inventory {
		snap.Inventory = append(snap.Inventory, itemView(reg, &r, id))
	}

	snap.Quests = questViews(gs, reg, &r)

	for _, id := range gs.Journal {
		entry := reg.Journal[id]
		if entry == nil {
			continue
		}
		snap.Journal = append(snap.Journal, JournalView{
			ID:    id,
			Title: r.text(entry.Title),
			Text:  r.text(entry.Text),
		})
	}

	if gs.MapUnlocked {
		snap.Map = mapView(gs, reg, &r)
	}

	for _, n := range gs.Notifications {
		snap.Notifications = append(snap.Notifications, r.text(n))
	}

	if gs.Interlude != "" {
		snap.Interlude = interludeView(reg, &r, gs.Interlude)
	}

	return snap
}

// resolver applies the two text resolution passes: "@key" dictionary lookup
// (falling back to the raw string), then "{name}" variable interpolation
// (unknown names left untouched).
type resolver struct {
	dict map[string]string
	vars map[string]any
}

func (r *resolver) text(s string) string {
	if len(s) > 0 && s[0] == '@' {
		if v, ok := r.dict[s[1:]]; ok {
			s = v
		}
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := r.vars[name]
		if !ok {
			return m
		}
		switch val := v.(type) {
		case string:
			return val
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return m
		}
	})
}

// localeDict selects the active locale's dictionary. An exact id hit wins;
// otherwise the locale id is matched as a BCP 47 tag against the registered
// locales. Unknown locales fall back to an empty dictionary.
func localeDict(reg *content.Registry, localeID string) map[string]string {
	if l, ok := reg.Locales[localeID]; ok {
		return l.Strings
	}
	if localeID == "" || len(reg.Locales) == 0 {
		return map[string]string{}
	}

	want, err := language.Parse(localeID)
	if err != nil {
		return map[string]string{}
	}

	ids := make([]string, 0, len(reg.Locales))
	for id := range reg.Locales {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tags := make([]language.Tag, 0, len(ids))
	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		raw := reg.Locales[id].Tag
		if raw == "" {
			raw = id
		}
		tag, err := language.Parse(raw)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		candidates = append(candidates, id)
	}
	if len(tags) == 0 {
		return map[string]string{}
	}

	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return map[string]string{}
	}
	return reg.Locales[candidates[idx]].Strings
}

func actorsAt(gs *state.GameState, reg *content.Registry, r *resolver, locationID string) []ActorView {
	ids := make([]string, 0, len(gs.Actors))
	for id, a := range gs.Actors {
		if a.Location == locationID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	views := make([]ActorView, 0, len(ids))
	for _, id := range ids {
		views = append(views, actorView(reg, r, id))
	}
	return views
}

func actorView(reg *content.Registry, r *resolver, id string) ActorView {
	v := ActorView{ID: id, Name: id}
	if c := reg.Characters[id]; c != nil {
		v.Name = r.text(c.Name)
		v.Portrait = c.Portrait
	}
	return v
}

func itemsAt(gs *state.GameState, reg *content.Registry, r *resolver) []ItemView {
	ids := make([]string, 0)
	for id, loc := range gs.Items {
		if loc == gs.Location {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	views := make([]ItemView, 0, len(ids))
	for _, id := range ids {
		views = append(views, itemView(reg, r, id))
	}
	return views
}

func itemView(reg *content.Registry, r *resolver, id string) ItemView {
	v := ItemView{ID: id, Name: id}
	if it := reg.Items[id]; it != nil {
		v.Name = r.text(it.Name)
		v.Description = r.text(it.Description)
		v.Icon = it.Icon
	}
	return v
}

func partyView(gs *state.GameState, reg *content.Registry, r *resolver) []ActorView {
	ids := make([]string, 0)
	for id, a := range gs.Actors {
		if a.InParty {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	views := make([]ActorView, 0, len(ids))
	for _, id := range ids {
		views = append(views, actorView(reg, r, id))
	}
	return views
}

// dialogueView resolves the current node, if any. Choices are filtered to
// those whose conditions pass. The projector carries no randomness source,
// so a randomRoll condition gating a choice fails closed here.
func dialogueView(gs *state.GameState, reg *content.Registry, r *resolver) *DialogueView {
	if gs.Dialogue == nil {
		return nil
	}
	d := reg.Dialogues[gs.Dialogue.DialogueID]
	if d == nil {
		return nil
	}
	node := d.Node(gs.Dialogue.NodeID)
	if node == nil {
		return nil
	}

	dv := &DialogueView{
		Text:     r.text(node.Text),
		Voice:    node.Voice,
		Portrait: node.Portrait,
	}

	if node.Speaker == "" {
		dv.Speaker = "Narrator"
		if label, ok := r.dict[narratorKey]; ok {
			dv.Speaker = label
		}
	} else {
		dv.Speaker = node.Speaker
		if c := reg.Characters[node.Speaker]; c != nil {
			dv.Speaker = r.text(c.Name)
			if dv.Portrait == "" {
				dv.Portrait = c.Portrait
			}
		}
	}

	for _, ch := range node.Choices {
		if !conditionals.EvalAll(ch.Conditions, gs, nil) {
			continue
		}
		dv.Choices = append(dv.Choices, ChoiceView{ID: ch.ID, Text: r.text(ch.Text)})
	}
	return dv
}

func questViews(gs *state.GameState, reg *content.Registry, r *resolver) []QuestView {
	ids := make([]string, 0, len(gs.Quests))
	for id := range gs.Quests {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	views := make([]QuestView, 0, len(ids))
	for _, id := range ids {
		stageID := gs.Quests[id]
		qv := QuestView{ID: id, Name: id, Stage: stageID}
		if q := reg.Quests[id]; q != nil {
			qv.Name = r.text(q.Name)
			if st := q.Stage(stageID); st != nil {
				qv.Description = r.text(st.Description)
			}
		}
		views = append(views, qv)
	}
	return views
}

func mapView(gs *state.GameState, reg *content.Registry, r *resolver) *MapView {
	m := reg.FirstMap()
	if m == nil {
		return nil
	}
	mv := &MapView{ID: m.ID, Name: r.text(m.Name), Image: m.Image}
	for _, marker := range m.Markers {
		label := marker.Label
		if label == "" {
			if loc := reg.Locations[marker.Location]; loc != nil {
				label = loc.Name
			}
		}
		mv.Markers = append(mv.Markers, MarkerView{
			Location: marker.Location,
			Label:    r.text(label),
			X:        marker.X,
			Y:        marker.Y,
			Current:  marker.Location == gs.Location,
		})
	}
	return mv
}

func interludeView(reg *content.Registry, r *resolver, id string) *InterludeView {
	in := reg.Interludes[id]
	if in == nil {
		return nil
	}
	iv := &InterludeView{
		ID:         in.ID,
		Background: in.Background,
		Banner:     in.Banner,
		Music:      in.Music,
		Voice:      in.Voice,
		Sounds:     append([]string(nil), in.Sounds...),
		Scroll:     in.Scroll,
		Speed:      in.Speed,
		Text:       r.text(in.Text),
	}
	if iv.Scroll == "" {
		iv.Scroll = "auto"
	}
	if iv.Speed == 0 {
		iv.Speed = 1
	}
	return iv
}
