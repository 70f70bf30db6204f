// Package effects defines the tagged effect variants that dialogue scripts
// apply to session state, and the pure processor that applies them.
// Every application produces a new state record; the input is never written.
package effects

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/dice"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

// Kind discriminates the effect variants.
type Kind string

const (
	SetFlag          Kind = "setFlag"
	ClearFlag        Kind = "clearFlag"
	SetVariable      Kind = "setVariable"
	AddVariable      Kind = "addVariable"
	AddItem          Kind = "addItem"
	RemoveItem       Kind = "removeItem"
	MoveItem         Kind = "moveItem"
	ChangeLocation   Kind = "changeLocation"
	AdvanceTime      Kind = "advanceTime"
	SetQuestStage    Kind = "setQuestStage"
	UnlockJournal    Kind = "unlockJournal"
	StartDialogue    Kind = "startDialogue"
	EndDialogue      Kind = "endDialogue"
	MoveActor        Kind = "moveActor"
	AddToParty       Kind = "addToParty"
	RemoveFromParty  Kind = "removeFromParty"
	SetRelationship  Kind = "setRelationship"
	AddRelationship  Kind = "addRelationship"
	SetStat          Kind = "setStat"
	AddStat          Kind = "addStat"
	SetMapAvailable  Kind = "setMapAvailable"
	PlayMusic        Kind = "playMusic"
	PlayAmbient      Kind = "playAmbient"
	PlaySound        Kind = "playSound"
	ShowNotification Kind = "showNotification"
	PlayVideo        Kind = "playVideo"
	StartInterlude   Kind = "startInterlude"
	RollDice         Kind = "rollDice"
)

// Effect is one tagged state transformation. Which fields are meaningful
// depends on Kind; unused fields are zero.
type Effect struct {
	Kind Kind `json:"kind"`

	Name   string  `json:"name,omitempty"`   // flag, variable, item, actor, quest or asset id
	Target string  `json:"target,omitempty"` // location id, stage id, stat name or dialogue id
	Value  any     `json:"value,omitempty"`  // float64 or string payload
	Number float64 `json:"number,omitempty"` // numeric payload

	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// SyntaxError reports an unrecognized or malformed effect expression.
type SyntaxError struct {
	Expr string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("effect %q: %s", e.Expr, e.Msg)
}

func coerce(tok string) any {
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return n
	}
	return tok
}

// Parse compiles a single effect expression into a tagged Effect. The first
// whitespace-delimited token selects the kind; remaining tokens are
// positional. Unknown keywords are a load-time error.
func Parse(expr string) (Effect, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return Effect{}, &SyntaxError{Expr: expr, Msg: "empty expression"}
	}
	kw, args := fields[0], fields[1:]

	need := func(n int) error {
		if len(args) < n {
			return &SyntaxError{Expr: expr, Msg: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
		}
		return nil
	}
	num := func(i int) (float64, error) {
		n, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return 0, &SyntaxError{Expr: expr, Msg: fmt.Sprintf("argument %q is not numeric", args[i])}
		}
		return n, nil
	}
	// rest joins the remaining arguments so notification text may contain
	// spaces.
	rest := func(i int) string {
		return strings.Join(args[i:], " ")
	}

	switch Kind(kw) {
	case SetFlag, ClearFlag:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0]}, nil

	case SetVariable, AddVariable:
		if err := need(2); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0], Value: coerce(args[1])}, nil

	case AddItem, RemoveItem:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0]}, nil

	case MoveItem:
		if err := need(2); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: MoveItem, Name: args[0], Target: args[1]}, nil

	case ChangeLocation:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: ChangeLocation, Target: args[0]}, nil

	case AdvanceTime:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		n, err := num(0)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: AdvanceTime, Number: n}, nil

	case SetQuestStage:
		if err := need(2); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: SetQuestStage, Name: args[0], Target: args[1]}, nil

	case UnlockJournal:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: UnlockJournal, Name: args[0]}, nil

	case StartDialogue:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: StartDialogue, Target: args[0]}, nil

	case EndDialogue:
		return Effect{Kind: EndDialogue}, nil

	case MoveActor:
		if err := need(2); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: MoveActor, Name: args[0], Target: args[1]}, nil

	case AddToParty, RemoveFromParty:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0]}, nil

	case SetRelationship, AddRelationship:
		if err := need(2); err != nil {
			return Effect{}, err
		}
		n, err := num(1)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0], Number: n}, nil

	case SetStat, AddStat:
		if err := need(3); err != nil {
			return Effect{}, err
		}
		n, err := num(2)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0], Target: args[1], Number: n}, nil

	case SetMapAvailable:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: SetMapAvailable, Name: args[0]}, nil

	case PlayMusic, PlayAmbient, PlaySound, PlayVideo:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: Kind(kw), Name: args[0]}, nil

	case ShowNotification:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: ShowNotification, Value: rest(0)}, nil

	case StartInterlude:
		if err := need(1); err != nil {
			return Effect{}, err
		}
		return Effect{Kind: StartInterlude, Name: args[0]}, nil

	case RollDice:
		if err := need(3); err != nil {
			return Effect{}, err
		}
		lo, err := num(1)
		if err != nil {
			return Effect{}, err
		}
		hi, err := num(2)
		if err != nil {
			return Effect{}, err
		}
		return Effect{Kind: RollDice, Name: args[0], Min: int(lo), Max: int(hi)}, nil

	default:
		return Effect{}, &SyntaxError{Expr: expr, Msg: "unknown effect keyword " + kw}
	}
}

// Apply produces a new state with the effect applied. The input state is
// never modified. Effects referencing unknown ids are no-ops, never errors.
func Apply(gs *state.GameState, e Effect, roll dice.Roller) *state.GameState {
	next := gs.Clone()

	switch e.Kind {
	case SetFlag:
		next.Flags[e.Name] = true

	case ClearFlag:
		delete(next.Flags, e.Name)

	case SetVariable:
		next.Vars[e.Name] = e.Value

	case AddVariable:
		delta, ok := e.Value.(float64)
		if !ok {
			// Non-numeric payloads replace, matching set semantics.
			next.Vars[e.Name] = e.Value
			break
		}
		if cur, ok := next.NumberVar(e.Name); ok {
			next.Vars[e.Name] = cur + delta
		} else {
			// Absent or non-numeric initializes to the added value.
			next.Vars[e.Name] = delta
		}

	case AddItem:
		if !next.HasItem(e.Name) {
			next.Inventory = append(next.Inventory, e.Name)
		}

	case RemoveItem:
		// The item's last-known location record is left as-is; use moveItem
		// to relocate explicitly.
		if i := slices.Index(next.Inventory, e.Name); i >= 0 {
			next.Inventory = slices.Delete(next.Inventory, i, i+1)
		}

	case MoveItem:
		if i := slices.Index(next.Inventory, e.Name); i >= 0 {
			next.Inventory = slices.Delete(next.Inventory, i, i+1)
		}
		next.Items[e.Name] = e.Target

	case ChangeLocation:
		next.Location = e.Target

	case AdvanceTime:
		hours := next.Time.Hour + int(e.Number)
		next.Time.Day += hours / 24
		next.Time.Hour = hours % 24

	case SetQuestStage:
		next.Quests[e.Name] = e.Target

	case UnlockJournal:
		if !slices.Contains(next.Journal, e.Name) {
			next.Journal = append(next.Journal, e.Name)
		}

	case StartDialogue:
		// Empty node id is the sentinel: the engine resolves the dialogue's
		// declared start node on the next step.
		next.Dialogue = &state.Cursor{DialogueID: e.Target}

	case EndDialogue:
		next.Dialogue = nil

	case MoveActor:
		next.Actor(e.Name).Location = e.Target

	case AddToParty:
		next.Actor(e.Name).InParty = true

	case RemoveFromParty:
		next.Actor(e.Name).InParty = false

	case SetRelationship:
		next.Actor(e.Name).Relationship = e.Number

	case AddRelationship:
		next.Actor(e.Name).Relationship += e.Number

	case SetStat:
		a := next.Actor(e.Name)
		if a.Stats == nil {
			a.Stats = make(map[string]float64)
		}
		a.Stats[e.Target] = e.Number

	case AddStat:
		a := next.Actor(e.Name)
		if a.Stats == nil {
			a.Stats = make(map[string]float64)
		}
		a.Stats[e.Target] += e.Number

	case SetMapAvailable:
		next.MapUnlocked = e.Name == "true" || e.Name == "on"

	case PlayMusic:
		next.Music = e.Name

	case PlayAmbient:
		next.Ambient = e.Name

	case PlaySound:
		next.Sounds = append(next.Sounds, e.Name)

	case ShowNotification:
		text, _ := e.Value.(string)
		next.Notifications = append(next.Notifications, text)

	case PlayVideo:
		next.Video = e.Name

	case StartInterlude:
		next.Interlude = e.Name

	case RollDice:
		if roll != nil {
			next.Vars[e.Name] = float64(dice.RangeRoll(roll, e.Min, e.Max))
		}
	}

	return next
}

// ApplyAll folds a list of effects over the state left to right, in declared
// order. Order is observable: an addition followed by a set is not the same
// as a set followed by an addition.
func ApplyAll(gs *state.GameState, effs []Effect, roll dice.Roller) *state.GameState {
	for _, e := range effs {
		gs = Apply(gs, e, roll)
	}
	return gs
}
