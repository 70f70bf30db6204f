// Package conditionals defines the tagged condition variants used to gate
// dialogue choices, branches and auto-triggers, and the pure evaluator that
// tests them against a game state.
package conditionals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/dice"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

// Kind discriminates the condition variants.
type Kind string

const (
	FlagSet             Kind = "flagSet"
	FlagNotSet          Kind = "flagNotSet"
	HasItem             Kind = "hasItem"
	VariableEquals      Kind = "variableEquals"
	VariableGreaterThan Kind = "variableGreaterThan"
	VariableLessThan    Kind = "variableLessThan"
	AtLocation          Kind = "atLocation"
	QuestAtStage        Kind = "questAtStage"
	ActorAtLocation     Kind = "actorAtLocation"
	ActorInParty        Kind = "actorInParty"
	RelationshipAbove   Kind = "relationshipAbove"
	RelationshipBelow   Kind = "relationshipBelow"
	TimeBetween         Kind = "timeBetween"
	ItemAtLocation      Kind = "itemAtLocation"
	RandomRoll          Kind = "randomRoll"
)

// Condition is one tagged predicate over session state. Which fields are
// meaningful depends on Kind; unused fields are zero.
type Condition struct {
	Kind Kind `json:"kind"`

	Name   string `json:"name,omitempty"`   // flag, variable, quest, actor or item id
	Target string `json:"target,omitempty"` // location id or quest stage id

	Value  any     `json:"value,omitempty"`  // comparison value (float64 or string)
	Number float64 `json:"number,omitempty"` // numeric threshold

	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// SyntaxError reports an unrecognized or malformed condition expression.
type SyntaxError struct {
	Expr string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("condition %q: %s", e.Expr, e.Msg)
}

// coerce converts a positional argument to float64 when it parses as a
// number, keeping it as a string otherwise.
func coerce(tok string) any {
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return n
	}
	return tok
}

func number(tok string) (float64, bool) {
	n, err := strconv.ParseFloat(tok, 64)
	return n, err == nil
}

// Parse compiles a single condition expression into a tagged Condition.
// The first whitespace-delimited token selects the kind; remaining tokens
// are positional arguments. Unknown keywords are a load-time error.
func Parse(expr string) (Condition, error) {
	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return Condition{}, &SyntaxError{Expr: expr, Msg: "empty expression"}
	}
	kw, args := fields[0], fields[1:]

	need := func(n int) error {
		if len(args) < n {
			return &SyntaxError{Expr: expr, Msg: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
		}
		return nil
	}
	num := func(i int) (float64, error) {
		n, ok := number(args[i])
		if !ok {
			return 0, &SyntaxError{Expr: expr, Msg: fmt.Sprintf("argument %q is not numeric", args[i])}
		}
		return n, nil
	}

	switch Kind(kw) {
	case FlagSet, FlagNotSet:
		if err := need(1); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: Kind(kw), Name: args[0]}, nil

	case HasItem:
		if err := need(1); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: HasItem, Name: args[0]}, nil

	case VariableEquals:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: VariableEquals, Name: args[0], Value: coerce(args[1])}, nil

	case VariableGreaterThan, VariableLessThan:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		n, err := num(1)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: Kind(kw), Name: args[0], Number: n}, nil

	case AtLocation:
		if err := need(1); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: AtLocation, Target: args[0]}, nil

	case QuestAtStage:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: QuestAtStage, Name: args[0], Target: args[1]}, nil

	case ActorAtLocation:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: ActorAtLocation, Name: args[0], Target: args[1]}, nil

	case ActorInParty:
		if err := need(1); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: ActorInParty, Name: args[0]}, nil

	case RelationshipAbove, RelationshipBelow:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		n, err := num(1)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: Kind(kw), Name: args[0], Number: n}, nil

	case TimeBetween:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		lo, err := num(0)
		if err != nil {
			return Condition{}, err
		}
		hi, err := num(1)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: TimeBetween, Min: int(lo), Max: int(hi)}, nil

	case ItemAtLocation:
		if err := need(2); err != nil {
			return Condition{}, err
		}
		return Condition{Kind: ItemAtLocation, Name: args[0], Target: args[1]}, nil

	case RandomRoll:
		if err := need(3); err != nil {
			return Condition{}, err
		}
		lo, err := num(0)
		if err != nil {
			return Condition{}, err
		}
		hi, err := num(1)
		if err != nil {
			return Condition{}, err
		}
		threshold, err := num(2)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Kind: RandomRoll, Min: int(lo), Max: int(hi), Number: threshold}, nil

	default:
		return Condition{}, &SyntaxError{Expr: expr, Msg: "unknown condition keyword " + kw}
	}
}

// Eval tests a single condition against a game state. Evaluation never
// errors: missing ids and non-numeric variables fail the predicate instead.
func Eval(c Condition, gs *state.GameState, roll dice.Roller) bool {
	switch c.Kind {
	case FlagSet:
		return gs.Flags[c.Name]

	case FlagNotSet:
		return !gs.Flags[c.Name]

	case HasItem:
		return gs.HasItem(c.Name)

	case VariableEquals:
		v, exists := gs.Vars[c.Name]
		if !exists {
			return false
		}
		if want, ok := c.Value.(float64); ok {
			got, isNum := v.(float64)
			return isNum && got == want
		}
		got, isStr := v.(string)
		want, _ := c.Value.(string)
		return isStr && got == want

	case VariableGreaterThan:
		n, ok := gs.NumberVar(c.Name)
		return ok && n > c.Number

	case VariableLessThan:
		n, ok := gs.NumberVar(c.Name)
		return ok && n < c.Number

	case AtLocation:
		return gs.Location == c.Target

	case QuestAtStage:
		return gs.Quests[c.Name] == c.Target

	case ActorAtLocation:
		a, ok := gs.Actors[c.Name]
		return ok && a.Location == c.Target

	case ActorInParty:
		a, ok := gs.Actors[c.Name]
		return ok && a.InParty

	case RelationshipAbove:
		a, ok := gs.Actors[c.Name]
		return ok && a.Relationship > c.Number

	case RelationshipBelow:
		a, ok := gs.Actors[c.Name]
		return ok && a.Relationship < c.Number

	case TimeBetween:
		h := gs.Time.Hour
		if c.Min <= c.Max {
			return h >= c.Min && h < c.Max
		}
		// Range crosses midnight: start inclusive, end exclusive.
		return h >= c.Min || h < c.Max

	case ItemAtLocation:
		return gs.Items[c.Name] == c.Target

	case RandomRoll:
		if roll == nil {
			return false
		}
		return float64(dice.RangeRoll(roll, c.Min, c.Max)) >= c.Number

	default:
		return false
	}
}

// EvalAll reports whether every condition in the list passes. An empty list
// is vacuously true.
func EvalAll(conds []Condition, gs *state.GameState, roll dice.Roller) bool {
	for _, c := range conds {
		if !Eval(c, gs, roll) {
			return false
		}
	}
	return true
}
