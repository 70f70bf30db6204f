// Package script compiles the plain-text dialogue scripting language into
// dialogue graphs. Compilation is the only place syntax errors can occur;
// the compiled graph is executed by the engine without further validation.
package script

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/effects"
)

// Dialogue is a compiled dialogue graph.
type Dialogue struct {
	ID              string                   `json:"id"`
	TriggerLocation string                   `json:"trigger_location,omitempty"` // auto-start on entering this location
	Conditions      []conditionals.Condition `json:"conditions,omitempty"`       // gate the auto-start
	StartNode       string                   `json:"start_node"`
	Nodes           []*Node                  `json:"nodes"`
}

// Node returns the node with the given id, or nil.
func (d *Dialogue) Node(id string) *Node {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Branch is one conditional routing entry. Branches are evaluated in
// declared order; the first whose conditions all pass wins.
type Branch struct {
	Conditions []conditionals.Condition `json:"conditions"`
	Target     string                   `json:"target"`
}

// Node is one point in a conversation. An empty Choices list means the node
// auto-advances through Branches, then Next; no match ends the dialogue.
type Node struct {
	ID       string `json:"id"`
	Speaker  string `json:"speaker,omitempty"` // empty means narration
	Text     string `json:"text"`              // literal, or "@key" localization reference
	Voice    string `json:"voice,omitempty"`
	Portrait string `json:"portrait,omitempty"`

	Choices  []*Choice        `json:"choices,omitempty"`
	Effects  []effects.Effect `json:"effects,omitempty"` // run once, when the node is reached
	Branches []Branch         `json:"branches,omitempty"`
	Next     string           `json:"next,omitempty"` // default target when no branch passes
}

// Choice is a player-selectable option. An empty Next ends the dialogue.
type Choice struct {
	ID         string                   `json:"id"`
	Text       string                   `json:"text"`
	Conditions []conditionals.Condition `json:"conditions,omitempty"` // all must pass for visibility
	Effects    []effects.Effect         `json:"effects,omitempty"`    // run once, when chosen
	Next       string                   `json:"next,omitempty"`
}

const choiceIDMaxTextLen = 32

// ChoiceID derives a choice's id from its owning node and its source text.
// The same node id and text always produce the same id: non-alphanumeric
// runs collapse to a single underscore, the result is lower-cased and
// truncated.
func ChoiceID(nodeID, text string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(text) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
		if b.Len() >= choiceIDMaxTextLen {
			break
		}
	}
	return nodeID + "_" + strings.TrimRight(b.String(), "_")
}

// SyntaxError is a load-time compilation failure carrying the source line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
