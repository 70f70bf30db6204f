// Command validate is the offline content checker. The engine deliberately
// tolerates dangling references at runtime; this tool catches them ahead of
// time, along with script syntax errors.
package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/dialogue-engine/internal/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/effects"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content-dir>\n", os.Args[0])
		os.Exit(1)
	}
	dir := os.Args[1]

	fmt.Printf("Validating %s...\n", dir)

	// Loading compiles every dialogue script; syntax errors surface here.
	reg, err := storage.LoadRegistry(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	v := &validator{reg: reg}
	v.checkDialogues()
	v.checkInterludes()

	if len(v.errors) > 0 {
		for _, e := range v.errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		fmt.Fprintf(os.Stderr, "Validation failed: %d problem(s)\n", len(v.errors))
		os.Exit(1)
	}

	fmt.Printf("Content is valid: %d dialogues, %d locations, %d locales.\n",
		len(reg.Dialogues), len(reg.Locations), len(reg.Locales))
}

type validator struct {
	reg    *content.Registry
	errors []string
}

func (v *validator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) checkDialogues() {
	for _, id := range v.reg.DialogueOrder {
		d := v.reg.Dialogues[id]

		if d.TriggerLocation != "" {
			if _, ok := v.reg.Locations[d.TriggerLocation]; !ok {
				v.errorf("dialogue %s: trigger location %q does not exist", id, d.TriggerLocation)
			}
		}
		if d.Node(d.StartNode) == nil {
			v.errorf("dialogue %s: start node %q does not exist", id, d.StartNode)
		}

		for _, n := range d.Nodes {
			v.checkNode(d, n)
		}
	}
}

func (v *validator) checkNode(d *script.Dialogue, n *script.Node) {
	if n.Next != "" && d.Node(n.Next) == nil {
		v.errorf("dialogue %s node %s: GOTO target %q does not exist", d.ID, n.ID, n.Next)
	}
	for _, br := range n.Branches {
		if d.Node(br.Target) == nil {
			v.errorf("dialogue %s node %s: branch target %q does not exist", d.ID, n.ID, br.Target)
		}
	}
	for _, ch := range n.Choices {
		if ch.Next != "" && d.Node(ch.Next) == nil {
			v.errorf("dialogue %s choice %s: target %q does not exist", d.ID, ch.ID, ch.Next)
		}
		v.checkEffects(d.ID, n.ID, ch.Effects)
	}
	v.checkEffects(d.ID, n.ID, n.Effects)
}

func (v *validator) checkEffects(dialogueID, nodeID string, effs []effects.Effect) {
	for _, e := range effs {
		switch e.Kind {
		case effects.ChangeLocation:
			if _, ok := v.reg.Locations[e.Target]; !ok {
				v.errorf("dialogue %s node %s: location %q does not exist", dialogueID, nodeID, e.Target)
			}
		case effects.StartDialogue:
			if _, ok := v.reg.Dialogues[e.Target]; !ok {
				v.errorf("dialogue %s node %s: dialogue %q does not exist", dialogueID, nodeID, e.Target)
			}
		case effects.AddItem, effects.RemoveItem, effects.MoveItem:
			if _, ok := v.reg.Items[e.Name]; !ok {
				v.errorf("dialogue %s node %s: item %q does not exist", dialogueID, nodeID, e.Name)
			}
		case effects.SetQuestStage:
			q, ok := v.reg.Quests[e.Name]
			if !ok {
				v.errorf("dialogue %s node %s: quest %q does not exist", dialogueID, nodeID, e.Name)
			} else if q.Stage(e.Target) == nil {
				v.errorf("dialogue %s node %s: quest %s has no stage %q", dialogueID, nodeID, e.Name, e.Target)
			}
		case effects.UnlockJournal:
			if _, ok := v.reg.Journal[e.Name]; !ok {
				v.errorf("dialogue %s node %s: journal entry %q does not exist", dialogueID, nodeID, e.Name)
			}
		case effects.StartInterlude:
			if _, ok := v.reg.Interludes[e.Name]; !ok {
				v.errorf("dialogue %s node %s: interlude %q does not exist", dialogueID, nodeID, e.Name)
			}
		}
	}
}

func (v *validator) checkInterludes() {
	for _, id := range v.reg.InterludeOrder {
		in := v.reg.Interludes[id]
		if in.Location != "" {
			if _, ok := v.reg.Locations[in.Location]; !ok {
				v.errorf("interlude %s: location %q does not exist", id, in.Location)
			}
		}
	}
}
