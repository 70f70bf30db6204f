package script

import (
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/conditionals"
	"github.com/jwebster45206/dialogue-engine/pkg/effects"
)

// Compile parses dialogue source into a graph. The first NODE encountered
// becomes the start node. Unknown keywords and unterminated blocks are
// load-time fatal errors carrying the source line number.
func Compile(id, src string) (*Dialogue, error) {
	p := &parser{lines: Tokenize(src)}
	d := &Dialogue{ID: id}

	for !p.done() {
		ln := p.next()
		kw, rest := splitKeyword(ln.Text)
		switch kw {
		case "TRIGGER":
			d.TriggerLocation = rest

		case "REQUIRE":
			c, err := conditionals.Parse(rest)
			if err != nil {
				return nil, &SyntaxError{Line: ln.Number, Msg: err.Error()}
			}
			d.Conditions = append(d.Conditions, c)

		case "NODE":
			if rest == "" {
				return nil, &SyntaxError{Line: ln.Number, Msg: "NODE requires an id"}
			}
			n, err := p.parseNode(rest)
			if err != nil {
				return nil, err
			}
			d.Nodes = append(d.Nodes, n)
			if d.StartNode == "" {
				d.StartNode = n.ID
			}

		default:
			return nil, &SyntaxError{Line: ln.Number, Msg: "unexpected keyword " + kw}
		}
	}

	if len(d.Nodes) == 0 {
		return nil, &SyntaxError{Line: 1, Msg: "dialogue has no nodes"}
	}
	return d, nil
}

type parser struct {
	lines []Line
	pos   int
}

func (p *parser) done() bool {
	return p.pos >= len(p.lines)
}

func (p *parser) peek() Line {
	return p.lines[p.pos]
}

func (p *parser) next() Line {
	ln := p.lines[p.pos]
	p.pos++
	return ln
}

// parseNode consumes a NODE block until the next NODE or end of input.
func (p *parser) parseNode(id string) (*Node, error) {
	n := &Node{ID: id}

	for !p.done() {
		if kw, _ := splitKeyword(p.peek().Text); kw == "NODE" {
			break
		}
		ln := p.next()
		kw, rest := splitKeyword(ln.Text)

		switch kw {
		case "CHOICE":
			if err := p.parseChoice(n, rest, ln); err != nil {
				return nil, err
			}

		case "IF":
			if err := p.parseIf(n, rest, ln); err != nil {
				return nil, err
			}

		case "VOICE":
			n.Voice = rest

		case "PORTRAIT":
			n.Portrait = rest

		case "GOTO":
			if loc, ok := locationTarget(rest); ok {
				n.Effects = append(n.Effects,
					effects.Effect{Kind: effects.ChangeLocation, Target: loc},
					effects.Effect{Kind: effects.EndDialogue})
			} else {
				n.Next = rest
			}

		case "END":
			return nil, &SyntaxError{Line: ln.Number, Msg: "END without an open block"}

		default:
			if speaker, text, ok := speakerLine(ln.Text); ok {
				n.Speaker = speaker
				n.Text = parseText(text)
				continue
			}
			e, err := effects.Parse(ln.Text)
			if err != nil {
				return nil, &SyntaxError{Line: ln.Number, Msg: err.Error()}
			}
			n.Effects = append(n.Effects, e)
		}
	}

	return n, nil
}

// parseChoice consumes a CHOICE block, closed by END at the opener's
// indentation.
func (p *parser) parseChoice(n *Node, rawText string, opener Line) error {
	text := parseText(rawText)
	c := &Choice{ID: ChoiceID(n.ID, text), Text: text}

	for {
		if p.done() {
			return &SyntaxError{Line: opener.Number, Msg: "unterminated CHOICE block"}
		}
		ln := p.next()
		if ln.Text == "END" && ln.Indent == opener.Indent {
			break
		}
		kw, rest := splitKeyword(ln.Text)

		switch kw {
		case "REQUIRE":
			cond, err := conditionals.Parse(rest)
			if err != nil {
				return &SyntaxError{Line: ln.Number, Msg: err.Error()}
			}
			c.Conditions = append(c.Conditions, cond)

		case "GOTO":
			if loc, ok := locationTarget(rest); ok {
				c.Effects = append(c.Effects,
					effects.Effect{Kind: effects.ChangeLocation, Target: loc},
					effects.Effect{Kind: effects.EndDialogue})
			} else {
				c.Next = rest
			}

		default:
			e, err := effects.Parse(ln.Text)
			if err != nil {
				return &SyntaxError{Line: ln.Number, Msg: err.Error()}
			}
			c.Effects = append(c.Effects, e)
		}
	}

	n.Choices = append(n.Choices, c)
	return nil
}

// parseIf consumes an IF block, closed by END at the opener's indentation.
// A GOTO inside records a conditional branch; every other line is a node
// effect that runs whenever the node is reached, whether or not the branch
// is taken.
func (p *parser) parseIf(n *Node, expr string, opener Line) error {
	cond, err := conditionals.Parse(expr)
	if err != nil {
		return &SyntaxError{Line: opener.Number, Msg: err.Error()}
	}

	for {
		if p.done() {
			return &SyntaxError{Line: opener.Number, Msg: "unterminated IF block"}
		}
		ln := p.next()
		if ln.Text == "END" && ln.Indent == opener.Indent {
			break
		}
		kw, rest := splitKeyword(ln.Text)

		if kw == "GOTO" {
			if loc, ok := locationTarget(rest); ok {
				n.Effects = append(n.Effects,
					effects.Effect{Kind: effects.ChangeLocation, Target: loc},
					effects.Effect{Kind: effects.EndDialogue})
				continue
			}
			n.Branches = append(n.Branches, Branch{
				Conditions: []conditionals.Condition{cond},
				Target:     rest,
			})
			continue
		}

		e, err := effects.Parse(ln.Text)
		if err != nil {
			return &SyntaxError{Line: ln.Number, Msg: err.Error()}
		}
		n.Effects = append(n.Effects, e)
	}

	return nil
}

// splitKeyword cuts the first whitespace-delimited token from a line.
func splitKeyword(text string) (string, string) {
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i+1:])
}

// locationTarget recognizes the "GOTO location <id>" sugar form.
func locationTarget(rest string) (string, bool) {
	kw, id, _ := strings.Cut(rest, " ")
	if kw == "location" && id != "" {
		return strings.TrimSpace(id), true
	}
	return "", false
}

// speakerLine recognizes "<SPEAKER>: <text>". NARRATOR maps to no speaker.
func speakerLine(text string) (speaker, spoken string, ok bool) {
	idx := strings.Index(text, ":")
	if idx <= 0 {
		return "", "", false
	}
	name := text[:idx]
	if strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	spoken = strings.TrimSpace(text[idx+1:])
	if name == "NARRATOR" {
		return "", spoken, true
	}
	return name, spoken, true
}

// parseText interprets a DSL text value: a leading '@' marks a localization
// key and is kept verbatim, surrounding double quotes are stripped, anything
// else is literal.
func parseText(s string) string {
	if strings.HasPrefix(s, "@") {
		return s
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
