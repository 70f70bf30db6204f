package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/dialogue-engine/internal/handlers"
	"github.com/jwebster45206/dialogue-engine/pkg/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	speakerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	choiceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
	noticeStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("141"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
	locationStyle = lipgloss.NewStyle().Underline(true)
)

type consoleUI struct {
	client    *apiClient
	sessionID string
	snap      *view.Snapshot

	vp       viewport.Model
	input    textinput.Model
	width    int
	height   int
	ready    bool
	errText  string
	quitting bool
}

type actionResultMsg struct {
	sess *handlers.SessionResponse
	err  error
}

func newConsoleUI(client *apiClient, sess *handlers.SessionResponse) *consoleUI {
	ti := textinput.New()
	ti.Placeholder = "1..9 pick a choice | talk <actor> | take <item> | go <location> | note <text> | locale <id> | quit"
	ti.Focus()

	return &consoleUI{
		client:    client,
		sessionID: sess.ID.String(),
		snap:      sess.View,
		input:     ti,
	}
}

func (m *consoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 4
		}
		m.vp.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			cmd := m.submit(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, cmd
		}

	case actionResultMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		} else {
			m.errText = ""
			m.snap = msg.sess.View
		}
		if m.ready {
			m.vp.SetContent(m.render())
			m.vp.GotoTop()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit turns console input into an engine action request.
func (m *consoleUI) submit(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	if line == "quit" || line == "exit" {
		m.quitting = true
		return tea.Quit
	}

	// A bare number picks the Nth visible choice.
	if n, err := strconv.Atoi(line); err == nil {
		if m.snap == nil || m.snap.Dialogue == nil || n < 1 || n > len(m.snap.Dialogue.Choices) {
			m.errText = "no such choice"
			return nil
		}
		return m.do(handlers.ActionRequest{Type: "choice", ChoiceID: m.snap.Dialogue.Choices[n-1].ID})
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch verb {
	case "talk":
		return m.do(handlers.ActionRequest{Type: "talk", ActorID: rest})
	case "take":
		return m.do(handlers.ActionRequest{Type: "take", ItemID: rest})
	case "go", "travel":
		return m.do(handlers.ActionRequest{Type: "travel", LocationID: rest})
	case "note":
		return m.do(handlers.ActionRequest{Type: "add_note", Text: rest})
	case "locale":
		return m.do(handlers.ActionRequest{Type: "locale", Locale: rest})
	default:
		m.errText = "unknown command: " + verb
		return nil
	}
}

func (m *consoleUI) do(req handlers.ActionRequest) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.client.action(m.sessionID, req)
		return actionResultMsg{sess: sess, err: err}
	}
}

func (m *consoleUI) render() string {
	if m.snap == nil {
		return "Loading..."
	}
	snap := m.snap
	width := max(20, m.width-2)
	var b strings.Builder

	b.WriteString(locationStyle.Render(snap.Location.Name))
	b.WriteString(fmt.Sprintf("  (day %d, %02d:00)\n\n", snap.Time.Day, snap.Time.Hour))
	if snap.Location.Description != "" {
		b.WriteString(wordwrap.String(snap.Location.Description, width))
		b.WriteString("\n\n")
	}

	for _, n := range snap.Notifications {
		b.WriteString(noticeStyle.Render("* "+n) + "\n")
	}
	if snap.Interlude != nil {
		b.WriteString(noticeStyle.Render(wordwrap.String(snap.Interlude.Text, width)) + "\n\n")
	}

	if snap.Dialogue != nil {
		b.WriteString(speakerStyle.Render(snap.Dialogue.Speaker) + "\n")
		b.WriteString(wordwrap.String(snap.Dialogue.Text, width))
		b.WriteString("\n\n")
		for i, ch := range snap.Dialogue.Choices {
			b.WriteString(choiceStyle.Render(fmt.Sprintf("  %d. %s", i+1, ch.Text)) + "\n")
		}
		b.WriteString("\n")
	}

	if len(snap.Actors) > 0 {
		names := make([]string, 0, len(snap.Actors))
		for _, a := range snap.Actors {
			names = append(names, a.Name)
		}
		b.WriteString("Here: " + strings.Join(names, ", ") + "\n")
	}
	if len(snap.Items) > 0 {
		names := make([]string, 0, len(snap.Items))
		for _, it := range snap.Items {
			names = append(names, it.Name)
		}
		b.WriteString("Items: " + strings.Join(names, ", ") + "\n")
	}
	if len(snap.Inventory) > 0 {
		names := make([]string, 0, len(snap.Inventory))
		for _, it := range snap.Inventory {
			names = append(names, it.Name)
		}
		b.WriteString("Carrying: " + strings.Join(names, ", ") + "\n")
	}
	for _, q := range snap.Quests {
		b.WriteString(fmt.Sprintf("Quest %s: %s\n", q.Name, q.Description))
	}

	return b.String()
}

func (m *consoleUI) View() string {
	if m.quitting {
		return "Goodbye.\n"
	}
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("Dialogue Engine Console")
	footer := footerStyle.Render("enter a command, esc to quit")
	if m.errText != "" {
		footer = errStyle.Render(m.errText)
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, m.vp.View(), m.input.View(), footer)
}
