package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"symtab/internal/script"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const historyLimit = 200

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
)

type model struct {
	app     *App
	input   textinput.Model
	runner  *script.Runner
	out     *bytes.Buffer
	history []string
	line    int
	errMsg  string
	height  int
}

func newModel(app *App) (model, error) {
	out := &bytes.Buffer{}
	app.Config.Output.Color = true
	runner, err := script.NewRunner(app.Config.Table.Buckets, app.scriptOptions(out, nil))
	if err != nil {
		return model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "I name type | L name | D name | W name | F glob | S | E | P A | P C | Q"
	ti.Prompt = "> "
	ti.Focus()

	return model{
		app:    app,
		input:  ti,
		runner: runner,
		out:    out,
	}, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.runner.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case tea.WindowSizeMsg:
		_, v := docStyle.GetFrameSize()
		m.height = msg.Height - v
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if text == "" {
		return m, nil
	}
	m.line++
	cmd, err := script.ParseLine(m.line, text)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	quit := m.runner.Exec(cmd)
	m.appendOutput()
	if quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) appendOutput() {
	if m.out.Len() == 0 {
		return
	}
	m.history = append(m.history, strings.Split(strings.TrimRight(m.out.String(), "\n"), "\n")...)
	m.out.Reset()
	if over := len(m.history) - historyLimit; over > 0 {
		m.history = m.history[over:]
	}
}

func (m model) View() string {
	var b strings.Builder
	st := m.runner.Table()

	b.WriteString(titleStyle("Scoped symbol table"))
	b.WriteString("\n")
	if cur := st.Current(); cur != nil {
		b.WriteString(statusStyle.Render(fmt.Sprintf("current scope %d (%s), depth %d, %d buckets",
			cur.ID(), cur.Label(), st.Depth(), st.BucketCount())))
	}
	b.WriteString("\n\n")

	var chain bytes.Buffer
	p := m.app.printer(&chain)
	p.Chain(st.Scopes())
	b.WriteString(panelStyle.Render(strings.TrimRight(chain.String(), "\n")))
	b.WriteString("\n\n")

	visible := m.history
	if limit := m.height - 12 - st.Depth()*2; limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	for _, l := range visible {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("enter to run, esc to quit"))

	return docStyle.Render(b.String())
}

// RunUI starts an interactive session against a fresh symbol table.
func (a *App) RunUI(ctx context.Context) error {
	m, err := newModel(a)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
