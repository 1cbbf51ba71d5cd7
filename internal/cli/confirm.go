package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snippetnav/internal/navigator"
)

// confirmFunc asks the user to accept a delete prompt
type confirmFunc func(prompt navigator.Prompt, in io.Reader, out io.Writer) (bool, error)

type confirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var defaultConfirmKeys = confirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "ctrl+c"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// confirmModel is a y/n dialog for a delete prompt
type confirmModel struct {
	prompt    navigator.Prompt
	styles    styles
	keys      confirmKeyMap
	confirmed bool
	done      bool
}

func newConfirmModel(prompt navigator.Prompt, out io.Writer) confirmModel {
	return confirmModel{
		prompt: prompt,
		styles: newStyles(out),
		keys:   defaultConfirmKeys,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	body := m.styles.header.Render(m.prompt.Title) + "\n\n" + m.prompt.Description
	if a := m.prompt.Alert; a != nil {
		body += "\n\n" + m.styles.alert.Render(a.Title) + "\n" + a.Description
	}
	box := m.styles.dialog.Render(body)

	help := m.styles.muted.
		Width(lipgloss.Width(box)).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s? (y/n)", m.prompt.Label()))

	return lipgloss.JoinVertical(lipgloss.Left, box, help) + "\n"
}

// runConfirm shows the dialog until the user answers
func runConfirm(prompt navigator.Prompt, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(newConfirmModel(prompt, out), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm dialog: %w", err)
	}
	return final.(confirmModel).confirmed, nil
}
