package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user quits the prompt without answering.
var ErrInterrupted = errors.New("confirmation interrupted")

// Model is the Bubble Tea model of the version confirmation screen.
// It stays in the prompting state until the user presses y or n.
type Model struct {
	Path        string // Resolved version file
	Version     string // Raw version string read from Path
	Accepted    bool   // User pressed y
	Rejected    bool   // User pressed n
	Interrupted bool   // User pressed ctrl+c or esc
	Invalid     string // Last key that was not a valid answer
	ShowHelp    bool   // Whether to show the full help
	keys        keyMap
	help        help.Model
}

type keyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
	Help key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}, {k.Help, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Yes:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "accept")),
		No:   key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "reject")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

var (
	headerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("229")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("57")).Padding(0, 1)
)

func NewModel(path, version string) Model {
	return Model{
		Path:    path,
		Version: version,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.accept()
		case key.Matches(msg, m.keys.No):
			return m.reject()
		case key.Matches(msg, m.keys.Quit):
			return m.interrupt()
		case key.Matches(msg, m.keys.Help):
			return m.toggleHelp()
		default:
			m.Invalid = msg.String()
			return m, nil
		}
	}
	return m, nil
}

// accept moves to the accepted state and quits.
func (m Model) accept() (tea.Model, tea.Cmd) {
	m.Accepted = true
	return m, tea.Quit
}

// reject moves to the rejected state and quits.
func (m Model) reject() (tea.Model, tea.Cmd) {
	m.Rejected = true
	return m, tea.Quit
}

// interrupt quits without an answer.
func (m Model) interrupt() (tea.Model, tea.Cmd) {
	m.Interrupted = true
	return m, tea.Quit
}

// toggleHelp toggles the full help display.
func (m Model) toggleHelp() (tea.Model, tea.Cmd) {
	m.ShowHelp = !m.ShowHelp
	m.help.ShowAll = m.ShowHelp
	return m, nil
}

// Done reports whether the prompt has left the prompting state.
func (m Model) Done() bool {
	return m.Accepted || m.Rejected || m.Interrupted
}

func (m Model) View() string {
	if m.Done() {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Confirm version number"))
	b.WriteString("\n\n")
	body := fmt.Sprintf("%s %s\n%s %s",
		labelStyle.Render("File:   "), m.Path,
		labelStyle.Render("Version:"), versionStyle.Render(strings.TrimRight(m.Version, "\r\n")))
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n\n")
	if m.Invalid != "" {
		b.WriteString(invalidStyle.Render(fmt.Sprintf("%q is not a valid answer, press y or n.", m.Invalid)))
		b.WriteString("\n")
	}
	b.WriteString("Accept this version number? [y/n]\n\n")
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunConfirm launches the confirmation screen and reports whether the version
// was accepted.
func RunConfirm(path, version string, opts ...tea.ProgramOption) (bool, error) {
	p := tea.NewProgram(NewModel(path, version), opts...)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	model, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("unexpected model type")
	}
	if model.Interrupted {
		return false, ErrInterrupted
	}
	return model.Accepted, nil
}

// Prompter confirms versions through the full-screen UI.
type Prompter struct {
	Options []tea.ProgramOption
}

// Confirm implements resolver.Prompter. The alternate screen stands in for
// clearing the terminal.
func (p Prompter) Confirm(path, version string) (bool, error) {
	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, p.Options...)
	return RunConfirm(path, version, opts...)
}
