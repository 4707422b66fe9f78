package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// State is a step of the confirmation prompt.
type State int

const (
	Prompting State = iota
	Accepted
	Rejected
)

func (s State) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "prompting"
	}
}

var (
	// ErrNoInput is returned when input ends before a valid answer was given.
	ErrNoInput = errors.New("no answer given: input closed")
	// ErrTooManyAttempts is returned when MaxAttempts invalid answers were given.
	ErrTooManyAttempts = errors.New("no valid answer given")
)

// Next maps one line of input to the state it leads to.
func Next(input string) State {
	switch strings.ToLower(input) {
	case "y":
		return Accepted
	case "n":
		return Rejected
	default:
		return Prompting
	}
}

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Confirmer asks the user on a Console to accept a version with y or n.
type Confirmer struct {
	Console Console
	// MaxAttempts caps the number of prompts. Zero keeps asking until a valid
	// answer or the end of input.
	MaxAttempts int
}

// NewConfirmer returns a Confirmer without an attempt cap.
func NewConfirmer(c Console) *Confirmer {
	return &Confirmer{Console: c}
}

// Confirm renders the path and version and reads answers until one is y or n.
func (c *Confirmer) Confirm(path, version string) (bool, error) {
	var invalid *string
	for attempt := 1; ; attempt++ {
		if c.MaxAttempts > 0 && attempt > c.MaxAttempts {
			return false, fmt.Errorf("%w after %d attempts", ErrTooManyAttempts, c.MaxAttempts)
		}

		// A failed clear leaves the previous output on screen.
		_ = c.Console.Clear()
		c.render(path, version, invalid)

		line, err := c.Console.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, ErrNoInput
			}
			return false, fmt.Errorf("reading answer: %w", err)
		}

		switch Next(line) {
		case Accepted:
			return true, nil
		case Rejected:
			return false, nil
		}
		invalid = &line
	}
}

func (c *Confirmer) render(path, version string, invalid *string) {
	fmt.Fprintf(c.Console, "%s %s\n", labelStyle.Render("Version file:"), path)
	fmt.Fprintf(c.Console, "%s %s\n\n", labelStyle.Render("Version number:"),
		versionStyle.Render(strings.TrimRight(version, "\r\n")))
	if invalid != nil {
		fmt.Fprintln(c.Console, hintStyle.Render(fmt.Sprintf("%q is not a valid answer, type y or n.", *invalid)))
	}
	fmt.Fprint(c.Console, promptStyle.Render("Accept this version number? [y/n]: "))
}
