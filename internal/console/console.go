// Package console provides the terminal the line-based confirmation prompt talks to.
package console

import (
	"bufio"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// Console is what the confirmation prompt needs from a terminal.
type Console interface {
	io.Writer
	// Clear wipes the display before the prompt is rendered.
	Clear() error
	// ReadLine returns one line of input without its line terminator.
	ReadLine() (string, error)
}

// Terminal is a Console backed by a reader and a writer, normally stdin and stdout.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	clear bool
}

// NewTerminal creates a Terminal. The screen is only cleared when out is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		clear: IsTerminal(out),
	}
}

// IsTerminal reports whether v is a file descriptor attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadLine reads up to the next newline. A final line without newline is
// returned as is; io.EOF is only reported once nothing is left.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Clear runs the platform's clear-screen command against the output.
func (t *Terminal) Clear() error {
	if !t.clear {
		return nil
	}
	name, args := clearCommand(runtime.GOOS)
	proc := ExecCommand(name, args...)
	proc.Stdout = t.out
	return proc.Run()
}

func clearCommand(goos string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/c", "cls"}
	}
	return "clear", nil
}

// ExecCommand is a wrapper for exec.Command (for testability)
var ExecCommand = exec.Command
