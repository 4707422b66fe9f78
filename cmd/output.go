package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/developerkunal/versioner/internal/config"
	"github.com/developerkunal/versioner/internal/resolver"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// printResult writes the version in the requested format. Text output is the
// file content, unmodified.
func printResult(w io.Writer, res resolver.Result, format string) error {
	switch format {
	case config.OutputJSON:
		return writeJSON(w, res)
	case config.OutputYAML:
		return writeYAML(w, res)
	default:
		_, err := io.WriteString(w, res.Version)
		return err
	}
}

// printResolution writes where the version file was found.
func printResolution(w io.Writer, res resolver.Resolution, format string) error {
	out := struct {
		Path     string            `json:"path" yaml:"path"`
		Strategy resolver.Strategy `json:"strategy" yaml:"strategy"`
	}{res.Path, res.Strategy}

	switch format {
	case config.OutputJSON:
		return writeJSON(w, out)
	case config.OutputYAML:
		return writeYAML(w, out)
	default:
		_, err := fmt.Fprintf(w, "%s\t(%s)\n", res.Path, res.Strategy)
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// printConfigSummary prints the effective configuration
func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, headerStyle.Render("Loaded config:"))
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("Root:        "), cfg.Root)
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("File:        "), cfg.File)
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("Prompt:      "), statusText(cfg.Prompt))
	if cfg.Prompt {
		fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("UI:          "), cfg.UI)
		if cfg.MaxAttempts > 0 {
			fmt.Fprintf(w, "  %s %d\n", keyStyle.Render("Max attempts:"), cfg.MaxAttempts)
		}
	}
	fmt.Fprintf(w, "  %s %s\n", keyStyle.Render("Output:      "), cfg.Output)
}

// statusText returns green for true, red for false
func statusText(status bool) string {
	if status {
		return onStyle.Render("true")
	}
	return offStyle.Render("false")
}
