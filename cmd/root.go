package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/developerkunal/versioner/internal/config"
	"github.com/developerkunal/versioner/internal/console"
	"github.com/developerkunal/versioner/internal/resolver"
	"github.com/developerkunal/versioner/internal/tui"
)

// Exit codes.
const (
	exitOK     = 0
	exitConfig = 1
	exitLookup = 2
	exitAbort  = 3
	exitPrompt = 4
)

// exitError carries the process exit code for err through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// flags holds per-invocation flag state.
type flags struct {
	root        string
	file        string
	configFile  string
	noConfig    bool
	noPrompt    bool
	ui          string
	maxAttempts int
	output      string
	logLevel    string
	verbose     bool
	noColor     bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "versioner",
		Short: "Find, read and confirm a project's version file",
		Long: `versioner: Locate a version file in a project tree, print its content and optionally ask for confirmation.

The file is looked up as given, then under --root, then anywhere below --root.`,
		Version:       GetVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd, f)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.root, "root", "r", resolver.DefaultRoot, "Project root to search from")
	pf.StringVarP(&f.file, "file", "f", resolver.DefaultFile, "Version file name or path")
	pf.StringVarP(&f.configFile, "config", "c", "", "Config file (default: "+config.RCFile+" if present)")
	pf.BoolVar(&f.noConfig, "no-config", false, "Ignore all config files")
	pf.StringVarP(&f.output, "output", "o", config.OutputText, "Output format (text, json, yaml)")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging and print a summary")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().BoolVar(&f.noPrompt, "no-prompt", false, "Print the version without asking for confirmation")
	rootCmd.Flags().StringVar(&f.ui, "ui", config.UILine, "Confirmation front end (line, tui)")
	rootCmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "Give up after this many invalid answers (0 keeps asking)")

	rootCmd.AddCommand(newGetCmd(f, rootCmd))
	rootCmd.AddCommand(newResolveCmd(f))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newGetCmd is an explicit alias for the root command.
func newGetCmd(f *flags, rootCmd *cobra.Command) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the version (same as running versioner without a command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd, f)
		},
	}
	getCmd.Flags().AddFlagSet(rootCmd.Flags())
	return getCmd
}

func newResolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the path of the version file and how it was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, f)
			if err != nil {
				return err
			}
			r := resolver.New(
				resolver.WithLogger(logger),
				resolver.WithSearchObserver(searchSpinner(cmd.ErrOrStderr())),
			)
			res, err := r.Resolve(cfg.Root, cfg.File)
			if err != nil {
				return &exitError{code: exitLookup, err: err}
			}
			return printResolution(cmd.OutOrStdout(), res, cfg.Output)
		},
	}
}

func runGet(cmd *cobra.Command, f *flags) error {
	cfg, logger, err := setup(cmd, f)
	if err != nil {
		return err
	}

	r := resolver.New(
		resolver.WithLogger(logger),
		resolver.WithPrompter(newPrompter(cmd, cfg, logger)),
		resolver.WithSearchObserver(searchSpinner(cmd.ErrOrStderr())),
	)
	res, err := r.GetVersion(cfg.Options())
	switch {
	case err == nil:
	case errors.Is(err, resolver.ErrUserAbort):
		return &exitError{code: exitAbort, err: err}
	case resolver.IsRecoverable(err), errors.Is(err, resolver.ErrRead):
		return &exitError{code: exitLookup, err: err}
	default:
		return &exitError{code: exitPrompt, err: err}
	}

	logger.Debug("version resolved", "path", res.Path, "strategy", res.Strategy)
	return printResult(cmd.OutOrStdout(), res, cfg.Output)
}

// setup loads the config, merges explicitly set flags and builds the logger.
func setup(cmd *cobra.Command, f *flags) (*config.Config, *log.Logger, error) {
	if err := validateFlags(cmd, f); err != nil {
		return nil, nil, &exitError{code: exitConfig, err: err}
	}
	cfg, err := config.LoadConfig(f.configFile, f.noConfig)
	if err != nil {
		return nil, nil, &exitError{code: exitConfig, err: fmt.Errorf("config error: %w", err)}
	}
	applyFlags(cmd, f, cfg)
	if err := validateMerged(cmd, cfg); err != nil {
		return nil, nil, &exitError{code: exitConfig, err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, &exitError{code: exitConfig, err: fmt.Errorf("config error: %w", err)}
	}
	if f.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, f.verbose, f.noColor)
	if f.verbose {
		printConfigSummary(cmd.ErrOrStderr(), cfg)
	}
	return cfg, logger, nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("root") {
		cfg.Root = f.root
	}
	if changed("file") {
		cfg.File = f.file
	}
	if changed("no-prompt") {
		cfg.Prompt = !f.noPrompt
	}
	if changed("ui") {
		cfg.UI = f.ui
	}
	if changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func newLogger(w io.Writer, level string, verbose, noColor bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "versioner",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

// newPrompter picks the confirmation front end. The full-screen UI needs a
// terminal on stdin; without one the line prompt is used.
func newPrompter(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) resolver.Prompter {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	if cfg.UI == config.UITUI {
		if console.IsTerminal(in) {
			return tui.Prompter{Options: []tea.ProgramOption{tea.WithInput(in), tea.WithOutput(out)}}
		}
		logger.Warn("stdin is not a terminal, falling back to the line prompt")
	}
	return &console.Confirmer{
		Console:     console.NewTerminal(in, out),
		MaxAttempts: cfg.MaxAttempts,
	}
}

// searchSpinner shows a spinner on w while the project tree is searched.
func searchSpinner(w io.Writer) func(root, file string) func() {
	if !console.IsTerminal(w) {
		return nil
	}
	return func(root, file string) func() {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Suffix = fmt.Sprintf(" searching %s for %s", root, file)
		s.Start()
		return s.Stop
	}
}

// Execute runs the root command.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI with explicit streams and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitConfig
}
