// Package resolver locates a project's version file, reads the version string
// from it and optionally has the user confirm the value.
package resolver

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

const (
	// DefaultRoot is the parent of the working directory.
	DefaultRoot = "../"
	// DefaultFile is the conventional version file name.
	DefaultFile = "VERSION.txt"
)

// Prompter asks the user to accept or reject a version read from path.
type Prompter interface {
	Confirm(path, version string) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(path, version string) (bool, error)

// Confirm calls f(path, version).
func (f PrompterFunc) Confirm(path, version string) (bool, error) { return f(path, version) }

// Options control a single GetVersion call.
type Options struct {
	Root   string
	File   string
	Prompt bool
}

// DefaultOptions returns the options GetVersion is meant to be called with when
// the caller has no preference: parent directory, VERSION.txt, confirmation on.
func DefaultOptions() Options {
	return Options{
		Root:   DefaultRoot,
		File:   DefaultFile,
		Prompt: true,
	}
}

// Outcome tells whether the version was accepted or rejected by the user.
type Outcome int

const (
	Accepted Outcome = iota
	Aborted
)

func (o Outcome) String() string {
	if o == Aborted {
		return "aborted"
	}
	return "accepted"
}

// Result is everything GetVersion learned about the version file.
type Result struct {
	Path     string   `json:"path" yaml:"path"`
	Version  string   `json:"version" yaml:"version"`
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Outcome  Outcome  `json:"-" yaml:"-"`
	Prompted bool     `json:"prompted" yaml:"prompted"`
}

// Resolver finds and reads version files. It keeps no per-call state and can be
// reused freely.
type Resolver struct {
	logger   *log.Logger
	prompter Prompter
	onSearch func(root, file string) func()
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPrompter sets the Prompter used when Options.Prompt is true.
func WithPrompter(p Prompter) Option {
	return func(r *Resolver) { r.prompter = p }
}

// WithSearchObserver registers fn to be called when the recursive search starts.
// The returned func, if any, is called once the search finishes.
func WithSearchObserver(fn func(root, file string) func()) Option {
	return func(r *Resolver) { r.onSearch = fn }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadVersion returns the whole content of the file at path, untouched.
func ReadVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return string(data), nil
}

// GetVersion resolves the version file, reads it and, when opts.Prompt is set,
// asks the Prompter to confirm it. A rejected version yields a Result with
// Outcome Aborted together with ErrUserAbort.
func (r *Resolver) GetVersion(opts Options) (Result, error) {
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.Prompt && r.prompter == nil {
		return Result{}, ErrNoPrompter
	}

	res, err := r.Resolve(opts.Root, opts.File)
	if err != nil {
		return Result{}, err
	}

	version, err := ReadVersion(res.Path)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Path:     res.Path,
		Version:  version,
		Strategy: res.Strategy,
		Outcome:  Accepted,
	}
	if !opts.Prompt {
		return result, nil
	}

	result.Prompted = true
	ok, err := r.prompter.Confirm(res.Path, version)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		r.logger.Info("version rejected", "path", res.Path)
		result.Outcome = Aborted
		return result, ErrUserAbort
	}
	return result, nil
}
