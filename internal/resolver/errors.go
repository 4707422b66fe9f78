package resolver

import (
	"errors"
	"fmt"
)

// Messages below are shown to users verbatim.
//
//nolint:staticcheck // ST1005: capitalized, punctuated messages are part of the CLI contract
var (
	// ErrInvalidRoot is returned when the project root is not an existing directory.
	ErrInvalidRoot = errors.New("Project's root must be a valid directory.")

	// ErrVersionFileMissing is returned when none of the lookup strategies found the file.
	ErrVersionFileMissing = errors.New("Version file missing, please check parameters / folders.")

	// ErrRead marks failures to open or read a resolved version file.
	ErrRead = errors.New("version file could not be read")

	// ErrUserAbort accompanies an Aborted result when the user rejected the version.
	ErrUserAbort = errors.New("Version number not accepted. User abort")

	// ErrNoPrompter is returned when confirmation was requested but no Prompter is set.
	ErrNoPrompter = errors.New("confirmation requested but no prompter configured")
)

// ReadError wraps the I/O failure hit while reading a version file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading version file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRead) match any ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrRead }

// IsRecoverable reports whether err is a lookup failure the caller may retry with
// different parameters.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidRoot) || errors.Is(err, ErrVersionFileMissing)
}
