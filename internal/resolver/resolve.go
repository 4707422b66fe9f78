package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Strategy identifies which lookup tier located the version file.
type Strategy int

const (
	// StrategyExact means the file hint was itself an existing file path.
	StrategyExact Strategy = iota + 1
	// StrategyJoined means root joined with the file hint was an existing file.
	StrategyJoined
	// StrategySearch means the file was found by walking the root tree.
	StrategySearch
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyJoined:
		return "joined"
	case StrategySearch:
		return "search"
	default:
		return "unknown"
	}
}

// MarshalText renders the strategy name in JSON and YAML output.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	Root     string
	File     string
	Path     string
	Strategy Strategy
}

// Resolve locates the version file. The file hint is tried as a path on its own,
// then joined onto root, and finally searched for by base name below root.
//
// When several files below root share the name, the first one visited by
// filepath.WalkDir wins: entries are visited depth-first in lexical order.
func (r *Resolver) Resolve(root, file string) (Resolution, error) {
	if !isDir(root) {
		return Resolution{}, ErrInvalidRoot
	}

	res := Resolution{Root: root, File: file}

	if isFile(file) {
		r.logger.Debug("version file matched as given path", "path", file)
		res.Path, res.Strategy = file, StrategyExact
		return res, nil
	}

	joined := filepath.Join(root, file)
	if isFile(joined) {
		r.logger.Debug("version file matched under root", "path", joined)
		res.Path, res.Strategy = joined, StrategyJoined
		return res, nil
	}

	r.logger.Debug("searching project tree", "root", root, "file", file)
	if r.onSearch != nil {
		if done := r.onSearch(root, file); done != nil {
			defer done()
		}
	}
	found := r.search(root, file)
	if found == "" {
		return Resolution{}, ErrVersionFileMissing
	}
	r.logger.Debug("version file found by search", "path", found)
	res.Path, res.Strategy = found, StrategySearch
	return res, nil
}

// errFound stops the walk at the first match.
var errFound = errors.New("found")

// search walks root depth-first and returns the first regular file named name,
// or "" when there is none. Unreadable entries, root included, are skipped.
func (r *Resolver) search(root, name string) string {
	// WalkDir does not descend into a symlinked root unless it ends in a separator.
	walkRoot := root
	if !os.IsPathSeparator(walkRoot[len(walkRoot)-1]) {
		walkRoot += string(filepath.Separator)
	}

	var found string
	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Debug("skipping unreadable entry", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != name {
			return nil
		}
		if !isFile(path) {
			return nil
		}
		found = path
		return errFound
	})
	return found
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isFile reports whether path resolves, following symlinks, to a regular file.
func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
