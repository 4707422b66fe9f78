package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func failPrompter(t *testing.T) Prompter {
	return PrompterFunc(func(string, string) (bool, error) {
		t.Error("prompter must not be called")
		return false, nil
	})
}

func answer(ok bool) Prompter {
	return PrompterFunc(func(string, string) (bool, error) { return ok, nil })
}

func TestResolveInvalidRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	regular := writeFile(t, filepath.Join(dir, "VERSION.txt"), "1.0")

	for name, root := range map[string]string{
		"missing": filepath.Join(dir, "yolo420"),
		"file":    regular,
		"empty":   "",
		"nested":  filepath.Join(regular, "child"),
	} {
		t.Run(name, func(t *testing.T) {
			// Even a valid absolute file path must not bypass the root check.
			_, err := New().Resolve(root, regular)
			require.ErrorIs(t, err, ErrInvalidRoot)
			assert.Equal(t, "Project's root must be a valid directory.", err.Error())
		})
	}
}

func TestResolveExactPathWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION.txt"), "root")
	other := writeFile(t, filepath.Join(t.TempDir(), "elsewhere", "VERSION.txt"), "other")

	res, err := New().Resolve(root, other)
	require.NoError(t, err)
	assert.Equal(t, other, res.Path)
	assert.Equal(t, StrategyExact, res.Strategy)
}

func TestResolveJoinedBeforeSearch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	top := writeFile(t, filepath.Join(root, "non_def_version.txt"), "2.01")
	writeFile(t, filepath.Join(root, "a", "non_def_version.txt"), "deeper")

	res, err := New().Resolve(root, "non_def_version.txt")
	require.NoError(t, err)
	assert.Equal(t, top, res.Path)
	assert.Equal(t, StrategyJoined, res.Strategy)
}

func TestResolveSearch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := writeFile(t, filepath.Join(root, "a", "b", "test_version.txt"), "1.00")

	res, err := New().Resolve(root, "test_version.txt")
	require.NoError(t, err)
	assert.Equal(t, nested, res.Path)
	assert.Equal(t, StrategySearch, res.Strategy)
}

func TestResolveSearchIgnoresDirectoriesWithTheName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "VERSION.txt"), 0o755))
	file := writeFile(t, filepath.Join(root, "b", "VERSION.txt"), "3.0")

	res, err := New().Resolve(root, "VERSION.txt")
	require.NoError(t, err)
	assert.Equal(t, file, res.Path)
}

func TestResolveSearchLexicalTieBreak(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zeta", "v.txt"), "z")
	first := writeFile(t, filepath.Join(root, "alpha", "deep", "v.txt"), "a")
	writeFile(t, filepath.Join(root, "beta", "v.txt"), "b")

	res, err := New().Resolve(root, "v.txt")
	require.NoError(t, err)
	assert.Equal(t, first, res.Path)
}

func TestResolveSearchSymlinkedRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	writeFile(t, filepath.Join(target, "a", "b", "test_version.txt"), "1.00")
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	for _, root := range []string{link, link + string(filepath.Separator)} {
		res, err := New().Resolve(root, "test_version.txt")
		require.NoError(t, err, root)
		assert.Equal(t, filepath.Join(link, "a", "b", "test_version.txt"), res.Path)
		assert.Equal(t, StrategySearch, res.Strategy)
	}
}

func TestResolveUnreadableRoot(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "VERSION.txt"), "1.0")
	require.NoError(t, os.Chmod(root, 0o000))
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	_, err := New().Resolve(root, "VERSION.txt")
	require.ErrorIs(t, err, ErrVersionFileMissing)
	assert.True(t, IsRecoverable(err))
}

func TestResolveMissing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "VERSION.txt"), "1.0")

	_, err := New().Resolve(root, "blah_test_version.txt")
	require.ErrorIs(t, err, ErrVersionFileMissing)
	assert.Equal(t, "Version file missing, please check parameters / folders.", err.Error())
	assert.True(t, IsRecoverable(err))
}

func TestResolvePathHintIsNotSearchedByBaseName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", "VERSION.txt"), "1.0")

	_, err := New().Resolve(root, filepath.Join("nope", "VERSION.txt"))
	require.ErrorIs(t, err, ErrVersionFileMissing)
}

func TestSearchObserverOnlyForSearch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION.txt"), "1.0")
	writeFile(t, filepath.Join(root, "sub", "deep.txt"), "2.0")

	var started, finished int
	r := New(WithSearchObserver(func(string, string) func() {
		started++
		return func() { finished++ }
	}))

	_, err := r.Resolve(root, "VERSION.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, started)

	_, err = r.Resolve(root, "deep.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, finished)
}

func TestReadVersionVerbatim(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, content := range map[string]string{
		"bare":    "1.02",
		"newline": "1.02\n",
		"padded":  "  1.02 \r\n",
		"empty":   "",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, name+".txt"), content)
			got, err := ReadVersion(path)
			require.NoError(t, err)
			assert.Equal(t, content, got)
		})
	}
}

func TestReadVersionFailure(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.txt")
	_, err := ReadVersion(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, path, re.Path)
	assert.False(t, IsRecoverable(err))
}

func TestGetVersionWithoutPrompt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeFile(t, filepath.Join(root, "VERSION.txt"), "1.02")

	res, err := New(WithPrompter(failPrompter(t))).GetVersion(Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, "1.02", res.Version)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, Accepted, res.Outcome)
	assert.False(t, res.Prompted)
}

func TestGetVersionNestedFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "test_version.txt"), "1.00")

	res, err := New().GetVersion(Options{Root: root, File: "test_version.txt"})
	require.NoError(t, err)
	assert.Equal(t, "1.00", res.Version)
	assert.Equal(t, StrategySearch, res.Strategy)
}

func TestGetVersionMissing(t *testing.T) {
	t.Parallel()

	_, err := New().GetVersion(Options{Root: t.TempDir(), File: "missing.txt"})
	require.ErrorIs(t, err, ErrVersionFileMissing)
	assert.EqualError(t, err, "Version file missing, please check parameters / folders.")
}

func TestGetVersionAccepted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := writeFile(t, filepath.Join(root, "VERSION.txt"), "1.02")

	var gotPath, gotVersion string
	p := PrompterFunc(func(path, version string) (bool, error) {
		gotPath, gotVersion = path, version
		return true, nil
	})

	res, err := New(WithPrompter(p)).GetVersion(Options{Root: root, Prompt: true})
	require.NoError(t, err)
	assert.Equal(t, "1.02", res.Version)
	assert.True(t, res.Prompted)
	assert.Equal(t, path, gotPath)
	assert.Equal(t, "1.02", gotVersion)
}

func TestGetVersionAborted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION.txt"), "1.02")

	res, err := New(WithPrompter(answer(false))).GetVersion(Options{Root: root, Prompt: true})
	require.ErrorIs(t, err, ErrUserAbort)
	assert.EqualError(t, err, "Version number not accepted. User abort")
	assert.Equal(t, Aborted, res.Outcome)
	assert.False(t, IsRecoverable(err))
}

func TestGetVersionPromptError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "VERSION.txt"), "1.02")
	boom := errors.New("stdin closed")

	p := PrompterFunc(func(string, string) (bool, error) { return false, boom })
	_, err := New(WithPrompter(p)).GetVersion(Options{Root: root, Prompt: true})
	require.ErrorIs(t, err, boom)
}

func TestGetVersionNoPrompter(t *testing.T) {
	t.Parallel()

	_, err := New().GetVersion(Options{Root: t.TempDir(), Prompt: true})
	require.ErrorIs(t, err, ErrNoPrompter)
}

func TestGetVersionDefaults(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "VERSION.txt"), "1.02")
	work := filepath.Join(base, "tests")
	require.NoError(t, os.MkdirAll(work, 0o755))
	t.Chdir(work)

	opts := DefaultOptions()
	assert.Equal(t, "../", opts.Root)
	assert.Equal(t, "VERSION.txt", opts.File)
	assert.True(t, opts.Prompt)

	res, err := New(WithPrompter(answer(true))).GetVersion(opts)
	require.NoError(t, err)
	assert.Equal(t, "1.02", res.Version)
	assert.Equal(t, StrategyJoined, res.Strategy)

	// Zero options fall back to the same root and file.
	res, err = New().GetVersion(Options{})
	require.NoError(t, err)
	assert.Equal(t, "1.02", res.Version)
}

func TestResolverReuse(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "VERSION.txt"), "1.0")

	r := New()
	_, err := r.GetVersion(Options{Root: first})
	require.NoError(t, err)

	_, err = r.GetVersion(Options{Root: second})
	require.ErrorIs(t, err, ErrVersionFileMissing)
}

func TestStrategyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exact", StrategyExact.String())
	assert.Equal(t, "joined", StrategyJoined.String())
	assert.Equal(t, "search", StrategySearch.String())
	assert.Equal(t, "unknown", Strategy(0).String())
	assert.Equal(t, "aborted", Aborted.String())
}
