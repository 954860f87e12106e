package sfx

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe is an in-memory filename-existence view.
type fakeProbe struct {
	existing map[string]bool
}

func (p *fakeProbe) Exists(path string) bool { return p.existing[path] }

func newTestResolver(t *testing.T, existing ...string) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	probe := &fakeProbe{existing: make(map[string]bool)}
	for _, name := range existing {
		probe.existing[filepath.Join(root, name)] = true
	}
	r := NewResolver(root)
	r.Probe = probe
	return r, root
}

var defaultNamePattern = regexp.MustCompile(`^sfx_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.mp3$`)

func TestResolveDefaultFilename(t *testing.T) {
	r, root := newTestResolver(t)

	target, err := r.Resolve("", "")
	require.NoError(t, err)

	assert.Equal(t, root, target.Dir)
	assert.Regexp(t, defaultNamePattern, target.Filename)
	assert.Equal(t, filepath.Join(root, target.Filename), target.Path)
	assert.True(t, filepath.IsAbs(target.Path))
}

func TestResolveAppendsExtension(t *testing.T) {
	r, root := newTestResolver(t)

	target, err := r.Resolve("", "meow")
	require.NoError(t, err)

	assert.Equal(t, "meow.mp3", target.Filename)
	assert.Equal(t, filepath.Join(root, "meow.mp3"), target.Path)
}

func TestResolveKeepsForeignExtension(t *testing.T) {
	r, _ := newTestResolver(t)

	target, err := r.Resolve("", "meow.wav")
	require.NoError(t, err)

	assert.Equal(t, "meow.wav", target.Filename)
}

func TestResolveVersioning(t *testing.T) {
	r, _ := newTestResolver(t, "meow.mp3", "meow_v2.mp3")

	target, err := r.Resolve("", "meow.mp3")
	require.NoError(t, err)

	assert.Equal(t, "meow_v3.mp3", target.Filename)
}

func TestResolveVersioningFirstCollision(t *testing.T) {
	r, _ := newTestResolver(t, "meow.mp3")

	target, err := r.Resolve("", "meow")
	require.NoError(t, err)

	assert.Equal(t, "meow_v2.mp3", target.Filename)
}

func TestResolveRelativeDirectoryRootedUnderCWD(t *testing.T) {
	r, _ := newTestResolver(t)

	// Run from a throwaway working directory so the relative hint has a
	// known anchor.
	cwd := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { os.Chdir(oldWD) })

	target, err := r.Resolve("sounds/generated", "ping.mp3")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(target.Path))
	resolvedCWD, err := filepath.EvalSymlinks(cwd)
	require.NoError(t, err)
	resolvedDir, err := filepath.EvalSymlinks(target.Dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedCWD, "sounds", "generated"), resolvedDir)

	info, err := os.Stat(target.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveCreatesDefaultRootIdempotently(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	r := NewResolver(root)

	_, err := r.Resolve("", "")
	require.NoError(t, err)
	_, err = r.Resolve("", "")
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveDirectoryCreationFailure(t *testing.T) {
	// Parent is a regular file, so MkdirAll cannot succeed.
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := NewResolver(filepath.Join(blocker, "out"))
	_, err := r.Resolve("", "")

	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "create", pathErr.Op)
}

func TestResolveSanitizesTraversal(t *testing.T) {
	r, root := newTestResolver(t)

	target, err := r.Resolve("", "../evil.mp3")
	require.NoError(t, err)

	assert.Equal(t, "evil.mp3", target.Filename)
	assert.Equal(t, root, target.Dir)
	assert.True(t, strings.HasPrefix(target.Path, root+string(filepath.Separator)))
}

func TestResolveSanitizesBackslashTraversal(t *testing.T) {
	r, root := newTestResolver(t)

	target, err := r.Resolve("", `..\..\evil.mp3`)
	require.NoError(t, err)

	assert.Equal(t, "evil.mp3", target.Filename)
	assert.Equal(t, root, target.Dir)
}

func TestResolveRejectsUnusableFilenames(t *testing.T) {
	r, _ := newTestResolver(t)

	for _, name := range []string{"..", ".", "/", "sounds/.."} {
		_, err := r.Resolve("", name)
		assert.ErrorIs(t, err, ErrInvalidFilename, "filename %q", name)
	}
}

func TestResolveSecondCallVersionsAfterCreate(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root) // real OS probe

	first, err := r.Resolve("", "ping.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ping.mp3", first.Filename)

	// Nothing written yet: identical inputs resolve identically.
	again, err := r.Resolve("", "ping.mp3")
	require.NoError(t, err)
	assert.Equal(t, first.Path, again.Path)

	require.NoError(t, os.WriteFile(first.Path, []byte("audio"), 0o644))

	second, err := r.Resolve("", "ping.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ping_v2.mp3", second.Filename)
}

func TestResolveHomeDirectoryHint(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}

	r, _ := newTestResolver(t)
	tmpHome := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", tmpHome)

	target, err := r.Resolve("~/sfx-out", "ding.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpHome, "sfx-out"), target.Dir)
}
