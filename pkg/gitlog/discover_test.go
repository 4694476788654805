package gitlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()

	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o750))
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root,
		"b/.git",
		"a/.git/objects",
		"group/c/.git",
		"plain/src",
		"deep/x/y/z/.git",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, "group", "worktree.git"), nil, 0o600))

	repos, err := Discover(root, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "b"),
		filepath.Join(root, "group", "c"),
	}, repos)

	repos, err = Discover(root, 4)
	require.NoError(t, err)
	assert.Contains(t, repos, filepath.Join(root, "deep", "x", "y", "z"))
}

func TestDiscoverRootAndFileMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, ".git", "linked")
	require.NoError(t, os.WriteFile(filepath.Join(root, "linked", ".git"), []byte("gitdir: ../.git\n"), 0o600))

	repos, err := Discover(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "linked")}, repos)
}

func TestDiscoverEmptyAndMissing(t *testing.T) {
	t.Parallel()

	repos, err := Discover(t.TempDir(), 3)
	require.NoError(t, err)
	assert.Empty(t, repos)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"), 3)
	require.ErrorIs(t, err, pulse.ErrFileSystem)
}
