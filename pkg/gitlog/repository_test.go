package gitlog

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitpulse/internal/repotest"
	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)

	for prefix, err := range f.errs {
		if strings.HasPrefix(key, prefix) {
			return nil, err
		}
	}

	for prefix, out := range f.outputs {
		if strings.HasPrefix(key, prefix) {
			return []byte(out), nil
		}
	}

	return nil, &SubprocessError{Args: args, ExitCode: 128, Stderr: "unexpected call"}
}

func TestOpenMissingPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope"), &fakeRunner{})
	require.ErrorIs(t, err, pulse.ErrFileSystem)
}

func TestOpenNotARepository(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{errs: map[string]error{
		"rev-parse": &SubprocessError{ExitCode: 128, Stderr: "fatal: not a git repository"},
	}}

	_, err := Open(context.Background(), t.TempDir(), runner)
	require.ErrorIs(t, err, pulse.ErrNotARepository)
}

func TestOpenGitMissing(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{errs: map[string]error{
		"rev-parse": fmt.Errorf("start git: %w", exec.ErrNotFound),
	}}

	_, err := Open(context.Background(), t.TempDir(), runner)
	require.ErrorIs(t, err, pulse.ErrNotARepository)
	assert.Contains(t, err.Error(), "git executable not found")
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := Open(context.Background(), file, &fakeRunner{})
	require.ErrorIs(t, err, pulse.ErrNotARepository)
}

func TestRepositoryWithFakeRunner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &fakeRunner{outputs: map[string]string{
		"rev-parse --show-toplevel": dir + "\n",
		"rev-parse --verify":        "deadbeef\n",
		"ls-tree":                   "100644 blob 1111111111111111111111111111111111111111 5\tmain.go\x00",
		"-c core.quotepath=false log": header("abc", "", "Ada", "ada@x", "2024-01-01T10:00:00Z") +
			"\n\n5\t0\tmain.go\n",
		"config user.name": "Ada Lovelace\n",
	}}

	repo, err := Open(context.Background(), dir, runner)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), repo.Name)
	assert.Equal(t, pulse.RepoInfo{Name: filepath.Base(dir), Path: filepath.Clean(dir)}, repo.Info())

	commits, err := repo.Commits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc", commits[0].Hash)

	files, err := repo.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []pulse.TrackedFile{{Path: "main.go", Size: 5}}, files)

	name, err := repo.UserName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
}

func TestRepositoryUnsetUserName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &fakeRunner{
		outputs: map[string]string{"rev-parse --show-toplevel": dir},
		errs:    map[string]error{"config user.name": &SubprocessError{ExitCode: 1}},
	}

	repo, err := Open(context.Background(), dir, runner)
	require.NoError(t, err)

	name, err := repo.UserName(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestRepositoryNoHead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &fakeRunner{
		outputs: map[string]string{"rev-parse --show-toplevel": dir},
		errs: map[string]error{
			"rev-parse --verify":          &SubprocessError{ExitCode: 1},
			"-c core.quotepath=false log": &SubprocessError{ExitCode: 128, Stderr: "fatal: your current branch 'main' does not have any commits yet"},
		},
	}

	repo, err := Open(context.Background(), dir, runner)
	require.NoError(t, err)

	files, err := repo.Files(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)

	commits, err := repo.Commits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestIntegrationReadRepository(t *testing.T) {
	t.Parallel()

	repo := repotest.New(t)
	ada := repotest.Author{Name: "Ada", Email: "ada@example.com"}
	bob := repotest.Author{Name: "Bob", Email: "bob@example.com"}
	base := time.Date(2024, 2, 10, 9, 0, 0, 0, time.FixedZone("", 3600))

	repo.WriteFile("main.go", "package main\n\nfunc main() {}\n")
	repo.Commit(ada, base, "initial")

	repo.WriteFile("app.py", "print('hi')\n")
	repo.WriteFile("main.go", "package main\n")
	repo.Commit(bob, base.Add(time.Hour), "python")

	repo.Git("mv", "app.py", "tool.py")
	repo.Commit(ada, base.Add(26*time.Hour), "rename")

	opened, err := Open(context.Background(), repo.Dir, nil)
	require.NoError(t, err)

	commits, err := opened.Commits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "Ada", commits[0].AuthorName)
	assert.Equal(t, []pulse.FileChange{{Path: "main.go", Added: 3}}, commits[0].Changes)
	assert.Equal(t, "Bob", commits[1].AuthorName)
	assert.Equal(t, 9, commits[0].When.Hour())
	assert.Equal(t, "tool.py", commits[2].Changes[0].Path)

	files, err := opened.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []pulse.TrackedFile{
		{Path: "main.go", Size: int64(len("package main\n"))},
		{Path: "tool.py", Size: int64(len("print('hi')\n"))},
	}, files)
}

func TestIntegrationEmptyRepository(t *testing.T) {
	t.Parallel()

	repo := repotest.New(t)

	opened, err := Open(context.Background(), repo.Dir, nil)
	require.NoError(t, err)

	commits, err := opened.Commits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, commits)

	files, err := opened.Files(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestIntegrationNotARepository(t *testing.T) {
	t.Parallel()
	repotest.RequireGit(t)

	_, err := Open(context.Background(), t.TempDir(), nil)
	require.ErrorIs(t, err, pulse.ErrNotARepository)
}

func TestParseTreeSkipsLinksAndSubmodules(t *testing.T) {
	t.Parallel()

	out := "100644 blob 1111111111111111111111111111111111111111 13\tsrc/main.go\x00" +
		"120000 blob 2222222222222222222222222222222222222222 11\tlink.go\x00" +
		"160000 commit 3333333333333333333333333333333333333333 -\tthird_party/lib\x00" +
		"100755 blob 4444444444444444444444444444444444444444 7\trun.sh\x00"

	files, err := parseTree([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []pulse.TrackedFile{
		{Path: "src/main.go", Size: 13},
		{Path: "run.sh", Size: 7},
	}, files)
}

func TestIntegrationSymlinkNotCounted(t *testing.T) {
	t.Parallel()

	repo := repotest.New(t)
	repo.WriteFile("src/main.go", "package main\n")
	require.NoError(t, os.Symlink("src/main.go", filepath.Join(repo.Dir, "link.go")))
	repo.Commit(repotest.Author{Name: "Ada", Email: "ada@example.com"}, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "link")

	opened, err := Open(context.Background(), repo.Dir, nil)
	require.NoError(t, err)

	files, err := opened.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []pulse.TrackedFile{{Path: "src/main.go", Size: int64(len("package main\n"))}}, files)
}
