// Package repotest builds throwaway Git repositories for tests by driving the
// real git binary.
package repotest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Author is a commit author identity.
type Author struct {
	Name  string
	Email string
}

// Repo is a temporary Git work tree.
type Repo struct {
	t   testing.TB
	Dir string
}

// RequireGit skips the test when git is not installed.
func RequireGit(t testing.TB) {
	t.Helper()

	_, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git executable not available")
	}
}

// New initializes an empty repository in a fresh temporary directory.
func New(t testing.TB) *Repo {
	t.Helper()
	RequireGit(t)

	r := &Repo{t: t, Dir: t.TempDir()}
	r.Git("init", "--quiet")
	r.Git("symbolic-ref", "HEAD", "refs/heads/main")

	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
// The user's global and system configuration are ignored.
func (r *Repo) Git(args ...string) string {
	return r.gitEnv(nil, args...)
}

func (r *Repo) gitEnv(extra []string, args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"HOME="+r.Dir,
	)
	cmd.Env = append(cmd.Env, extra...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}

	return strings.TrimSpace(string(out))
}

// WriteFile writes content to a path relative to the work tree, creating
// parent directories as needed.
func (r *Repo) WriteFile(path, content string) {
	r.t.Helper()

	full := filepath.Join(r.Dir, filepath.FromSlash(path))

	err := os.MkdirAll(filepath.Dir(full), 0o750)
	if err != nil {
		r.t.Fatalf("mkdir for %s: %v", path, err)
	}

	err = os.WriteFile(full, []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("write %s: %v", path, err)
	}
}

// Remove deletes a path relative to the work tree.
func (r *Repo) Remove(path string) {
	r.t.Helper()

	err := os.Remove(filepath.Join(r.Dir, filepath.FromSlash(path)))
	if err != nil {
		r.t.Fatalf("remove %s: %v", path, err)
	}
}

// Commit stages everything and records a commit by author at when.
// It returns the new commit hash.
func (r *Repo) Commit(author Author, when time.Time, message string) string {
	r.t.Helper()

	r.Git("add", "--all")

	date := when.Format(time.RFC3339)
	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
		"GIT_COMMITTER_DATE=" + date,
	}

	r.gitEnv(env, "commit", "--quiet", "--allow-empty", "--no-gpg-sign", "-m", message)

	return r.Git("rev-parse", "HEAD")
}
