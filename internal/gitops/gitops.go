package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, "init").CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages every change in dir and commits it. Returns the short hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	if out, err := git(dir, "add", "-A").CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}
	return commit(dir, message, authorName, authorEmail)
}

// CommitPaths stages only paths (absolute or relative to dir) and commits
// them. Returns the short hash.
func CommitPaths(dir string, paths []string, message, authorName, authorEmail string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("git commit: no paths given")
	}
	args := append([]string{"add", "--"}, paths...)
	if out, err := git(dir, args...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}
	pathspec := append([]string{"--"}, paths...)
	return commit(dir, message, authorName, authorEmail, pathspec...)
}

func commit(dir, message, authorName, authorEmail string, pathspec ...string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	// Identity for the committer side, so commits work without a global git config.
	args := []string{
		"-c", "user.name=" + authorName,
		"-c", "user.email=" + authorEmail,
		"commit", "-m", message, "--author", author,
	}
	args = append(args, pathspec...)
	if out, err := git(dir, args...).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func git(dir string, args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd
}
