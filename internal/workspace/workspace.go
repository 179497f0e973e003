// Package workspace describes the checkout a metric is measured in.
package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

const originRemote = "origin"

// WorkingContext is the explicit replacement for "whatever directory and
// branch the process happens to be in".
type WorkingContext struct {
	Root   string
	Branch string
	Owner  string
	Repo   string
}

// Open inspects dir. A directory outside any git repository yields a context
// with only Root set.
func Open(dir string) (WorkingContext, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return WorkingContext{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	wc := WorkingContext{Root: abs}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return wc, nil
	}
	if err != nil {
		return WorkingContext{}, fmt.Errorf("failed to open git repository at %s: %w", abs, err)
	}

	if wt, err := repo.Worktree(); err == nil {
		wc.Root = wt.Filesystem.Root()
	}

	// An unborn HEAD has no branch yet; leave it empty.
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		wc.Branch = head.Name().Short()
	}

	remote, err := repo.Remote(originRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return wc, nil
		}
		return WorkingContext{}, fmt.Errorf("failed to read remote %s: %w", originRemote, err)
	}
	for _, u := range remote.Config().URLs {
		if owner, name, ok := ParseGitHubURL(u); ok {
			wc.Owner, wc.Repo = owner, name
			break
		}
	}
	return wc, nil
}

// ParseGitHubURL extracts owner and repository from the remote URL forms git
// accepts for github.com.
func ParseGitHubURL(raw string) (owner, repo string, ok bool) {
	raw = strings.TrimSpace(raw)
	var path string
	switch {
	case strings.HasPrefix(raw, "git@github.com:"):
		path = strings.TrimPrefix(raw, "git@github.com:")
	default:
		u, err := url.Parse(raw)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", "", false
		}
		path = u.Path
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
