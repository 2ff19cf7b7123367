// pkg/backend/git.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
)

// Cloner makes dir a checkout of url, returning the HEAD commit
type Cloner interface {
	Clone(ctx context.Context, url, dir string) (commit string, err error)
}

// GitCloner clones with go-git. An existing checkout is pulled instead.
type GitCloner struct {
	Timeout  time.Duration // Per clone or pull, zero means none
	Progress io.Writer
	Logger   *log.Logger
}

// NewGitCloner creates a cloner reporting progress to w
func NewGitCloner(timeout time.Duration, w io.Writer, logger *log.Logger) *GitCloner {
	return &GitCloner{Timeout: timeout, Progress: w, Logger: logger}
}

// Clone implements Cloner
func (c *GitCloner) Clone(ctx context.Context, url, dir string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	repo, err := git.PlainOpen(dir)
	switch {
	case err == nil:
		c.logf("git: pulling %s in %s", url, dir)
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("opening worktree: %w", err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin", Progress: c.Progress})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "", fmt.Errorf("git pull failed: %w", err)
		}

	case errors.Is(err, git.ErrRepositoryNotExists):
		_, statErr := os.Stat(dir)
		created := errors.Is(statErr, fs.ErrNotExist)

		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return "", fmt.Errorf("creating source directory: %w", err)
		}

		c.logf("git: cloning %s into %s", url, dir)
		repo, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:      url,
			Progress: c.Progress,
		})
		if err != nil {
			if created {
				os.RemoveAll(dir)
			}
			return "", fmt.Errorf("git clone failed: %w", err)
		}

	default:
		return "", fmt.Errorf("opening %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

func (c *GitCloner) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// RepoURL expands the catalog's owner/name shorthand to a GitHub URL.
// Full URLs, scp-style addresses and local paths pass through.
func RepoURL(repo string) string {
	if strings.Contains(repo, "://") || strings.HasPrefix(repo, "git@") || filepath.IsAbs(repo) {
		return repo
	}
	return "https://github.com/" + strings.TrimSuffix(strings.Trim(repo, "/"), ".git")
}
