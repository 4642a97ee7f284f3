// Package repofinder locates the enclosing git repository and loads the
// optional .precept.yaml tool settings from its root.
package repofinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
)

// Finder locates a git repository root by searching for .git upward.
// A .git regular file (worktrees, submodules) counts as well.
type Finder struct {
	GitDir string // defaults to ".git"
}

func NewFinder() *Finder {
	return &Finder{GitDir: ".git"}
}

var _ ports.RepoLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "repofinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "repofinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		gitPath := filepath.Join(cur, f.GitDir)
		if _, err := os.Stat(gitPath); err == nil {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root.
			return "", &domain.OpError{
				Op:   "repofinder.findroot",
				Kind: domain.KindNotFound,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}
