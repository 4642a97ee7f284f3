// Package hookinstall writes the git hook scripts that invoke precept.
package hookinstall

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/precept-tool/precept/internal/app/template"
	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
)

// marker identifies scripts we own. Uninstall refuses to touch a hook
// script without it.
const marker = "# generated by precept"

const scriptTemplate = `#!/bin/sh
` + marker + `
HERE="$(cd "$(dirname "$0")" && pwd)"
if [ -x "$HERE/{{stage}}.legacy" ]; then
    "$HERE/{{stage}}.legacy" "$@" || exit $?
fi
exec {{bin}} run --hook-stage {{stage}} "$@"
`

type Installer struct {
	binPath string
}

type Option func(*Installer)

// WithBinPath overrides the executable written into the hook script.
func WithBinPath(p string) Option {
	return func(i *Installer) { i.binPath = p }
}

func New(opts ...Option) *Installer {
	i := &Installer{binPath: "precept"}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.HookInstaller = (*Installer)(nil)

// Install writes the hook script for stage. An existing foreign script is
// preserved as <hook>.legacy unless force is set.
func (i *Installer) Install(root string, stage domain.Stage, force bool) error {
	hookPath, err := hookPath(root, stage)
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(existing), marker) {
			if !force {
				legacy := hookPath + ".legacy"
				if err := os.Rename(hookPath, legacy); err != nil {
					return &domain.OpError{
						Op:   "hookinstall.preserve",
						Kind: domain.KindExecution,
						Path: legacy,
						Err:  err,
					}
				}
			}
		}
	}

	script, err := template.RenderString(scriptTemplate, map[string]string{
		"bin":   i.binPath,
		"stage": string(stage),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(hookPath, []byte(script), 0o755); err != nil {
		return &domain.OpError{
			Op:   "hookinstall.write",
			Kind: domain.KindExecution,
			Path: hookPath,
			Err:  err,
		}
	}
	return nil
}

// Uninstall removes our hook script and restores any preserved legacy one.
func (i *Installer) Uninstall(root string, stage domain.Stage) error {
	hookPath, err := hookPath(root, stage)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &domain.OpError{
			Op:   "hookinstall.read",
			Kind: domain.KindExecution,
			Path: hookPath,
			Err:  err,
		}
	}

	if !strings.Contains(string(existing), marker) {
		return &domain.OpError{
			Op:   "hookinstall.uninstall",
			Kind: domain.KindExecution,
			Path: hookPath,
			Err:  fmt.Errorf("hook script not managed by precept"),
		}
	}

	if err := os.Remove(hookPath); err != nil {
		return &domain.OpError{
			Op:   "hookinstall.remove",
			Kind: domain.KindExecution,
			Path: hookPath,
			Err:  err,
		}
	}

	legacy := hookPath + ".legacy"
	if _, err := os.Stat(legacy); err == nil {
		if err := os.Rename(legacy, hookPath); err != nil {
			return &domain.OpError{
				Op:   "hookinstall.restore",
				Kind: domain.KindExecution,
				Path: hookPath,
				Err:  err,
			}
		}
	}
	return nil
}

// hookPath resolves .git/hooks/<stage>, handling worktree .git files.
func hookPath(root string, stage domain.Stage) (string, error) {
	gitDir := filepath.Join(root, ".git")

	info, err := os.Stat(gitDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "hookinstall.gitdir",
			Kind: domain.KindNotFound,
			Path: gitDir,
			Err:  err,
		}
	}

	if !info.IsDir() {
		// Worktree: .git is a file pointing at the real git dir.
		b, err := os.ReadFile(gitDir)
		if err != nil {
			return "", &domain.OpError{
				Op:   "hookinstall.gitdir",
				Kind: domain.KindExecution,
				Path: gitDir,
				Err:  err,
			}
		}
		line := strings.TrimSpace(string(b))
		const prefix = "gitdir:"
		if !strings.HasPrefix(line, prefix) {
			return "", &domain.OpError{
				Op:   "hookinstall.gitdir",
				Kind: domain.KindExecution,
				Path: gitDir,
				Err:  fmt.Errorf("unrecognized .git file"),
			}
		}
		gitDir = strings.TrimSpace(strings.TrimPrefix(line, prefix))
		if !filepath.IsAbs(gitDir) {
			gitDir = filepath.Join(root, gitDir)
		}
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "hookinstall.hooksdir",
			Kind: domain.KindExecution,
			Path: hooksDir,
			Err:  err,
		}
	}
	return filepath.Join(hooksDir, string(stage)), nil
}
