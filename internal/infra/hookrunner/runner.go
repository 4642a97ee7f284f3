// Package hookrunner executes resolved hooks as subprocesses.
package hookrunner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
)

const defaultMaxOutputBytes = 256 * 1024 // 256KB
const defaultMaxArgBytes = 64 * 1024     // per-invocation argv budget

type Runner struct {
	repoRoot       string
	maxOutputBytes int64
	maxArgBytes    int
}

type Option func(*Runner)

func WithMaxOutputBytes(n int64) Option {
	return func(r *Runner) { r.maxOutputBytes = n }
}

func WithMaxArgBytes(n int) Option {
	return func(r *Runner) { r.maxArgBytes = n }
}

func New(repoRoot string, opts ...Option) *Runner {
	r := &Runner{
		repoRoot:       repoRoot,
		maxOutputBytes: defaultMaxOutputBytes,
		maxArgBytes:    defaultMaxArgBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.HookRunner = (*Runner)(nil)

// Run executes hook over files. repoDir is the materialized hook repo for
// remote hooks and empty for local hooks, whose entries resolve against
// the project root.
func (r *Runner) Run(ctx context.Context, hook domain.Hook, repoDir string, files []string) (domain.HookResult, error) {
	result := domain.HookResult{
		ID:        hook.ID,
		Name:      hook.DisplayName(),
		Status:    domain.StatusPassed,
		FileCount: len(files),
	}

	start := time.Now()
	defer func() {
		result.DurationMS = time.Since(start).Milliseconds()
	}()

	out := newBoundedBuffer(r.maxOutputBytes)

	var exitCode int
	var err error

	switch hook.Language {
	case domain.LangFail:
		exitCode = r.runFail(hook, files, out)
	case domain.LangPygrep:
		exitCode, err = r.runPygrep(hook, files, out)
	case domain.LangSystem, domain.LangScript, domain.LangGolang:
		exitCode, err = r.runCommand(ctx, hook, repoDir, files, out)
	default:
		return domain.HookResult{}, &domain.OpError{
			Op:   "hookrunner.run",
			Kind: domain.KindUnsupported,
			Err:  fmt.Errorf("unsupported language %q for hook %q", hook.Language, hook.ID),
		}
	}

	result.Output = out.Bytes()
	result.Truncated = out.Truncated()
	result.ExitCode = exitCode

	if err != nil {
		return domain.HookResult{}, err
	}
	if exitCode != 0 {
		result.Status = domain.StatusFailed
	}
	return result, nil
}

// runFail implements the fail language: it exists to ban files outright.
func (r *Runner) runFail(hook domain.Hook, files []string, out *boundedBuffer) int {
	msg := hook.Entry
	if msg == "" {
		msg = hook.DisplayName()
	}
	fmt.Fprintln(out, msg)
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return 1
}

// scriptPath resolves a script entry against the hook repo (remote) or
// the project root (local).
func (r *Runner) scriptPath(repoDir, entry string) string {
	base := repoDir
	if base == "" {
		base = r.repoRoot
	}
	if filepath.IsAbs(entry) {
		return entry
	}
	return filepath.Join(base, filepath.FromSlash(entry))
}
