package hookrunner

import (
	"context"
	"errors"
	"os/exec"

	"github.com/precept-tool/precept/internal/domain"
)

// runCommand executes a system/script/golang hook, batching filenames so
// a single invocation never exceeds the argv budget.
func (r *Runner) runCommand(ctx context.Context, hook domain.Hook, repoDir string, files []string, out *boundedBuffer) (int, error) {
	argv, err := r.baseArgv(hook, repoDir)
	if err != nil {
		return 0, err
	}

	dir := r.repoRoot
	if hook.Language == domain.LangGolang && repoDir != "" {
		// go run resolves the entry package against the hook repo.
		dir = repoDir
	}

	if !hook.PassFilenames {
		return r.exec(ctx, argv, dir, out)
	}

	exitCode := 0
	for _, batch := range batchArgs(files, argvBytes(argv), r.maxArgBytes) {
		if err := ctx.Err(); err != nil {
			return exitCode, err
		}

		code, err := r.exec(ctx, append(argv, batch...), dir, out)
		if err != nil {
			return exitCode, err
		}
		if code > exitCode {
			exitCode = code
		}
	}
	return exitCode, nil
}

func (r *Runner) baseArgv(hook domain.Hook, repoDir string) ([]string, error) {
	entry, err := splitEntry(hook.Entry)
	if err == nil && len(entry) == 0 {
		err = errors.New("empty entry")
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "hookrunner.entry",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	var argv []string
	switch hook.Language {
	case domain.LangScript:
		argv = append([]string{r.scriptPath(repoDir, entry[0])}, entry[1:]...)
	case domain.LangGolang:
		argv = append([]string{"go", "run"}, entry...)
	default: // system
		argv = entry
	}

	return append(argv, hook.Args...), nil
}

func (r *Runner) exec(ctx context.Context, argv []string, dir string, out *boundedBuffer) (int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	// Spawn failure: missing binary, permission, canceled context.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	return 0, &domain.OpError{
		Op:   "hookrunner.exec",
		Kind: domain.KindExecution,
		Path: argv[0],
		Err:  err,
	}
}

// argvBytes approximates the argv size of the fixed part of a command.
func argvBytes(argv []string) int {
	n := 0
	for _, a := range argv {
		n += len(a) + 1
	}
	return n
}

// batchArgs splits files into chunks whose combined length stays under
// budget. A single oversized path still gets its own batch.
func batchArgs(files []string, base, budget int) [][]string {
	if len(files) == 0 {
		return [][]string{nil}
	}

	var batches [][]string
	var cur []string
	size := base

	for _, f := range files {
		cost := len(f) + 1
		if len(cur) > 0 && size+cost > budget {
			batches = append(batches, cur)
			cur = nil
			size = base
		}
		cur = append(cur, f)
		size += cost
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
