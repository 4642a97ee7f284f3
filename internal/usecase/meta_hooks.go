package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/precept-tool/precept/internal/domain"
	ucmatch "github.com/precept-tool/precept/internal/usecase/match"
)

// runMeta dispatches the built-in hooks of the meta repo. They inspect
// the configuration itself rather than project files.
func (uc *RunHooks) runMeta(ctx context.Context, cfg domain.Config, hook domain.Hook, files []string, tagsOf func(string) []string) domain.HookResult {
	result := domain.HookResult{
		ID:        hook.ID,
		Name:      hook.DisplayName(),
		Status:    domain.StatusPassed,
		FileCount: len(files),
	}

	var lines []string
	var err error

	switch hook.ID {
	case domain.MetaCheckHooksApply:
		lines, err = checkHooksApply(ctx, cfg, files, tagsOf)
	case domain.MetaCheckUselessExclude:
		lines, err = checkUselessExcludes(ctx, cfg, files, tagsOf)
	default:
		err = &domain.OpError{
			Op:   "usecase.meta",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("unknown meta hook %q", hook.ID),
		}
	}
	if err != nil {
		return erroredResult(hook, err)
	}

	if len(lines) > 0 {
		result.Status = domain.StatusFailed
		result.ExitCode = 1
		result.Output = []byte(strings.Join(lines, "\n") + "\n")
	}
	return result
}

// checkHooksApply reports configured hooks whose filters match no file.
func checkHooksApply(ctx context.Context, cfg domain.Config, files []string, tagsOf func(string) []string) ([]string, error) {
	var lines []string
	for _, ref := range cfg.HookRefs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ref.RepoURL == domain.RepoMeta || ref.Hook.AlwaysRun {
			continue
		}

		filter, err := ucmatch.ForHook(ref.Hook)
		if err != nil {
			return nil, err
		}
		if len(filter.Apply(files, tagsOf)) == 0 {
			lines = append(lines, fmt.Sprintf("%s does not apply to this repository", ref.Hook.ID))
		}
	}
	return lines, nil
}

// checkUselessExcludes reports exclude patterns that never exclude
// anything the hook would otherwise run on.
func checkUselessExcludes(ctx context.Context, cfg domain.Config, files []string, tagsOf func(string) []string) ([]string, error) {
	var lines []string
	for _, ref := range cfg.HookRefs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ref.RepoURL == domain.RepoMeta || ref.Hook.Exclude == "" {
			continue
		}

		withExclude := ref.Hook
		withoutExclude := ref.Hook
		withoutExclude.Exclude = ""

		fWith, err := ucmatch.ForHook(withExclude)
		if err != nil {
			return nil, err
		}
		fWithout, err := ucmatch.ForHook(withoutExclude)
		if err != nil {
			return nil, err
		}

		if len(fWithout.Apply(files, tagsOf)) == len(fWith.Apply(files, tagsOf)) {
			lines = append(lines, fmt.Sprintf("the exclude pattern %q for %s does nothing", ref.Hook.Exclude, ref.Hook.ID))
		}
	}
	return lines, nil
}
