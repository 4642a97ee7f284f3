package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
	ucidentify "github.com/precept-tool/precept/internal/usecase/identify"
	ucmatch "github.com/precept-tool/precept/internal/usecase/match"
)

type RunHooks struct {
	configs ports.ConfigLoader
	git     ports.GitClient
	repos   ports.RepoStore
	runner  ports.HookRunner
	store   ports.ArtifactStore
}

// NewRunHooks wires the run pipeline. store may be nil to skip artifact
// persistence.
func NewRunHooks(cl ports.ConfigLoader, gc ports.GitClient, rs ports.RepoStore, hr ports.HookRunner, as ports.ArtifactStore) *RunHooks {
	return &RunHooks{
		configs: cl,
		git:     gc,
		repos:   rs,
		runner:  hr,
		store:   as,
	}
}

type RunOptions struct {
	ConfigPath string
	RepoRoot   string

	Stage    domain.Stage
	AllFiles bool
	// Files overrides git discovery when non-empty.
	Files []string

	// Selector restricts the run to hooks matching an id or alias.
	Selector string
	FailFast bool
}

// Execute runs every configured hook that applies at the requested stage
// and returns the run plus the persisted artifact id, if any.
func (uc *RunHooks) Execute(ctx context.Context, opts RunOptions) (domain.RunResult, string, error) {
	cfg, err := uc.configs.LoadConfig(opts.ConfigPath)
	if err != nil {
		return domain.RunResult{}, "", err
	}

	unmerged, err := uc.git.HasUnmergedPaths(ctx)
	if err != nil {
		return domain.RunResult{}, "", err
	}
	if unmerged {
		return domain.RunResult{}, "", &domain.OpError{
			Op:   "usecase.run",
			Kind: domain.KindGit,
			Err:  fmt.Errorf("unmerged paths, resolve conflicts before running hooks"),
		}
	}

	stage := opts.Stage
	if stage == "" {
		stage = domain.StagePreCommit
	}

	files, err := uc.candidateFiles(ctx, cfg, opts)
	if err != nil {
		return domain.RunResult{}, "", err
	}

	tagsOf := tagCache(opts.RepoRoot)

	run := domain.RunResult{
		ConfigPath: opts.ConfigPath,
		RepoRoot:   opts.RepoRoot,
		Stage:      stage,
		AllFiles:   opts.AllFiles,
		StartedAt:  time.Now(),
	}

	failFast := cfg.FailFast || opts.FailFast

loop:
	for _, ref := range cfg.HookRefs() {
		if err := ctx.Err(); err != nil {
			return run, "", err
		}

		if opts.Selector != "" && !ref.Hook.MatchesSelector(opts.Selector) {
			continue
		}
		// Hooks with explicit stages are filtered up front; the rest
		// defer to the manifest, resolved in runOne.
		if len(ref.Hook.Stages) > 0 && !ref.Hook.RunsAtStage(stage) {
			continue
		}

		result, applies := uc.runOne(ctx, cfg, ref, stage, files, tagsOf)
		if !applies {
			continue
		}
		result.RepoURL = ref.RepoURL
		run.Results = append(run.Results, result)

		if failFast && result.Failed() {
			break loop
		}
	}

	run.EndedAt = time.Now()

	id := ""
	if uc.store != nil {
		id, err = uc.store.SaveRun(run)
		if err != nil {
			return run, "", err
		}
	}
	return run, id, nil
}

// runOne resolves and executes a single hook. The second return is false
// when the hook does not apply at the requested stage and no result
// should be recorded.
func (uc *RunHooks) runOne(ctx context.Context, cfg domain.Config, ref domain.HookRef, stage domain.Stage, files []string, tagsOf func(string) []string) (domain.HookResult, bool) {
	hook := ref.Hook
	repoDir := ""

	if ref.RepoURL != domain.RepoLocal && ref.RepoURL != domain.RepoMeta {
		mat, err := uc.repos.Ensure(ctx, ref.RepoURL, ref.Rev)
		if err != nil {
			return erroredResult(hook, err), true
		}
		manifestHook, ok := mat.Manifest.Find(hook.ID)
		if !ok {
			return erroredResult(hook, &domain.OpError{
				Op:   "usecase.resolve",
				Kind: domain.KindNotFound,
				Err:  fmt.Errorf("hook %q not found in %s", hook.ID, ref.RepoURL),
			}), true
		}
		hook = domain.MergeHook(manifestHook, hook)
		repoDir = mat.Dir
	}

	if !hook.RunsAt(stage, cfg.DefaultStages) {
		return domain.HookResult{}, false
	}

	if ref.RepoURL == domain.RepoMeta {
		return uc.runMeta(ctx, cfg, hook, files, tagsOf), true
	}

	filter, err := ucmatch.ForHook(hook)
	if err != nil {
		return erroredResult(hook, err), true
	}
	hookFiles := filter.Apply(files, tagsOf)

	if len(hookFiles) == 0 && !hook.AlwaysRun {
		return domain.HookResult{
			ID:     hook.ID,
			Name:   hook.DisplayName(),
			Status: domain.StatusSkipped,
		}, true
	}

	result, err := uc.runner.Run(ctx, hook, repoDir, hookFiles)
	if err != nil {
		return erroredResult(hook, err), true
	}
	return result, true
}

func (uc *RunHooks) candidateFiles(ctx context.Context, cfg domain.Config, opts RunOptions) ([]string, error) {
	var files []string
	var err error

	switch {
	case len(opts.Files) > 0:
		files = opts.Files
	case opts.AllFiles:
		files, err = uc.git.AllFiles(ctx)
	default:
		files, err = uc.git.StagedFiles(ctx)
	}
	if err != nil {
		return nil, err
	}

	global, err := ucmatch.Global(cfg)
	if err != nil {
		return nil, err
	}
	return global.Apply(files, tagCache(opts.RepoRoot)), nil
}

// tagCache memoizes identify.Tags per path for one run.
func tagCache(root string) func(string) []string {
	cache := map[string][]string{}
	return func(p string) []string {
		if tags, ok := cache[p]; ok {
			return tags
		}
		tags := ucidentify.Tags(root, p)
		cache[p] = tags
		return tags
	}
}

func erroredResult(hook domain.Hook, err error) domain.HookResult {
	return domain.HookResult{
		ID:     hook.ID,
		Name:   hook.DisplayName(),
		Status: domain.StatusErrored,
		Error:  domain.NewRunError(err),
	}
}
