package domain

// Language identifies how a hook's entry point is executed.
type Language string

const (
	LangSystem Language = "system"
	LangScript Language = "script"
	LangGolang Language = "golang"
	LangPygrep Language = "pygrep"
	LangFail   Language = "fail"
)

// Stage is a git trigger point a hook can be attached to.
type Stage string

const (
	StagePreCommit Stage = "pre-commit"
	StagePrePush   Stage = "pre-push"
	StageManual    Stage = "manual"
)

// Sentinel repo URLs. Local hooks run from the project tree without
// materialization; meta hooks are built into Precept itself.
const (
	RepoLocal = "local"
	RepoMeta  = "meta"
)

// Built-in hook ids provided by the meta repo.
const (
	MetaCheckHooksApply     = "check-hooks-apply"
	MetaCheckUselessExclude = "check-useless-excludes"
)

// Hook describes a single runnable check. The same type carries both a
// manifest definition (repo side) and a config entry (project side);
// MergeHook layers the latter over the former.
type Hook struct {
	ID    string
	Name  string
	Alias string

	Entry    string
	Language Language
	Args     []string

	// Files/Exclude are regex sources over repo-relative paths.
	Files   string
	Exclude string

	Types        []string
	TypesOr      []string
	ExcludeTypes []string

	// AdditionalDeps are extra package specs for the hook environment.
	AdditionalDeps []string

	AlwaysRun     bool
	PassFilenames bool
	Verbose       bool

	Stages []Stage
}

// DisplayName returns the human-facing label for run output.
func (h Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// MatchesSelector reports whether the hook is selected by an id or alias
// given on the command line.
func (h Hook) MatchesSelector(sel string) bool {
	return sel == h.ID || (h.Alias != "" && sel == h.Alias)
}

// RunsAtStage reports whether the hook participates in the given stage.
// An empty stage list means "all stages".
func (h Hook) RunsAtStage(stage Stage) bool {
	return h.RunsAt(stage, nil)
}

// RunsAt is RunsAtStage with a fallback: hooks that declare no stages of
// their own inherit defaults. Config stages win over manifest stages
// (MergeHook), which win over default_stages.
func (h Hook) RunsAt(stage Stage, defaults []Stage) bool {
	stages := h.Stages
	if len(stages) == 0 {
		stages = defaults
	}
	if len(stages) == 0 {
		return true
	}
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

// MergeHook layers a config entry over a manifest definition.
// The manifest supplies entry/language and filter defaults; the config
// entry overrides anything it sets explicitly.
func MergeHook(manifest Hook, cfg Hook) Hook {
	out := manifest

	out.ID = cfg.ID
	if cfg.Name != "" {
		out.Name = cfg.Name
	}
	out.Alias = cfg.Alias

	if cfg.Entry != "" {
		out.Entry = cfg.Entry
	}
	if cfg.Language != "" {
		out.Language = cfg.Language
	}
	if len(cfg.Args) > 0 {
		out.Args = cfg.Args
	}
	if cfg.Files != "" {
		out.Files = cfg.Files
	}
	if cfg.Exclude != "" {
		out.Exclude = cfg.Exclude
	}
	if len(cfg.Types) > 0 {
		out.Types = cfg.Types
	}
	if len(cfg.TypesOr) > 0 {
		out.TypesOr = cfg.TypesOr
	}
	if len(cfg.ExcludeTypes) > 0 {
		out.ExcludeTypes = cfg.ExcludeTypes
	}
	if len(cfg.AdditionalDeps) > 0 {
		out.AdditionalDeps = cfg.AdditionalDeps
	}
	if cfg.AlwaysRun {
		out.AlwaysRun = true
	}
	if cfg.Verbose {
		out.Verbose = true
	}
	if len(cfg.Stages) > 0 {
		out.Stages = cfg.Stages
	}
	// PassFilenames defaults to true on the manifest side; a config
	// entry can only switch it off via an explicit override recorded
	// during mapping (see infra/yamlconfig).
	out.PassFilenames = manifest.PassFilenames && cfg.PassFilenames

	return out
}

// Repo is one entry of the project config: a hook source pinned at a rev.
type Repo struct {
	URL   string
	Rev   string
	Hooks []Hook
}

func (r Repo) IsLocal() bool  { return r.URL == RepoLocal }
func (r Repo) IsMeta() bool   { return r.URL == RepoMeta }
func (r Repo) IsRemote() bool { return !r.IsLocal() && !r.IsMeta() }

// Config is the in-memory form of .pre-commit-config.yaml.
type Config struct {
	Repos []Repo

	// Files/Exclude are global include/exclude regexes applied before
	// any per-hook filter.
	Files   string
	Exclude string

	FailFast      bool
	DefaultStages []Stage
}

// HookRef is a flattened (repo, hook) pair in declaration order.
type HookRef struct {
	RepoURL string
	Rev     string
	Hook    Hook
}

// HookRefs flattens the config into declaration order.
func (c Config) HookRefs() []HookRef {
	var out []HookRef
	for _, r := range c.Repos {
		for _, h := range r.Hooks {
			out = append(out, HookRef{RepoURL: r.URL, Rev: r.Rev, Hook: h})
		}
	}
	return out
}

// Manifest is the in-memory form of a hook repo's .pre-commit-hooks.yaml.
type Manifest struct {
	Hooks []Hook
}

// Find returns the manifest hook with the given id.
func (m Manifest) Find(id string) (Hook, bool) {
	for _, h := range m.Hooks {
		if h.ID == id {
			return h, true
		}
	}
	return Hook{}, false
}
