// Package yamlconfig loads and validates .pre-commit-config.yaml and the
// .pre-commit-hooks.yaml manifests shipped by hook repositories.
package yamlconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the well-known config name at the repo root.
const DefaultConfigFile = ".pre-commit-config.yaml"

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.ConfigLoader = (*Loader)(nil)

func (l *Loader) LoadConfig(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "yamlconfig.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(b, &yc); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "yamlconfig.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yc)
}

type yamlConfig struct {
	Repos         []yamlRepo `yaml:"repos"`
	Files         string     `yaml:"files"`
	Exclude       string     `yaml:"exclude"`
	FailFast      bool       `yaml:"fail_fast"`
	DefaultStages []string   `yaml:"default_stages"`
}

type yamlRepo struct {
	Repo  string     `yaml:"repo"`
	Rev   string     `yaml:"rev"`
	Hooks []yamlHook `yaml:"hooks"`
}

type yamlHook struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Alias string `yaml:"alias"`

	Entry    string   `yaml:"entry"`
	Language string   `yaml:"language"`
	Args     []string `yaml:"args"`

	Files   string `yaml:"files"`
	Exclude string `yaml:"exclude"`

	Types        []string `yaml:"types"`
	TypesOr      []string `yaml:"types_or"`
	ExcludeTypes []string `yaml:"exclude_types"`

	AdditionalDependencies []string `yaml:"additional_dependencies"`

	AlwaysRun     bool     `yaml:"always_run"`
	PassFilenames *bool    `yaml:"pass_filenames"`
	Verbose       bool     `yaml:"verbose"`
	Stages        []string `yaml:"stages"`
}

func mapAndValidate(path string, yc yamlConfig) (domain.Config, error) {
	if len(yc.Repos) == 0 {
		return domain.Config{}, invalidField(path, "repos", "at least one repo entry is required")
	}

	if err := checkRegex(path, "files", yc.Files); err != nil {
		return domain.Config{}, err
	}
	if err := checkRegex(path, "exclude", yc.Exclude); err != nil {
		return domain.Config{}, err
	}

	defaultStages, err := parseStages(path, "default_stages", yc.DefaultStages)
	if err != nil {
		return domain.Config{}, err
	}
	if len(defaultStages) == 0 {
		defaultStages = []domain.Stage{domain.StagePreCommit}
	}

	cfg := domain.Config{
		Files:         yc.Files,
		Exclude:       yc.Exclude,
		FailFast:      yc.FailFast,
		DefaultStages: defaultStages,
		Repos:         make([]domain.Repo, 0, len(yc.Repos)),
	}

	// rev seen per repo URL; one URL pinned at two revs is a version conflict.
	seenRev := map[string]string{}
	seenPair := map[string]bool{}

	for i, yr := range yc.Repos {
		fieldPrefix := fmt.Sprintf("repos[%d]", i)

		url := strings.TrimSpace(yr.Repo)
		if url == "" {
			return domain.Config{}, invalidField(path, fieldPrefix+".repo", "repo is required")
		}

		repo := domain.Repo{URL: url, Rev: strings.TrimSpace(yr.Rev)}

		switch {
		case repo.IsRemote():
			if repo.Rev == "" {
				return domain.Config{}, invalidField(path, fieldPrefix+".rev", "rev is required for remote repos")
			}
			if prev, ok := seenRev[url]; ok && prev != repo.Rev {
				return domain.Config{}, invalidField(path, fieldPrefix+".rev",
					fmt.Sprintf("repo %s pinned at both %s and %s", url, prev, repo.Rev))
			}
			pair := url + "@" + repo.Rev
			if seenPair[pair] {
				return domain.Config{}, invalidField(path, fieldPrefix+".repo",
					fmt.Sprintf("duplicate entry for %s", pair))
			}
			seenRev[url] = repo.Rev
			seenPair[pair] = true

		default: // local, meta
			if repo.Rev != "" {
				return domain.Config{}, invalidField(path, fieldPrefix+".rev",
					fmt.Sprintf("rev is not allowed for %q repos", url))
			}
		}

		if len(yr.Hooks) == 0 {
			return domain.Config{}, invalidField(path, fieldPrefix+".hooks", "at least one hook is required")
		}

		for j, yh := range yr.Hooks {
			hookPrefix := fmt.Sprintf("%s.hooks[%d]", fieldPrefix, j)

			h, err := mapHook(path, hookPrefix, yh)
			if err != nil {
				return domain.Config{}, err
			}

			if repo.IsLocal() {
				if h.Entry == "" {
					return domain.Config{}, invalidField(path, hookPrefix+".entry", "entry is required for local hooks")
				}
				if h.Language == "" {
					return domain.Config{}, invalidField(path, hookPrefix+".language", "language is required for local hooks")
				}
			}
			if repo.IsMeta() {
				switch h.ID {
				case domain.MetaCheckHooksApply, domain.MetaCheckUselessExclude:
				default:
					return domain.Config{}, invalidField(path, hookPrefix+".id",
						fmt.Sprintf("unknown meta hook %q", h.ID))
				}
			}

			repo.Hooks = append(repo.Hooks, h)
		}

		cfg.Repos = append(cfg.Repos, repo)
	}

	return cfg, nil
}

func mapHook(path, fieldPrefix string, yh yamlHook) (domain.Hook, error) {
	if strings.TrimSpace(yh.ID) == "" {
		return domain.Hook{}, invalidField(path, fieldPrefix+".id", "hook id is required")
	}

	if err := checkRegex(path, fieldPrefix+".files", yh.Files); err != nil {
		return domain.Hook{}, err
	}
	if err := checkRegex(path, fieldPrefix+".exclude", yh.Exclude); err != nil {
		return domain.Hook{}, err
	}

	stages, err := parseStages(path, fieldPrefix+".stages", yh.Stages)
	if err != nil {
		return domain.Hook{}, err
	}

	passFilenames := true
	if yh.PassFilenames != nil {
		passFilenames = *yh.PassFilenames
	}

	return domain.Hook{
		ID:             strings.TrimSpace(yh.ID),
		Name:           yh.Name,
		Alias:          strings.TrimSpace(yh.Alias),
		Entry:          yh.Entry,
		Language:       domain.Language(strings.TrimSpace(yh.Language)),
		Args:           yh.Args,
		Files:          yh.Files,
		Exclude:        yh.Exclude,
		Types:          yh.Types,
		TypesOr:        yh.TypesOr,
		ExcludeTypes:   yh.ExcludeTypes,
		AdditionalDeps: yh.AdditionalDependencies,
		AlwaysRun:      yh.AlwaysRun,
		PassFilenames:  passFilenames,
		Verbose:        yh.Verbose,
		Stages:         stages,
	}, nil
}

func parseStages(path, field string, in []string) ([]domain.Stage, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]domain.Stage, 0, len(in))
	for _, s := range in {
		st := domain.Stage(strings.TrimSpace(s))
		switch st {
		case domain.StagePreCommit, domain.StagePrePush, domain.StageManual:
			out = append(out, st)
		default:
			return nil, invalidField(path, field, fmt.Sprintf("unknown stage %q", s))
		}
	}
	return out, nil
}

func checkRegex(path, field, expr string) error {
	if expr == "" {
		return nil
	}
	if _, err := regexp.Compile(expr); err != nil {
		return invalidField(path, field, err.Error())
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlconfig.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
