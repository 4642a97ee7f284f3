package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/infra/gitclient"
	"github.com/precept-tool/precept/internal/infra/hookcache"
	"github.com/precept-tool/precept/internal/infra/hookinstall"
	"github.com/precept-tool/precept/internal/infra/hookrunner"
	"github.com/precept-tool/precept/internal/infra/repofinder"
	"github.com/precept-tool/precept/internal/infra/runstore"
	"github.com/precept-tool/precept/internal/infra/yamlconfig"
	"github.com/precept-tool/precept/internal/ports"
)

type projectCtx struct {
	root     string
	settings domain.Settings

	configs   ports.ConfigLoader
	git       ports.GitClient
	repos     ports.RepoStore
	runner    ports.HookRunner
	store     ports.ArtifactStore
	installer ports.HookInstaller
}

func loadProject(repoFlag string) (*projectCtx, error) {
	root, err := resolveRepoRoot(repoFlag)
	if err != nil {
		return nil, err
	}

	settings, err := repofinder.LoadSettings(root)
	if err != nil {
		return nil, err
	}

	return &projectCtx{
		root:     root,
		settings: settings,
		configs:  yamlconfig.NewLoader(),
		git:      gitclient.New(root),
		repos:    hookcache.NewStore(settings.Paths.CacheDir),
		runner: hookrunner.New(root,
			hookrunner.WithMaxOutputBytes(settings.Output.MaxBytes),
		),
		store:     runstore.NewJSONStore(root, settings, runstore.WithIndex(true)),
		installer: hookinstall.New(),
	}, nil
}

func resolveRepoRoot(repoFlag string) (string, error) {
	r := strings.TrimSpace(repoFlag)
	if r != "" {
		abs, err := filepath.Abs(r)
		if err != nil {
			return "", fmt.Errorf("invalid repo path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := repofinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("git repository not found from %q: %w", wd, err)
	}
	return root, nil
}

// resolveConfigPath resolves the --config flag against the repo root.
func resolveConfigPath(root, configFlag string) string {
	c := strings.TrimSpace(configFlag)
	if c == "" {
		c = yamlconfig.DefaultConfigFile
	}
	if filepath.IsAbs(c) {
		return c
	}
	return filepath.Join(root, c)
}
