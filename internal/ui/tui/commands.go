package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/infra/gitclient"
	"github.com/precept-tool/precept/internal/infra/hookcache"
	"github.com/precept-tool/precept/internal/infra/hookrunner"
	"github.com/precept-tool/precept/internal/infra/repofinder"
	"github.com/precept-tool/precept/internal/infra/runstore"
	"github.com/precept-tool/precept/internal/infra/yamlconfig"
	"github.com/precept-tool/precept/internal/usecase"
)

func cmdRefreshRepo(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return repoRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.RepoLocator == nil {
			return repoRefreshedMsg{cwd: wd, found: false, err: errors.New("RepoLocator is nil")}
		}

		root, findErr := deps.RepoLocator.FindRoot(wd)
		if findErr != nil {
			return repoRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return repoRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdLoadHooks(root string) tea.Cmd {
	return func() tea.Msg {
		loader := yamlconfig.NewLoader()
		cfg, err := loader.LoadConfig(filepath.Join(root, yamlconfig.DefaultConfigFile))
		if err != nil {
			return hooksLoadedMsg{root: root, err: err}
		}
		return hooksLoadedMsg{root: root, refs: cfg.HookRefs(), err: nil}
	}
}

func cmdLoadRuns(root string) tea.Cmd {
	return func() tea.Msg {
		settings, err := repofinder.LoadSettings(root)
		if err != nil {
			return runsLoadedMsg{root: root, err: err}
		}

		store := runstore.NewJSONStore(root, settings, runstore.WithIndex(true))
		refs, err := store.ListRuns()
		return runsLoadedMsg{root: root, refs: refs, err: err}
	}
}

func listenRunner(ch <-chan runnerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

func startRunAsync(
	root string,
	stage domain.Stage,
	log *slog.Logger,
	debug bool,
) (chan runnerDoneMsg, tea.Cmd) {
	ch := make(chan runnerDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("run.start",
			"root", root,
			"stage", string(stage),
			"debug", debug,
		)

		settings, err := repofinder.LoadSettings(root)
		if err != nil {
			log.Error("run.load_settings.failed", "err", err)
			ch <- runnerDoneMsg{err: err}
			return
		}

		uc := usecase.NewRunHooks(
			yamlconfig.NewLoader(),
			gitclient.New(root),
			hookcache.NewStore(settings.Paths.CacheDir),
			hookrunner.New(root, hookrunner.WithMaxOutputBytes(settings.Output.MaxBytes)),
			runstore.NewJSONStore(root, settings, runstore.WithIndex(true)),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		run, id, execErr := uc.Execute(ctx, usecase.RunOptions{
			ConfigPath: filepath.Join(root, yamlconfig.DefaultConfigFile),
			RepoRoot:   root,
			Stage:      stage,
		})

		if execErr != nil {
			log.Error("run.failed", "err", execErr, "saved_id", id)
		} else {
			log.Info("run.ok", "saved_id", id, "failures", run.Failures())
		}

		for _, hr := range run.Results {
			if hr.Error != nil {
				log.Warn("hook.error",
					"id", hr.ID,
					"kind", string(hr.Error.Kind),
					"message", hr.Error.Message,
				)
			} else if debug {
				log.Debug("hook.done",
					"id", hr.ID,
					"status", string(hr.Status),
					"files", hr.FileCount,
					"exit_code", hr.ExitCode,
					"duration_ms", hr.DurationMS,
				)
			}
		}

		ch <- runnerDoneMsg{run: run, id: id, err: execErr}
	}()

	return ch, listenRunner(ch)
}
