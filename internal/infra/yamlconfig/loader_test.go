package yamlconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/precept-tool/precept/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	p := filepath.Join(tmp, DefaultConfigFile)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadConfig_Valid(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
  - repo: https://github.com/codespell-project/codespell
    rev: v2.1.0
    hooks:
      - id: codespell
        args: ["--skip", "*.ipynb"]
`)

	l := NewLoader()
	cfg, err := l.LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if len(cfg.Repos) != 2 {
		t.Fatalf("expected 2 repos, got=%d", len(cfg.Repos))
	}
	if cfg.Repos[0].Rev != "5.0.4" {
		t.Fatalf("expected rev 5.0.4, got=%s", cfg.Repos[0].Rev)
	}
	if cfg.Repos[1].Hooks[0].Args[0] != "--skip" {
		t.Fatalf("expected args preserved, got=%v", cfg.Repos[1].Hooks[0].Args)
	}
	if len(cfg.DefaultStages) != 1 || cfg.DefaultStages[0] != domain.StagePreCommit {
		t.Fatalf("expected default stage pre-commit, got=%v", cfg.DefaultStages)
	}
}

func TestLoadConfig_NotYAML(t *testing.T) {
	p := writeConfig(t, "repos: [}")

	l := NewLoader()
	_, err := l.LoadConfig(p)
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got=%v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}

func TestLoadConfig_EmptyRepos(t *testing.T) {
	p := writeConfig(t, "repos: []\n")

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for empty repos")
	}
}

func TestLoadConfig_MissingRev(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    hooks:
      - id: flake8
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for missing rev")
	}
}

func TestLoadConfig_RevOnLocalRepo(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: local
    rev: v1
    hooks:
      - id: check-copyright
        entry: ./tools/check_copyright.sh
        language: script
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for rev on local repo")
	}
}

func TestLoadConfig_NoHooks(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks: []
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for empty hooks")
	}
}

func TestLoadConfig_ConflictingRevs(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
  - repo: https://github.com/PyCQA/flake8
    rev: 6.0.0
    hooks:
      - id: flake8
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for conflicting revs")
	}
}

func TestLoadConfig_DuplicatePair(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for duplicate (repo, rev) pair")
	}
}

func TestLoadConfig_LocalHookNeedsEntryAndLanguage(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: local
    hooks:
      - id: check-copyright
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for local hook without entry/language")
	}
}

func TestLoadConfig_UnknownMetaHook(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: meta
    hooks:
      - id: frobnicate
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for unknown meta hook")
	}
}

func TestLoadConfig_BadRegex(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
        files: "([unclosed"
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for invalid files regex")
	}
}

func TestLoadConfig_UnknownStage(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
        stages: [post-merge]
`)

	l := NewLoader()
	if _, err := l.LoadConfig(p); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestLoadConfig_DefaultStagesStayOnConfig(t *testing.T) {
	p := writeConfig(t, `
default_stages: [manual]
repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
      - id: flake8-strict
        alias: strict
        stages: [pre-push]
`)

	l := NewLoader()
	cfg, err := l.LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if len(cfg.DefaultStages) != 1 || cfg.DefaultStages[0] != domain.StageManual {
		t.Fatalf("expected default_stages manual on config, got=%v", cfg.DefaultStages)
	}

	// Hooks without stages stay empty so a manifest declaration can
	// still take effect at resolution time.
	hooks := cfg.Repos[0].Hooks
	if len(hooks[0].Stages) != 0 {
		t.Fatalf("expected no stages on undeclared hook, got=%v", hooks[0].Stages)
	}
	if len(hooks[1].Stages) != 1 || hooks[1].Stages[0] != domain.StagePrePush {
		t.Fatalf("expected explicit pre-push stage, got=%v", hooks[1].Stages)
	}
	if hooks[1].Alias != "strict" {
		t.Fatalf("expected alias, got=%q", hooks[1].Alias)
	}
}

func TestLoadConfig_PassFilenamesDefaultTrue(t *testing.T) {
	p := writeConfig(t, `
repos:
  - repo: local
    hooks:
      - id: a
        entry: "true"
        language: system
      - id: b
        entry: "true"
        language: system
        pass_filenames: false
`)

	l := NewLoader()
	cfg, err := l.LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	hooks := cfg.Repos[0].Hooks
	if !hooks[0].PassFilenames {
		t.Fatal("expected pass_filenames default true")
	}
	if hooks[1].PassFilenames {
		t.Fatal("expected explicit pass_filenames false")
	}
}
