package match

import (
	"testing"

	"github.com/precept-tool/precept/internal/domain"
)

func tagsFor(m map[string][]string) func(string) []string {
	return func(p string) []string { return m[p] }
}

func TestForHook_FilesRegex(t *testing.T) {
	f, err := ForHook(domain.Hook{Files: `\.py$`})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}

	if !f.Matches("pkg/loss.py", []string{"file"}) {
		t.Fatal("expected .py to match")
	}
	if f.Matches("README.md", []string{"file"}) {
		t.Fatal("expected .md to miss")
	}
}

func TestForHook_ExcludeWins(t *testing.T) {
	f, err := ForHook(domain.Hook{Files: `\.py$`, Exclude: `^tests/`})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}

	if f.Matches("tests/test_loss.py", []string{"file"}) {
		t.Fatal("expected excluded path to miss")
	}
	if !f.Matches("pkg/loss.py", []string{"file"}) {
		t.Fatal("expected non-excluded path to match")
	}
}

func TestForHook_TypesAll(t *testing.T) {
	f, err := ForHook(domain.Hook{Types: []string{"python", "text"}})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}

	if !f.Matches("a.py", []string{"file", "python", "text"}) {
		t.Fatal("expected all-types match")
	}
	if f.Matches("a.py", []string{"file", "python", "binary"}) {
		t.Fatal("expected miss when one type absent")
	}
}

func TestForHook_TypesOr(t *testing.T) {
	f, err := ForHook(domain.Hook{TypesOr: []string{"yaml", "json"}})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}

	if !f.Matches("cfg.yaml", []string{"file", "yaml"}) {
		t.Fatal("expected yaml to match")
	}
	if !f.Matches("cfg.json", []string{"file", "json"}) {
		t.Fatal("expected json to match")
	}
	if f.Matches("cfg.toml", []string{"file", "toml"}) {
		t.Fatal("expected toml to miss")
	}
}

func TestForHook_ExcludeTypes(t *testing.T) {
	f, err := ForHook(domain.Hook{ExcludeTypes: []string{"binary"}})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}

	if f.Matches("blob.bin", []string{"file", "binary"}) {
		t.Fatal("expected binary to be excluded")
	}
	if !f.Matches("a.txt", []string{"file", "text"}) {
		t.Fatal("expected text to pass")
	}
}

func TestForHook_InvalidRegex(t *testing.T) {
	if _, err := ForHook(domain.Hook{Files: "([unclosed"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGlobal_Apply(t *testing.T) {
	f, err := Global(domain.Config{Exclude: `^vendor/`})
	if err != nil {
		t.Fatalf("Global error: %v", err)
	}

	tags := tagsFor(map[string][]string{
		"vendor/x.py": {"file", "python"},
		"pkg/y.py":    {"file", "python"},
	})

	got := f.Apply([]string{"vendor/x.py", "pkg/y.py"}, tags)
	if len(got) != 1 || got[0] != "pkg/y.py" {
		t.Fatalf("expected only pkg/y.py, got=%v", got)
	}
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f, err := ForHook(domain.Hook{})
	if err != nil {
		t.Fatalf("ForHook error: %v", err)
	}
	if !f.Matches("anything.xyz", []string{"file"}) {
		t.Fatal("expected empty filter to match")
	}
}
