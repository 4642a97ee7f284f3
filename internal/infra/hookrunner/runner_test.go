package hookrunner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/precept-tool/precept/internal/domain"
)

func requireBin(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s binary not available", name)
	}
}

func writeFile(t *testing.T, root, name, content string, mode os.FileMode) string {
	t.Helper()
	p := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), mode); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestRun_FailLanguage(t *testing.T) {
	r := New(t.TempDir())

	res, err := r.Run(context.Background(), domain.Hook{
		ID:       "no-commit-to-branch",
		Entry:    "do not commit these",
		Language: domain.LangFail,
	}, "", []string{"a.py", "b.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if res.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got=%s", res.Status)
	}
	if res.ExitCode != 1 {
		t.Fatalf("expected exit 1, got=%d", res.ExitCode)
	}
	out := string(res.Output)
	if !strings.Contains(out, "do not commit these") || !strings.Contains(out, "a.py") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRun_Pygrep(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\nimport pdb\ny = 2\n", 0o644)
	writeFile(t, root, "b.py", "clean = True\n", 0o644)

	r := New(root)
	res, err := r.Run(context.Background(), domain.Hook{
		ID:       "debug-statements",
		Entry:    `\bimport pdb\b`,
		Language: domain.LangPygrep,
	}, "", []string{"a.py", "b.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if res.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got=%s", res.Status)
	}
	if !strings.Contains(string(res.Output), "a.py:2:import pdb") {
		t.Fatalf("unexpected output: %q", res.Output)
	}
}

func TestRun_PygrepNoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "clean = True\n", 0o644)

	r := New(root)
	res, err := r.Run(context.Background(), domain.Hook{
		ID:       "debug-statements",
		Entry:    `\bimport pdb\b`,
		Language: domain.LangPygrep,
	}, "", []string{"a.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != domain.StatusPassed {
		t.Fatalf("expected passed, got=%s", res.Status)
	}
}

func TestRun_PygrepBadPattern(t *testing.T) {
	r := New(t.TempDir())
	_, err := r.Run(context.Background(), domain.Hook{
		ID:       "bad",
		Entry:    "([unclosed",
		Language: domain.LangPygrep,
	}, "", nil)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got=%v", err)
	}
}

func TestRun_SystemPassing(t *testing.T) {
	requireBin(t, "true")

	r := New(t.TempDir())
	res, err := r.Run(context.Background(), domain.Hook{
		ID:            "always-ok",
		Entry:         "true",
		Language:      domain.LangSystem,
		PassFilenames: true,
	}, "", []string{"a.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != domain.StatusPassed || res.ExitCode != 0 {
		t.Fatalf("expected pass, got status=%s exit=%d", res.Status, res.ExitCode)
	}
}

func TestRun_SystemFailing(t *testing.T) {
	requireBin(t, "false")

	r := New(t.TempDir())
	res, err := r.Run(context.Background(), domain.Hook{
		ID:            "always-no",
		Entry:         "false",
		Language:      domain.LangSystem,
		PassFilenames: true,
	}, "", []string{"a.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got=%s", res.Status)
	}
}

func TestRun_SystemMissingBinary(t *testing.T) {
	r := New(t.TempDir())
	_, err := r.Run(context.Background(), domain.Hook{
		ID:       "ghost",
		Entry:    "precept-no-such-binary-xyz",
		Language: domain.LangSystem,
	}, "", nil)
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution kind, got=%v", err)
	}
}

func TestRun_ScriptFromRepoDir(t *testing.T) {
	requireBin(t, "sh")

	repoDir := t.TempDir()
	writeFile(t, repoDir, "check.sh", "#!/bin/sh\necho checked \"$@\"\nexit 0\n", 0o755)

	r := New(t.TempDir())
	res, err := r.Run(context.Background(), domain.Hook{
		ID:            "check",
		Entry:         "check.sh",
		Language:      domain.LangScript,
		PassFilenames: true,
	}, repoDir, []string{"a.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != domain.StatusPassed {
		t.Fatalf("expected pass, got=%s output=%q", res.Status, res.Output)
	}
	if !strings.Contains(string(res.Output), "checked a.py") {
		t.Fatalf("unexpected output: %q", res.Output)
	}
}

func TestRun_NoPassFilenames(t *testing.T) {
	requireBin(t, "sh")

	r := New(t.TempDir())
	res, err := r.Run(context.Background(), domain.Hook{
		ID:       "count-args",
		Entry:    `sh -c 'echo argc=$#' argv0`,
		Language: domain.LangSystem,
	}, "", []string{"a.py", "b.py"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(string(res.Output), "argc=0") {
		t.Fatalf("expected no filenames forwarded, got=%q", res.Output)
	}
}

func TestRun_UnsupportedLanguage(t *testing.T) {
	r := New(t.TempDir())
	_, err := r.Run(context.Background(), domain.Hook{
		ID:       "ruby-thing",
		Entry:    "rubocop",
		Language: domain.Language("ruby"),
	}, "", nil)
	if !domain.IsKind(err, domain.KindUnsupported) {
		t.Fatalf("expected unsupported, got=%v", err)
	}
}

func TestRun_OutputTruncation(t *testing.T) {
	requireBin(t, "sh")

	r := New(t.TempDir(), WithMaxOutputBytes(16))
	res, err := r.Run(context.Background(), domain.Hook{
		ID:       "noisy",
		Entry:    `sh -c 'printf "%0.s-" $(seq 1 200)'`,
		Language: domain.LangSystem,
	}, "", nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !res.Truncated {
		t.Fatal("expected truncated output")
	}
	if len(res.Output) != 16 {
		t.Fatalf("expected 16 bytes kept, got=%d", len(res.Output))
	}
}

func TestSplitEntry(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"flake8", []string{"flake8"}},
		{"yapf -i", []string{"yapf", "-i"}},
		{`sh -c 'echo a b'`, []string{"sh", "-c", "echo a b"}},
		{`codespell --ignore-words ".codespell"`, []string{"codespell", "--ignore-words", ".codespell"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
	}
	for _, c := range cases {
		got, err := splitEntry(c.in)
		if err != nil {
			t.Fatalf("splitEntry(%q) error: %v", c.in, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("splitEntry(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitEntry(%q) = %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestSplitEntry_UnterminatedQuote(t *testing.T) {
	if _, err := splitEntry(`sh -c 'oops`); err == nil {
		t.Fatal("expected error")
	}
}

func TestBatchArgs(t *testing.T) {
	files := []string{"aaaa", "bbbb", "cccc", "dddd"}

	batches := batchArgs(files, 0, 10)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got=%d (%v)", len(batches), batches)
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total != len(files) {
		t.Fatalf("expected all files batched, got=%d", total)
	}
}

func TestBatchArgs_NoFiles(t *testing.T) {
	batches := batchArgs(nil, 0, 10)
	if len(batches) != 1 || batches[0] != nil {
		t.Fatalf("expected single empty batch, got=%v", batches)
	}
}
