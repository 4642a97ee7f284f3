package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/precept-tool/precept/internal/domain"
)

func testStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	tmp := t.TempDir()

	settings := domain.DefaultSettings()
	settings.Paths.RunsDir = "runs"

	return NewJSONStore(tmp, settings), tmp
}

func sampleRun(start time.Time) domain.RunResult {
	return domain.RunResult{
		ConfigPath: ".pre-commit-config.yaml",
		RepoRoot:   "/work/mmflow",
		Stage:      domain.StagePreCommit,
		StartedAt:  start,
		EndedAt:    start.Add(2 * time.Second),
		Results: []domain.HookResult{
			{
				ID:        "flake8",
				Name:      "flake8",
				RepoURL:   "https://github.com/PyCQA/flake8",
				Status:    domain.StatusPassed,
				FileCount: 3,
				ExitCode:  0,
			},
			{
				ID:       "codespell",
				Name:     "codespell",
				Status:   domain.StatusFailed,
				ExitCode: 1,
				Output:   []byte("configs/README.md:3: teh ==> the\n"),
			},
		},
	}
}

func TestSaveRun_CreatesJSONFile(t *testing.T) {
	store, tmp := testStore(t)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	id, err := store.SaveRun(sampleRun(start))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	wantFile := filepath.Join(tmp, "runs", "20260203T101112Z_pre-commit.json")
	if _, err := os.Stat(wantFile); err != nil {
		t.Fatalf("expected file at %s, stat err=%v (id=%s)", wantFile, err, id)
	}

	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var decoded domain.RunResult
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Stage != domain.StagePreCommit {
		t.Fatalf("expected stage, got=%q", decoded.Stage)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("expected 2 results, got=%d", len(decoded.Results))
	}
	if decoded.Results[1].Status != domain.StatusFailed {
		t.Fatalf("expected failed result, got=%s", decoded.Results[1].Status)
	}
}

func TestSaveRun_UsesUniqueFilenameOnCollision(t *testing.T) {
	store, tmp := testStore(t)

	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	run := sampleRun(start)

	id1, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #1 error: %v", err)
	}
	id2, err := store.SaveRun(run)
	if err != nil {
		t.Fatalf("SaveRun #2 error: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected unique ids, got %q", id1)
	}
	if id2 != id1+"_2" {
		t.Fatalf("expected second id %q, got %q", id1+"_2", id2)
	}

	for _, id := range []string{id1, id2} {
		p := filepath.Join(tmp, "runs", id+".json")
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected file at %s, stat err=%v", p, err)
		}
	}
}

func TestListRuns_FromIndex(t *testing.T) {
	store, _ := testStore(t)

	t1 := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC)

	if _, err := store.SaveRun(sampleRun(t1)); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}
	if _, err := store.SaveRun(sampleRun(t2)); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	refs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got=%d", len(refs))
	}
	// Newest first.
	if !refs[0].StartedAt.After(refs[1].StartedAt) {
		t.Fatalf("expected newest first, got %v then %v", refs[0].StartedAt, refs[1].StartedAt)
	}
	if refs[0].Failures != 1 {
		t.Fatalf("expected 1 failure recorded, got=%d", refs[0].Failures)
	}
}

func TestListRuns_ScansWithoutIndex(t *testing.T) {
	tmp := t.TempDir()
	settings := domain.DefaultSettings()
	settings.Paths.RunsDir = "runs"
	store := NewJSONStore(tmp, settings, WithIndex(false))

	if _, err := store.SaveRun(sampleRun(time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	refs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref from scan, got=%d", len(refs))
	}
}

func TestListRuns_EmptyWhenNoDir(t *testing.T) {
	store, _ := testStore(t)
	refs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got=%d", len(refs))
	}
}

func TestLoadRun_RoundTrip(t *testing.T) {
	store, _ := testStore(t)

	id, err := store.SaveRun(sampleRun(time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	run, err := store.LoadRun(id)
	if err != nil {
		t.Fatalf("LoadRun error: %v", err)
	}
	if run.Results[0].ID != "flake8" {
		t.Fatalf("expected flake8 result, got=%q", run.Results[0].ID)
	}
}

func TestLoadRun_Missing(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.LoadRun("20990101T000000Z_pre-commit")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"pre-commit", "pre-commit"},
		{"Pre Push", "pre-push"},
		{"", ""},
		{"--manual--", "manual"},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
