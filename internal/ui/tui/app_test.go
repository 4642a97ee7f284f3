package tui

import (
	"errors"
	"testing"
)

func TestInitSchedulesRepoRefresh(t *testing.T) {
	m := newModel(Deps{})
	if m.Init() == nil {
		t.Fatal("expected Init to schedule the repo lookup")
	}
	if m.repoFound {
		t.Fatal("expected no repo before the refresh message arrives")
	}
}

func TestUpdate_RepoRefreshed(t *testing.T) {
	m := newModel(Deps{})

	next, _ := m.Update(repoRefreshedMsg{cwd: "/w", found: true, root: "/w/repo"})
	got := next.(model)
	if !got.repoFound || got.repoRoot != "/w/repo" {
		t.Fatalf("expected repo recorded, found=%v root=%q", got.repoFound, got.repoRoot)
	}

	next, _ = got.Update(repoRefreshedMsg{cwd: "/w", found: false, err: errors.New("no repo")})
	got = next.(model)
	if got.repoFound {
		t.Fatal("expected repo cleared on failed refresh")
	}
	if got.toast == "" {
		t.Fatal("expected an error toast")
	}
}
