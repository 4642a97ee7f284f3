package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/precept-tool/precept/internal/domain"
)

func TestValidateConfig_Valid(t *testing.T) {
	cfg := localConfig(domain.Hook{
		ID:       "lint",
		Entry:    "lint",
		Language: domain.LangSystem,
		Types:    []string{"python"},
		TypesOr:  []string{"yaml", "json"},
	})

	uc := NewValidateConfig(fakeConfigLoader{cfg: cfg})
	got, err := uc.Execute(context.Background(), "c.yaml")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(got.Repos) != 1 {
		t.Fatalf("expected config returned, got=%+v", got)
	}
}

func TestValidateConfig_UnknownTag(t *testing.T) {
	cfg := localConfig(domain.Hook{
		ID:       "lint",
		Entry:    "lint",
		Language: domain.LangSystem,
		Types:    []string{"klingon"},
	})

	uc := NewValidateConfig(fakeConfigLoader{cfg: cfg})
	_, err := uc.Execute(context.Background(), "c.yaml")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got=%v", err)
	}
}

func TestValidateConfig_LoaderErrorPassesThrough(t *testing.T) {
	want := errors.New("parse failed")
	uc := NewValidateConfig(fakeConfigLoader{err: want})
	_, err := uc.Execute(context.Background(), "c.yaml")
	if !errors.Is(err, want) {
		t.Fatalf("expected loader error, got=%v", err)
	}
}
