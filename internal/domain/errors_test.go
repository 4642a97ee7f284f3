package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "yamlconfig.load",
		Kind: KindInvalidConfig,
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindInvalidConfig {
		t.Fatalf("expected kind %s", KindInvalidConfig)
	}
}

func TestIsKindForOpError(t *testing.T) {
	err := &OpError{
		Op:   "hookcache.clone",
		Kind: KindGit,
	}

	if !IsKind(err, KindGit) {
		t.Fatalf("expected IsKind to match op error")
	}
	if IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to reject other kinds")
	}
}

func TestOpErrorStringIncludesPath(t *testing.T) {
	err := &OpError{
		Op:   "yamlconfig.load",
		Kind: KindNotFound,
		Path: ".pre-commit-config.yaml",
		Err:  errors.New("no such file"),
	}
	s := err.Error()
	if s == "" {
		t.Fatal("expected non-empty message")
	}
	for _, want := range []string{"yamlconfig.load", "not_found", ".pre-commit-config.yaml"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in %q", want, s)
		}
	}
}
