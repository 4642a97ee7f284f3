package tui

import (
	"log/slog"

	"github.com/precept-tool/precept/internal/ports"
)

type Deps struct {
	RepoLocator ports.RepoLocator

	Logger *slog.Logger
	Debug  bool
}
