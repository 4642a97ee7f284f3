package ports

import (
	"context"

	"github.com/precept-tool/precept/internal/domain"
)

// HookRunner executes a single resolved hook over a filtered file set.
// repoDir is empty for local and meta hooks.
type HookRunner interface {
	Run(ctx context.Context, hook domain.Hook, repoDir string, files []string) (domain.HookResult, error)
}
