package ports

import (
	"context"

	"github.com/precept-tool/precept/internal/domain"
)

// MaterializedRepo is a hook repository made available on disk.
type MaterializedRepo struct {
	URL      string
	Rev      string
	Dir      string
	Manifest domain.Manifest
}

// RepoStore materializes pinned hook repositories into a local cache.
type RepoStore interface {
	// Ensure clones url at rev on first use and returns the cached copy afterwards.
	Ensure(ctx context.Context, url, rev string) (MaterializedRepo, error)
	// Clean removes the whole cache.
	Clean() error
	// GC removes cache entries whose (url, rev) is not in keep.
	GC(keep []domain.HookRef) (removed int, err error)
}
