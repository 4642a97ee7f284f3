package ports

import "context"

// GitClient exposes the git operations Precept needs. Paths are
// repo-relative with forward slashes, as git reports them.
type GitClient interface {
	// StagedFiles lists added/copied/modified/renamed paths in the index.
	StagedFiles(ctx context.Context) ([]string, error)
	// AllFiles lists every tracked path.
	AllFiles(ctx context.Context) ([]string, error)
	// HasUnmergedPaths reports whether the index contains conflict entries.
	HasUnmergedPaths(ctx context.Context) (bool, error)
}
