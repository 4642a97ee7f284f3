package ports

import "github.com/precept-tool/precept/internal/domain"

// ArtifactStore persists run artifacts for reproducibility.
type ArtifactStore interface {
	SaveRun(run domain.RunResult) (id string, err error)
	ListRuns() ([]domain.RunRef, error)
	LoadRun(id string) (domain.RunResult, error)
}
