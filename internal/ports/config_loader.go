package ports

import "github.com/precept-tool/precept/internal/domain"

// ConfigLoader loads a project hook configuration from a source (e.g., filesystem).
type ConfigLoader interface {
	LoadConfig(path string) (domain.Config, error)
}
