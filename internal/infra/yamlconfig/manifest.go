package yamlconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/precept-tool/precept/internal/domain"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the well-known manifest name inside a hook repository.
const ManifestFile = ".pre-commit-hooks.yaml"

// LoadManifest reads a hook repo's manifest from dir.
func LoadManifest(dir string) (domain.Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Manifest{}, &domain.OpError{
			Op:   "yamlconfig.manifest",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var hooks []yamlHook
	if err := yaml.Unmarshal(b, &hooks); err != nil {
		return domain.Manifest{}, &domain.OpError{
			Op:   "yamlconfig.manifest",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	m := domain.Manifest{Hooks: make([]domain.Hook, 0, len(hooks))}
	seen := map[string]bool{}

	for i, yh := range hooks {
		fieldPrefix := fmt.Sprintf("[%d]", i)

		h, err := mapHook(path, fieldPrefix, yh)
		if err != nil {
			return domain.Manifest{}, err
		}
		if strings.TrimSpace(h.Entry) == "" {
			return domain.Manifest{}, invalidField(path, fieldPrefix+".entry", "entry is required")
		}
		if h.Language == "" {
			return domain.Manifest{}, invalidField(path, fieldPrefix+".language", "language is required")
		}
		if seen[h.ID] {
			return domain.Manifest{}, invalidField(path, fieldPrefix+".id", fmt.Sprintf("duplicate hook id %q", h.ID))
		}
		seen[h.ID] = true

		// Manifest defaults: hooks apply to every file unless they say otherwise.
		if len(h.Types) == 0 && len(h.TypesOr) == 0 {
			h.Types = []string{"file"}
		}
		if h.Name == "" {
			h.Name = h.ID
		}

		m.Hooks = append(m.Hooks, h)
	}

	return m, nil
}
