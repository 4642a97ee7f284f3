package repofinder

import (
	"os"
	"path/filepath"

	"github.com/precept-tool/precept/internal/domain"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the optional tool settings file at the repo root.
const SettingsFile = ".precept.yaml"

// LoadSettings loads .precept.yaml from the repo root and applies defaults.
// A missing file is not an error: the file is optional.
func LoadSettings(root string) (domain.Settings, error) {
	cfg := domain.DefaultSettings()

	path := filepath.Join(root, SettingsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, &domain.OpError{
			Op:   "repofinder.loadsettings",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	var y yamlSettings
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "repofinder.loadsettings",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Precept.Output.MaxBytes != nil {
		cfg.Output.MaxBytes = *y.Precept.Output.MaxBytes
	}
	if y.Precept.Output.Color != "" {
		cfg.Output.Color = y.Precept.Output.Color
	}
	if y.Precept.Defaults.Stage != "" {
		cfg.Defaults.Stage = domain.Stage(y.Precept.Defaults.Stage)
	}
	if y.Precept.Paths.CacheDir != "" {
		cfg.Paths.CacheDir = y.Precept.Paths.CacheDir
	}
	if y.Precept.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Precept.Paths.RunsDir
	}

	return cfg, nil
}

type yamlSettings struct {
	Precept struct {
		Output struct {
			MaxBytes *int64 `yaml:"max_bytes"`
			Color    string `yaml:"color"`
		} `yaml:"output"`

		Defaults struct {
			Stage string `yaml:"stage"`
		} `yaml:"defaults"`

		Paths struct {
			CacheDir string `yaml:"cache_dir"`
			RunsDir  string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"precept"`
}
