package domain

// Settings represents the minimal Precept configuration loaded from .precept.yaml.
// This is tool behavior, not hook configuration; hooks live in Config.
type Settings struct {
	Output   OutputSettings
	Defaults DefaultsSettings
	Paths    PathsSettings
}

type OutputSettings struct {
	// MaxBytes caps captured hook output per hook invocation.
	MaxBytes int64
	// Color is "auto", "always" or "never".
	Color string
}

type DefaultsSettings struct {
	Stage Stage
}

type PathsSettings struct {
	// CacheDir holds materialized hook repos. Empty means the
	// platform user cache dir (resolved by infra).
	CacheDir string
	RunsDir  string
}

// DefaultSettings provides sane defaults if .precept.yaml is partially missing.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{
			MaxBytes: 256 * 1024,
			Color:    "auto",
		},
		Defaults: DefaultsSettings{
			Stage: StagePreCommit,
		},
		Paths: PathsSettings{
			CacheDir: "",
			RunsDir:  ".precept/runs",
		},
	}
}
