package ports

import "github.com/precept-tool/precept/internal/domain"

// HookInstaller manages the git hook script that makes Precept run on commit.
type HookInstaller interface {
	Install(root string, stage domain.Stage, force bool) error
	Uninstall(root string, stage domain.Stage) error
}
