package usecase

import (
	"context"
	"fmt"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
	ucidentify "github.com/precept-tool/precept/internal/usecase/identify"
)

type ValidateConfig struct {
	configs ports.ConfigLoader
}

func NewValidateConfig(cl ports.ConfigLoader) *ValidateConfig {
	return &ValidateConfig{configs: cl}
}

// Execute validates a configuration without running anything. Structural
// rules live in the loader; this adds checks that need the type-tag
// vocabulary.
func (uc *ValidateConfig) Execute(ctx context.Context, path string) (domain.Config, error) {
	cfg, err := uc.configs.LoadConfig(path)
	if err != nil {
		return domain.Config{}, err
	}

	for _, ref := range cfg.HookRefs() {
		if err := ctx.Err(); err != nil {
			return domain.Config{}, err
		}

		for _, field := range []struct {
			name string
			tags []string
		}{
			{"types", ref.Hook.Types},
			{"types_or", ref.Hook.TypesOr},
			{"exclude_types", ref.Hook.ExcludeTypes},
		} {
			for _, tag := range field.tags {
				if !ucidentify.KnownTag(tag) {
					return domain.Config{}, &domain.OpError{
						Op:   "usecase.validate",
						Kind: domain.KindInvalidConfig,
						Path: path,
						Err:  fmt.Errorf("hook %q %s: unknown tag %q", ref.Hook.ID, field.name, tag),
					}
				}
			}
		}
	}
	return cfg, nil
}
