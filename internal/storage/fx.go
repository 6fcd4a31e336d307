package storage

import (
	"github.com/revloop/revloop/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Provider, error) {
	return NewLocal(cfg.UploadDir)
}
