package promotion

import (
	"github.com/revloop/revloop/internal/promotion/repository"
	"github.com/revloop/revloop/internal/promotion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("promotion.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
