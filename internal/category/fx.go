package category

import (
	"github.com/revloop/revloop/internal/category/repository"
	"github.com/revloop/revloop/internal/category/service"
	"go.uber.org/fx"
)

var Module = fx.Module("category.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
