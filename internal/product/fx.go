package product

import (
	"github.com/revloop/revloop/internal/product/repository"
	"github.com/revloop/revloop/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
