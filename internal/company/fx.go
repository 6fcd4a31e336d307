package company

import (
	"github.com/revloop/revloop/internal/company/repository"
	"github.com/revloop/revloop/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
