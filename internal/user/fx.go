package user

import (
	"github.com/revloop/revloop/internal/user/repository"
	"github.com/revloop/revloop/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
