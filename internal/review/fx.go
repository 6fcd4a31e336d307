package review

import (
	"github.com/revloop/revloop/internal/review/repository"
	"github.com/revloop/revloop/internal/review/service"
	"go.uber.org/fx"
)

var Module = fx.Module("review.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
