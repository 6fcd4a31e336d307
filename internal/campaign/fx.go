package campaign

import (
	"github.com/revloop/revloop/internal/campaign/repository"
	"github.com/revloop/revloop/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
