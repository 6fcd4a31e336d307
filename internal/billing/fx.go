package billing

import (
	"github.com/revloop/revloop/internal/billing/processor"
	"github.com/revloop/revloop/internal/billing/repository"
	"github.com/revloop/revloop/internal/billing/service"
	"github.com/revloop/revloop/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideProcessor),
	fx.Provide(service.New),
)

func provideProcessor(cfg config.Config) processor.Processor {
	// Only the no-op processor ships today; the port keeps real
	// providers behind configuration.
	return processor.NewNoop()
}
