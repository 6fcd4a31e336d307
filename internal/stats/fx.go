package stats

import "go.uber.org/fx"

var Module = fx.Module("stats.maintainer",
	fx.Provide(New),
)
