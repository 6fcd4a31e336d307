package quota

import "go.uber.org/fx"

var Module = fx.Module("quota.guard",
	fx.Provide(New),
)
