package reward

import "go.uber.org/fx"

var Module = fx.Module("reward.dispatcher",
	fx.Provide(New),
)
