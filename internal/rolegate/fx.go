package rolegate

import "go.uber.org/fx"

var Module = fx.Module("rolegate",
	fx.Provide(NewConfigHolder),
	fx.Provide(New),
)
