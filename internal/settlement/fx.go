package settlement

import (
	"github.com/kpharma/pharmgate/internal/settlement/repository"
	"github.com/kpharma/pharmgate/internal/settlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
