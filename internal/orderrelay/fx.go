package orderrelay

import (
	"github.com/kpharma/pharmgate/internal/orderrelay/repository"
	"github.com/kpharma/pharmgate/internal/orderrelay/service"
	"go.uber.org/fx"
)

var Module = fx.Module("orderrelay.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
