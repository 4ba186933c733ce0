package branch

import (
	"github.com/kpharma/pharmgate/internal/branch/repository"
	"github.com/kpharma/pharmgate/internal/branch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("branch.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
