package organization

import (
	"github.com/kpharma/pharmgate/internal/organization/repository"
	"github.com/kpharma/pharmgate/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
