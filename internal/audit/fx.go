package audit

import (
	"github.com/kpharma/pharmgate/internal/audit/repository"
	"github.com/kpharma/pharmgate/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
