package operatinghours

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/operatinghours/repository"
	"github.com/delivize/delivize/internal/operatinghours/service"
)

var Module = fx.Module("operatinghours.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
