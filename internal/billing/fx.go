package billing

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/billing/repository"
	"github.com/delivize/delivize/internal/billing/service"
)

var Module = fx.Module("billing.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
