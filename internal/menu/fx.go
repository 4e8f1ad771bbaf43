package menu

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/menu/repository"
	"github.com/delivize/delivize/internal/menu/service"
)

var Module = fx.Module("menu.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
