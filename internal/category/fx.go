package category

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/category/repository"
	"github.com/delivize/delivize/internal/category/service"
)

var Module = fx.Module("category.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
