package upload

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/upload/domain"
	"github.com/delivize/delivize/internal/upload/repository"
	"github.com/delivize/delivize/internal/upload/service"
	"github.com/delivize/delivize/internal/upload/storage"
)

var Module = fx.Module("upload.service",
	fx.Provide(
		repository.New,
		service.New,
		fx.Annotate(storage.NewDisk, fx.As(new(domain.Storage))),
	),
)
