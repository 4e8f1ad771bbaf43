package auth

import (
	"github.com/delivize/delivize/internal/auth/repository"
	"github.com/delivize/delivize/internal/auth/service"
	"github.com/delivize/delivize/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
