package customdomain

import (
	"go.uber.org/fx"

	"github.com/delivize/delivize/internal/config"
	"github.com/delivize/delivize/internal/customdomain/domain"
	"github.com/delivize/delivize/internal/customdomain/hosting"
	"github.com/delivize/delivize/internal/customdomain/service"
)

var Module = fx.Module("customdomain.service",
	fx.Provide(newProvisioner),
	fx.Provide(service.New),
)

func newProvisioner(cfg config.Config) domain.Provisioner {
	if cfg.Hosting.AuthToken == "" || cfg.Hosting.ProjectID == "" {
		return hosting.NewNoop()
	}
	return hosting.NewClient(cfg)
}
