package signup

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/delivize/delivize/internal/signup/domain"
)

var Module = fx.Module("signup.service",
	fx.Provide(newProvisioner),
	fx.Provide(NewService),
)

func newProvisioner(db *gorm.DB, genID *snowflake.Node) domain.Provisioner {
	return NewEventProvisioner(db, genID)
}
