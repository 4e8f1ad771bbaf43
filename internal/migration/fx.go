package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdomain "github.com/delivize/delivize/internal/auth/domain"
	billingdomain "github.com/delivize/delivize/internal/billing/domain"
	billingeventdomain "github.com/delivize/delivize/internal/billingevent/domain"
	categorydomain "github.com/delivize/delivize/internal/category/domain"
	"github.com/delivize/delivize/internal/config"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	hoursdomain "github.com/delivize/delivize/internal/operatinghours/domain"
	uploaddomain "github.com/delivize/delivize/internal/upload/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres databases are for local development and tests; gorm's
		// schema sync keeps them usable without dialect-specific SQL.
		return conn.AutoMigrate(
			&authdomain.User{},
			&authdomain.Session{},
			&menudomain.Menu{},
			&categorydomain.Category{},
			&categorydomain.Item{},
			&hoursdomain.OperatingHour{},
			&uploaddomain.Upload{},
			&billingdomain.Profile{},
			&billingeventdomain.BillingEvent{},
		)
	}),
)
