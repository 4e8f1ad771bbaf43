package signup

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	billingeventdomain "github.com/delivize/delivize/internal/billingevent/domain"
	"github.com/delivize/delivize/internal/signup/domain"
)

const MenuCreatedTopic = "menu.created"

// EventProvisioner records a menu.created outbox row so billing setup can run
// asynchronously.
type EventProvisioner struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewEventProvisioner(db *gorm.DB, genID *snowflake.Node) domain.Provisioner {
	return &EventProvisioner{
		db:    db,
		genID: genID,
	}
}

func (p *EventProvisioner) Provision(ctx context.Context, menuID snowflake.ID) error {
	event := &billingeventdomain.BillingEvent{
		ID:        p.genID.Generate(),
		MenuID:    menuID,
		EventType: MenuCreatedTopic,
		Payload: datatypes.JSONMap{
			"menu_id": menuID.String(),
		},
	}

	return p.db.WithContext(ctx).Create(event).Error
}
