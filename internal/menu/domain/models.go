// Package domain contains persistence models for the tenant menu service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Menu represents a tenant: one business owner's digital menu, addressed by
// its subdomain or an optional custom domain. The unique indexes below are the
// authoritative guard against concurrent allocation races.
type Menu struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Subdomain    string            `gorm:"type:text;not null;uniqueIndex:ux_menus_subdomain" json:"subdomain"`
	CustomDomain *string           `gorm:"type:text;uniqueIndex:ux_menus_custom_domain" json:"custom_domain,omitempty"`
	PhotoURL     *string           `gorm:"type:text" json:"photo_url,omitempty"`
	OwnerUserID  snowflake.ID      `gorm:"column:owner_user_id;not null;index" json:"owner_user_id"`
	TimezoneName string            `gorm:"column:timezone_name;type:text;not null;default:'America/Sao_Paulo'" json:"timezone_name"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Menu) TableName() string { return "menus" }
