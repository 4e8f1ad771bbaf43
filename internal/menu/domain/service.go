package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create allocates a unique subdomain from the business name and inserts
	// the menu, retrying allocation on insert conflicts.
	Create(ctx context.Context, ownerID snowflake.ID, req CreateMenuRequest) (*Menu, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Menu, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Menu, error)
	GetByCustomDomain(ctx context.Context, host string) (*Menu, error)
	GetByOwner(ctx context.Context, ownerID snowflake.ID) (*Menu, error)
	UpdateSettings(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID, req UpdateSettingsRequest) (*Menu, error)
	AttachCustomDomain(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID, host string) (*Menu, error)
	DetachCustomDomain(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID) (*Menu, error)
}

type CreateMenuRequest struct {
	Name         string
	TimezoneName string
}

// UpdateSettingsRequest carries owner-editable fields; nil means unchanged.
type UpdateSettingsRequest struct {
	Name      *string
	Subdomain *string
	PhotoURL  *string
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrMenuNotFound    = errors.New("menu_not_found")
	ErrNotOwner        = errors.New("not_menu_owner")
	ErrSubdomainTaken  = errors.New("subdomain_taken")
	ErrInvalidDomain   = errors.New("invalid_domain")
	ErrDomainTaken     = errors.New("domain_taken")
	ErrNoCustomDomain  = errors.New("no_custom_domain")
)
