package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, menu *Menu) error
	GetByID(ctx context.Context, id snowflake.ID) (*Menu, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Menu, error)
	GetByCustomDomain(ctx context.Context, host string) (*Menu, error)
	ListByOwner(ctx context.Context, ownerID snowflake.ID) ([]Menu, error)
	// ListSubdomainsWithPrefix backs the allocator's case-insensitive prefix
	// query against the subdomain column.
	ListSubdomainsWithPrefix(ctx context.Context, prefix string) ([]string, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}
