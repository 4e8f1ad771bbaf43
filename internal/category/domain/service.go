package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service manages a menu's categories and items. Every mutating call takes the
// owner so handlers cannot edit another tenant's menu.
type Service interface {
	CreateCategory(ctx context.Context, ownerID, menuID snowflake.ID, req CreateCategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, ownerID, categoryID snowflake.ID, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, ownerID, categoryID snowflake.ID) error

	CreateItem(ctx context.Context, ownerID, categoryID snowflake.ID, req CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID snowflake.ID, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, ownerID, itemID snowflake.ID) error

	// ListForMenu returns the full ordered category/item tree for a menu.
	ListForMenu(ctx context.Context, menuID snowflake.ID) ([]CategoryWithItems, error)
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Available   *bool   `json:"available,omitempty"`
	Position    int     `json:"position"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Available   *bool   `json:"available,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

var (
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrItemNotFound     = errors.New("item_not_found")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
)
