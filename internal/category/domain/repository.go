package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id snowflake.ID) (*Category, error)
	ListCategories(ctx context.Context, menuID snowflake.ID) ([]Category, error)
	UpdateCategory(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteCategory(ctx context.Context, id snowflake.ID) error

	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id snowflake.ID) (*Item, error)
	ListItems(ctx context.Context, categoryIDs []snowflake.ID) ([]Item, error)
	UpdateItem(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteItem(ctx context.Context, id snowflake.ID) error
}
