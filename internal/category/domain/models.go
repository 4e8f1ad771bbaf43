package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Category struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	MenuID    snowflake.ID `json:"menu_id" gorm:"index:ix_categories_menu,priority:1;not null"`
	Name      string       `json:"name" gorm:"not null"`
	Position  int          `json:"position" gorm:"index:ix_categories_menu,priority:2;not null;default:0"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type Item struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	CategoryID  snowflake.ID `json:"category_id" gorm:"index:ix_items_category,priority:1;not null"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	// PriceCents stores the price in the smallest currency unit.
	PriceCents int64     `json:"price_cents" gorm:"not null;default:0"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	Available  bool      `json:"available" gorm:"not null;default:true"`
	Position   int       `json:"position" gorm:"index:ix_items_category,priority:2;not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// CategoryWithItems is the public-page shape: a category and its items in
// display order.
type CategoryWithItems struct {
	Category
	Items []Item `json:"items"`
}
