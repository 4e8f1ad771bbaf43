package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Replace swaps the menu's full weekly schedule in one transaction.
	Replace(ctx context.Context, ownerID, menuID snowflake.ID, intervals []IntervalRequest) ([]OperatingHour, error)
	List(ctx context.Context, menuID snowflake.ID) ([]OperatingHour, error)
	// IsOpenNow evaluates the schedule against the menu's timezone.
	IsOpenNow(ctx context.Context, menuID snowflake.ID) (bool, error)
}

type IntervalRequest struct {
	Weekday  int    `json:"weekday"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

type Repository interface {
	ReplaceForMenu(ctx context.Context, menuID snowflake.ID, hours []OperatingHour) error
	ListForMenu(ctx context.Context, menuID snowflake.ID) ([]OperatingHour, error)
}

var (
	ErrInvalidWeekday  = errors.New("invalid_weekday")
	ErrInvalidInterval = errors.New("invalid_interval")
)
