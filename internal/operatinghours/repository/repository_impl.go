package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/delivize/delivize/internal/operatinghours/domain"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ReplaceForMenu(ctx context.Context, menuID snowflake.ID, hours []domain.OperatingHour) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menuID).Delete(&domain.OperatingHour{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

func (r *repository) ListForMenu(ctx context.Context, menuID snowflake.ID) ([]domain.OperatingHour, error) {
	var hours []domain.OperatingHour
	if err := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("weekday ASC, opens_at ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}
