package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/delivize/delivize/internal/upload/domain"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, upload *domain.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Upload, error) {
	var upload domain.Upload
	if err := r.db.WithContext(ctx).First(&upload, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *repository) ListByMenu(ctx context.Context, menuID snowflake.ID) ([]domain.Upload, error) {
	var uploads []domain.Upload
	if err := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("created_at DESC").
		Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Upload{}, "id = ?", id).Error
}
