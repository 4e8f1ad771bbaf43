package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/delivize/delivize/internal/menu/domain"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, menu *domain.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Menu, error) {
	var menu domain.Menu
	if err := r.db.WithContext(ctx).First(&menu, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *repository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Menu, error) {
	var menu domain.Menu
	if err := r.db.WithContext(ctx).First(&menu, "subdomain = ?", strings.ToLower(subdomain)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *repository) GetByCustomDomain(ctx context.Context, host string) (*domain.Menu, error) {
	var menu domain.Menu
	if err := r.db.WithContext(ctx).First(&menu, "custom_domain = ?", strings.ToLower(host)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID snowflake.ID) ([]domain.Menu, error) {
	var menus []domain.Menu
	if err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *repository) ListSubdomainsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var subdomains []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Menu{}).
		Where("subdomain LIKE ?", strings.ToLower(prefix)+"%").
		Pluck("subdomain", &subdomains).Error; err != nil {
		return nil, err
	}
	return subdomains, nil
}

func (r *repository) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Menu{}).
		Where("id = ?", id).
		Updates(fields).Error
}
