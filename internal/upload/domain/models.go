package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Upload struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	MenuID      snowflake.ID `json:"menu_id" gorm:"index:ix_uploads_menu;not null"`
	Filename    string       `json:"filename" gorm:"not null"`
	ContentType string       `json:"content_type" gorm:"not null"`
	SizeBytes   int64        `json:"size_bytes" gorm:"not null"`
	PublicURL   string       `json:"public_url" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Upload) TableName() string {
	return "uploads"
}

type Service interface {
	Store(ctx context.Context, ownerID, menuID snowflake.ID, req StoreRequest) (*Upload, error)
	List(ctx context.Context, ownerID, menuID snowflake.ID) ([]Upload, error)
	Delete(ctx context.Context, ownerID, uploadID snowflake.ID) error
}

type StoreRequest struct {
	Filename    string
	ContentType string
	Body        io.Reader
	SizeBytes   int64
}

type Repository interface {
	Create(ctx context.Context, upload *Upload) error
	GetByID(ctx context.Context, id snowflake.ID) (*Upload, error)
	ListByMenu(ctx context.Context, menuID snowflake.ID) ([]Upload, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

// Storage writes and removes upload binaries. Save returns the public URL the
// stored object is served from.
type Storage interface {
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}

var (
	ErrUploadNotFound    = errors.New("upload_not_found")
	ErrInvalidUpload     = errors.New("invalid_upload")
	ErrUnsupportedType   = errors.New("unsupported_content_type")
	ErrUploadTooLarge    = errors.New("upload_too_large")
)
