package service

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/delivize/delivize/internal/config"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/upload/domain"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type service struct {
	repo    domain.Repository
	menus   menudomain.Repository
	storage domain.Storage
	node    *snowflake.Node
	maxSize int64
	log     *zap.Logger
}

func New(repo domain.Repository, menus menudomain.Repository, storage domain.Storage, node *snowflake.Node, cfg config.Config, log *zap.Logger) domain.Service {
	return &service{
		repo:    repo,
		menus:   menus,
		storage: storage,
		node:    node,
		maxSize: cfg.Uploads.MaxSizeBytes,
		log:     log,
	}
}

func (s *service) Store(ctx context.Context, ownerID, menuID snowflake.ID, req domain.StoreRequest) (*domain.Upload, error) {
	if err := s.ownsMenu(ctx, ownerID, menuID); err != nil {
		return nil, err
	}
	if req.Body == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, domain.ErrInvalidUpload
	}
	ext, ok := allowedTypes[req.ContentType]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	if s.maxSize > 0 && req.SizeBytes > s.maxSize {
		return nil, domain.ErrUploadTooLarge
	}

	id := s.node.Generate()
	key := path.Join(menuID.String(), id.String()+ext)

	// Cap the copy one byte past the limit so an understated Content-Length
	// cannot smuggle an oversized body through.
	body := io.Reader(req.Body)
	if s.maxSize > 0 {
		body = io.LimitReader(req.Body, s.maxSize+1)
	}

	url, err := s.storage.Save(ctx, key, req.ContentType, body)
	if err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		ID:          id,
		MenuID:      menuID,
		Filename:    sanitizeFilename(req.Filename),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		PublicURL:   url,
	}
	if err := s.repo.Create(ctx, upload); err != nil {
		if removeErr := s.storage.Remove(ctx, key); removeErr != nil {
			s.log.Warn("orphaned upload binary", zap.String("key", key), zap.Error(removeErr))
		}
		return nil, err
	}
	return upload, nil
}

func (s *service) List(ctx context.Context, ownerID, menuID snowflake.ID) ([]domain.Upload, error) {
	if err := s.ownsMenu(ctx, ownerID, menuID); err != nil {
		return nil, err
	}
	return s.repo.ListByMenu(ctx, menuID)
}

func (s *service) Delete(ctx context.Context, ownerID, uploadID snowflake.ID) error {
	upload, err := s.repo.GetByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := s.ownsMenu(ctx, ownerID, upload.MenuID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, upload.ID); err != nil {
		return err
	}
	key := path.Join(upload.MenuID.String(), path.Base(upload.PublicURL))
	if err := s.storage.Remove(ctx, key); err != nil {
		s.log.Warn("upload binary removal failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *service) ownsMenu(ctx context.Context, ownerID, menuID snowflake.ID) error {
	menu, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return err
	}
	if menu.OwnerUserID != ownerID {
		return menudomain.ErrNotOwner
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if len(name) > 255 {
		name = name[len(name)-255:]
	}
	return name
}
