package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/config"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	menurepository "github.com/delivize/delivize/internal/menu/repository"
	"github.com/delivize/delivize/internal/upload/domain"
	"github.com/delivize/delivize/internal/upload/repository"
)

type memStorage struct {
	saved   map[string][]byte
	removed []string
}

func newMemStorage() *memStorage {
	return &memStorage{saved: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.saved[key] = data
	return "/uploads/" + key, nil
}

func (m *memStorage) Remove(_ context.Context, key string) error {
	delete(m.saved, key)
	m.removed = append(m.removed, key)
	return nil
}

func setup(t *testing.T) (domain.Service, *memStorage, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&menudomain.Menu{}, &domain.Upload{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	store := newMemStorage()
	cfg := config.Config{}
	cfg.Uploads.MaxSizeBytes = 1 << 20
	svc := New(repository.New(conn), menurepository.New(conn), store, node, cfg, zap.NewNop())
	return svc, store, conn, node
}

func seedMenu(t *testing.T, conn *gorm.DB, node *snowflake.Node, owner snowflake.ID) *menudomain.Menu {
	t.Helper()
	menu := &menudomain.Menu{
		ID:           node.Generate(),
		Name:         "Pizzaria Upload",
		Subdomain:    "upload" + node.Generate().String(),
		OwnerUserID:  owner,
		TimezoneName: "America/Sao_Paulo",
	}
	require.NoError(t, conn.Create(menu).Error)
	return menu
}

func TestStoreAndList(t *testing.T) {
	svc, store, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	upload, err := svc.Store(ctx, owner, menu.ID, domain.StoreRequest{
		Filename:    "foto.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpegbytes"),
		SizeBytes:   9,
	})
	require.NoError(t, err)
	require.Equal(t, "foto.jpg", upload.Filename)
	require.True(t, strings.HasPrefix(upload.PublicURL, "/uploads/"))
	require.Len(t, store.saved, 1)

	uploads, err := svc.List(ctx, owner, menu.ID)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
}

func TestStoreRejectsUnsupportedType(t *testing.T) {
	svc, _, conn, node := setup(t)
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	_, err := svc.Store(context.Background(), owner, menu.ID, domain.StoreRequest{
		Filename:    "script.sh",
		ContentType: "application/x-sh",
		Body:        strings.NewReader("#!/bin/sh"),
		SizeBytes:   9,
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestStoreRejectsOversizedUpload(t *testing.T) {
	svc, _, conn, node := setup(t)
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	_, err := svc.Store(context.Background(), owner, menu.ID, domain.StoreRequest{
		Filename:    "huge.png",
		ContentType: "image/png",
		Body:        strings.NewReader("x"),
		SizeBytes:   2 << 20,
	})
	require.ErrorIs(t, err, domain.ErrUploadTooLarge)
}

func TestStoreRequiresOwnership(t *testing.T) {
	svc, _, conn, node := setup(t)
	menu := seedMenu(t, conn, node, snowflake.ID(1))

	_, err := svc.Store(context.Background(), snowflake.ID(2), menu.ID, domain.StoreRequest{
		Filename:    "foto.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpegbytes"),
		SizeBytes:   9,
	})
	require.ErrorIs(t, err, menudomain.ErrNotOwner)
}

func TestDeleteRemovesBinary(t *testing.T) {
	svc, store, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	upload, err := svc.Store(ctx, owner, menu.ID, domain.StoreRequest{
		Filename:    "foto.webp",
		ContentType: "image/webp",
		Body:        strings.NewReader("webpbytes"),
		SizeBytes:   9,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, upload.ID))
	require.Empty(t, store.saved)

	err = svc.Delete(ctx, owner, upload.ID)
	require.ErrorIs(t, err, domain.ErrUploadNotFound)
}
