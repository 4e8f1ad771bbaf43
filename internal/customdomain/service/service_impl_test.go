package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/customdomain/domain"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	menurepository "github.com/delivize/delivize/internal/menu/repository"
	menuservice "github.com/delivize/delivize/internal/menu/service"
)

type fakeProvisioner struct {
	added   []string
	removed []string
	addErr  error
}

func (f *fakeProvisioner) AddDomain(_ context.Context, host string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, host)
	return nil
}

func (f *fakeProvisioner) RemoveDomain(_ context.Context, host string) error {
	f.removed = append(f.removed, host)
	return nil
}

func newTestService(t *testing.T) (domain.Service, menudomain.Service, *fakeProvisioner) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&menudomain.Menu{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	menusvc := menuservice.New(menurepository.New(conn), node, zap.NewNop())
	provisioner := &fakeProvisioner{}
	return New(menusvc, provisioner, zap.NewNop()), menusvc, provisioner
}

func TestAttachRegistersAndStores(t *testing.T) {
	svc, menusvc, provisioner := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(1)

	menu, err := menusvc.Create(ctx, owner, menudomain.CreateMenuRequest{Name: "Meu Restaurante"})
	require.NoError(t, err)

	attached, err := svc.Attach(ctx, owner, menu.ID, "MeuRestaurante.com.br")
	require.NoError(t, err)
	require.Equal(t, []string{"meurestaurante.com.br"}, provisioner.added)
	require.NotNil(t, attached.CustomDomain)
	require.Equal(t, "meurestaurante.com.br", *attached.CustomDomain)
}

func TestAttachRollsBackOnConflict(t *testing.T) {
	svc, menusvc, provisioner := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(1)

	first, err := menusvc.Create(ctx, owner, menudomain.CreateMenuRequest{Name: "Primeiro"})
	require.NoError(t, err)
	second, err := menusvc.Create(ctx, owner, menudomain.CreateMenuRequest{Name: "Segundo"})
	require.NoError(t, err)

	_, err = svc.Attach(ctx, owner, first.ID, "cardapio.com.br")
	require.NoError(t, err)

	_, err = svc.Attach(ctx, owner, second.ID, "cardapio.com.br")
	require.ErrorIs(t, err, menudomain.ErrDomainTaken)
	require.Equal(t, []string{"cardapio.com.br"}, provisioner.removed)
}

func TestDetachRemovesFromEdge(t *testing.T) {
	svc, menusvc, provisioner := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(1)

	menu, err := menusvc.Create(ctx, owner, menudomain.CreateMenuRequest{Name: "Meu Restaurante"})
	require.NoError(t, err)
	_, err = svc.Attach(ctx, owner, menu.ID, "meurestaurante.com.br")
	require.NoError(t, err)

	detached, err := svc.Detach(ctx, owner, menu.ID)
	require.NoError(t, err)
	require.Nil(t, detached.CustomDomain)
	require.Contains(t, provisioner.removed, "meurestaurante.com.br")
}
