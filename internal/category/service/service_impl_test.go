package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/category/domain"
	"github.com/delivize/delivize/internal/category/repository"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	menurepository "github.com/delivize/delivize/internal/menu/repository"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&menudomain.Menu{}, &domain.Category{}, &domain.Item{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := New(repository.New(conn), menurepository.New(conn), node)
	return svc, conn, node
}

func seedMenu(t *testing.T, conn *gorm.DB, node *snowflake.Node, owner snowflake.ID) *menudomain.Menu {
	t.Helper()
	menu := &menudomain.Menu{
		ID:           node.Generate(),
		Name:         "Pizzaria Teste",
		Subdomain:    "pizzariateste" + node.Generate().String(),
		OwnerUserID:  owner,
		TimezoneName: "America/Sao_Paulo",
	}
	require.NoError(t, conn.Create(menu).Error)
	return menu
}

func TestCategoryAndItemLifecycle(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	category, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Pizzas", Position: 1})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, owner, category.ID, domain.CreateItemRequest{
		Name:       "Margherita",
		PriceCents: 4500,
	})
	require.NoError(t, err)
	require.True(t, item.Available)

	price := int64(4800)
	updated, err := svc.UpdateItem(ctx, owner, item.ID, domain.UpdateItemRequest{PriceCents: &price})
	require.NoError(t, err)
	require.Equal(t, int64(4800), updated.PriceCents)

	tree, err := svc.ListForMenu(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "Pizzas", tree[0].Name)
	require.Len(t, tree[0].Items, 1)
	require.Equal(t, "Margherita", tree[0].Items[0].Name)

	require.NoError(t, svc.DeleteItem(ctx, owner, item.ID))
	require.NoError(t, svc.DeleteCategory(ctx, owner, category.ID))

	tree, err = svc.ListForMenu(ctx, menu.ID)
	require.NoError(t, err)
	require.Empty(t, tree)
}

func TestListForMenuOrdersByPosition(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	_, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Sobremesas", Position: 2})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Pizzas", Position: 1})
	require.NoError(t, err)

	tree, err := svc.ListForMenu(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, "Pizzas", tree[0].Name)
	require.Equal(t, "Sobremesas", tree[1].Name)
}

func TestDeleteCategoryCascadesItems(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	category, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, owner, category.ID, domain.CreateItemRequest{Name: "Suco", PriceCents: 900})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, owner, category.ID))

	var count int64
	require.NoError(t, conn.Model(&domain.Item{}).Where("id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	intruder := snowflake.ID(2)
	menu := seedMenu(t, conn, node, owner)

	_, err := svc.CreateCategory(ctx, intruder, menu.ID, domain.CreateCategoryRequest{Name: "Pizzas"})
	require.ErrorIs(t, err, menudomain.ErrNotOwner)

	category, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Pizzas"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteCategory(ctx, intruder, category.ID), menudomain.ErrNotOwner)

	_, err = svc.CreateItem(ctx, intruder, category.ID, domain.CreateItemRequest{Name: "Calabresa", PriceCents: 4000})
	require.ErrorIs(t, err, menudomain.ErrNotOwner)
}

func TestValidation(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()
	owner := snowflake.ID(1)
	menu := seedMenu(t, conn, node, owner)

	_, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	category, err := svc.CreateCategory(ctx, owner, menu.ID, domain.CreateCategoryRequest{Name: "Pizzas"})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, owner, category.ID, domain.CreateItemRequest{Name: "Broto", PriceCents: -1})
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
}
