package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/menu/repository"
	"github.com/delivize/delivize/internal/subdomain"
)

func newTestService(t *testing.T) (domain.Service, domain.Repository, *snowflake.Node) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Menu{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.New(conn)
	return New(repo, node, zap.NewNop()), repo, node
}

func TestCreateAllocatesSubdomain(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(42)

	menu, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Pizzaria do João!"})
	require.NoError(t, err)
	require.Equal(t, "pizzariadojoao", menu.Subdomain)
	require.Equal(t, "Pizzaria do João!", menu.Name)
	require.Equal(t, owner, menu.OwnerUserID)
	require.Equal(t, "America/Sao_Paulo", menu.TimezoneName)
}

func TestCreateAppendsSuffixOnCollision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, snowflake.ID(1), domain.CreateMenuRequest{Name: "Pizzaria do João"})
	require.NoError(t, err)
	require.Equal(t, "pizzariadojoao", first.Subdomain)

	second, err := svc.Create(ctx, snowflake.ID(2), domain.CreateMenuRequest{Name: "Pizzaria do João"})
	require.NoError(t, err)
	require.Equal(t, "pizzariadojoao1", second.Subdomain)
}

// racingRepo inserts a competing row with the same subdomain right before the
// first create, so the insert hits the unique index even though allocation saw
// a free name.
type racingRepo struct {
	domain.Repository
	node  *snowflake.Node
	raced bool
}

func (r *racingRepo) Create(ctx context.Context, menu *domain.Menu) error {
	if !r.raced {
		r.raced = true
		competitor := &domain.Menu{
			ID:           r.node.Generate(),
			Name:         "Concorrente",
			Subdomain:    menu.Subdomain,
			OwnerUserID:  snowflake.ID(999),
			TimezoneName: menu.TimezoneName,
			Metadata:     datatypes.JSONMap{},
		}
		if err := r.Repository.Create(ctx, competitor); err != nil {
			return err
		}
	}
	return r.Repository.Create(ctx, menu)
}

func TestCreateRetriesWhenInsertLosesRace(t *testing.T) {
	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Menu{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	racing := &racingRepo{Repository: repository.New(conn), node: node}
	svc := New(racing, node, zap.NewNop())

	menu, err := svc.Create(context.Background(), snowflake.ID(5), domain.CreateMenuRequest{Name: "Pizzaria do João"})
	require.NoError(t, err)
	require.True(t, racing.raced)
	require.Equal(t, "pizzariadojoao1", menu.Subdomain)
}

// exhaustedRepo rejects every insert as a duplicate, as if competitors win the
// unique index on each attempt.
type exhaustedRepo struct {
	domain.Repository
	attempts int
}

func (r *exhaustedRepo) Create(ctx context.Context, menu *domain.Menu) error {
	_ = ctx
	_ = menu
	r.attempts++
	return gorm.ErrDuplicatedKey
}

func TestCreateGivesUpAfterRepeatedInsertConflicts(t *testing.T) {
	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Menu{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := &exhaustedRepo{Repository: repository.New(conn)}
	svc := New(repo, node, zap.NewNop())

	_, err = svc.Create(context.Background(), snowflake.ID(5), domain.CreateMenuRequest{Name: "Pizzaria do João"})
	require.ErrorIs(t, err, subdomain.ErrUnavailable)
	require.Equal(t, 3, repo.attempts)
}

func TestCreateRejectsInvalidNames(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, snowflake.ID(1), domain.CreateMenuRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, snowflake.ID(1), domain.CreateMenuRequest{Name: "日本語"})
	require.ErrorIs(t, err, subdomain.ErrInvalidCandidate)
}

func TestCreateFallsBackToDefaultTimezone(t *testing.T) {
	svc, _, _ := newTestService(t)

	menu, err := svc.Create(context.Background(), snowflake.ID(1), domain.CreateMenuRequest{
		Name:         "Churrascaria Fogo",
		TimezoneName: "Not/AZone",
	})
	require.NoError(t, err)
	require.Equal(t, "America/Sao_Paulo", menu.TimezoneName)
}

func TestUpdateSettings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(7)

	menu, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Lanchonete Azul"})
	require.NoError(t, err)

	name := "Lanchonete Verde"
	sub := "verde"
	updated, err := svc.UpdateSettings(ctx, owner, menu.ID, domain.UpdateSettingsRequest{
		Name:      &name,
		Subdomain: &sub,
	})
	require.NoError(t, err)
	require.Equal(t, "Lanchonete Verde", updated.Name)
	require.Equal(t, "verde", updated.Subdomain)
}

func TestUpdateSettingsRejectsTakenSubdomain(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(7)

	_, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Verde"})
	require.NoError(t, err)
	menu, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Azul"})
	require.NoError(t, err)

	sub := "verde"
	_, err = svc.UpdateSettings(ctx, owner, menu.ID, domain.UpdateSettingsRequest{Subdomain: &sub})
	require.ErrorIs(t, err, domain.ErrSubdomainTaken)
}

func TestUpdateSettingsRequiresOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	menu, err := svc.Create(ctx, snowflake.ID(1), domain.CreateMenuRequest{Name: "Bar do Zé"})
	require.NoError(t, err)

	name := "Outro"
	_, err = svc.UpdateSettings(ctx, snowflake.ID(2), menu.ID, domain.UpdateSettingsRequest{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestCustomDomainLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(9)

	menu, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Meu Restaurante"})
	require.NoError(t, err)

	_, err = svc.DetachCustomDomain(ctx, owner, menu.ID)
	require.ErrorIs(t, err, domain.ErrNoCustomDomain)

	_, err = svc.AttachCustomDomain(ctx, owner, menu.ID, "bad host")
	require.ErrorIs(t, err, domain.ErrInvalidDomain)

	attached, err := svc.AttachCustomDomain(ctx, owner, menu.ID, "MeuRestaurante.com.br")
	require.NoError(t, err)
	require.NotNil(t, attached.CustomDomain)
	require.Equal(t, "meurestaurante.com.br", *attached.CustomDomain)

	byDomain, err := svc.GetByCustomDomain(ctx, "meurestaurante.com.br")
	require.NoError(t, err)
	require.Equal(t, menu.ID, byDomain.ID)

	detached, err := svc.DetachCustomDomain(ctx, owner, menu.ID)
	require.NoError(t, err)
	require.Nil(t, detached.CustomDomain)
}

func TestAttachCustomDomainRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := snowflake.ID(9)

	first, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Primeiro"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, domain.CreateMenuRequest{Name: "Segundo"})
	require.NoError(t, err)

	_, err = svc.AttachCustomDomain(ctx, owner, first.ID, "cardapio.com.br")
	require.NoError(t, err)

	_, err = svc.AttachCustomDomain(ctx, owner, second.ID, "cardapio.com.br")
	require.ErrorIs(t, err, domain.ErrDomainTaken)
}
