package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 50*time.Millisecond)
	value, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, value)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("a")
	require.False(t, ok)

	c.Set("b", 2, time.Minute)
	c.Delete("b")
	_, ok = c.Get("b")
	require.False(t, ok)
}

type countingRepo struct {
	menudomain.Repository
	menu  *menudomain.Menu
	calls int
}

func (r *countingRepo) GetBySubdomain(_ context.Context, subdomain string) (*menudomain.Menu, error) {
	r.calls++
	if r.menu != nil && r.menu.Subdomain == subdomain {
		return r.menu, nil
	}
	return nil, menudomain.ErrMenuNotFound
}

func (r *countingRepo) GetByCustomDomain(_ context.Context, host string) (*menudomain.Menu, error) {
	r.calls++
	if r.menu != nil && r.menu.CustomDomain != nil && *r.menu.CustomDomain == host {
		return r.menu, nil
	}
	return nil, menudomain.ErrMenuNotFound
}

func TestMenuResolverCachesLookups(t *testing.T) {
	host := "meurestaurante.com.br"
	repo := &countingRepo{menu: &menudomain.Menu{
		ID:           snowflake.ID(1),
		Subdomain:    "pizzaria",
		CustomDomain: &host,
	}}
	resolver := NewMenuResolver(repo, nil, zap.NewNop())
	ctx := context.Background()

	menu, err := resolver.BySubdomain(ctx, "pizzaria")
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(1), menu.ID)
	require.Equal(t, 1, repo.calls)

	_, err = resolver.BySubdomain(ctx, "pizzaria")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	_, err = resolver.ByCustomDomain(ctx, host)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)

	resolver.Invalidate(ctx, repo.menu)
	_, err = resolver.BySubdomain(ctx, "pizzaria")
	require.NoError(t, err)
	require.Equal(t, 3, repo.calls)
}

func TestMenuResolverMissesPropagate(t *testing.T) {
	resolver := NewMenuResolver(&countingRepo{}, nil, zap.NewNop())

	_, err := resolver.BySubdomain(context.Background(), "missing")
	require.ErrorIs(t, err, menudomain.ErrMenuNotFound)
}
