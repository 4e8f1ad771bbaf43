package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

const (
	defaultResolveTTL = 60 * time.Second

	keySubdomain    = "resolve:sub:"
	keyCustomDomain = "resolve:host:"
)

// MenuResolver answers public-page host lookups, caching in front of the
// database. Cache misses and cache failures both fall through to the
// repository.
type MenuResolver interface {
	BySubdomain(ctx context.Context, subdomain string) (*menudomain.Menu, error)
	ByCustomDomain(ctx context.Context, host string) (*menudomain.Menu, error)
	// Invalidate drops cached entries after settings or domain changes.
	Invalidate(ctx context.Context, menu *menudomain.Menu)
}

type menuResolver struct {
	repo   menudomain.Repository
	client *redis.Client
	local  Cache[string, *menudomain.Menu]
	ttl    time.Duration
	log    *zap.Logger
}

// NewMenuResolver builds the resolver. client may be nil; the resolver then
// runs on the in-process cache alone.
func NewMenuResolver(repo menudomain.Repository, client *redis.Client, log *zap.Logger) MenuResolver {
	return &menuResolver{
		repo:   repo,
		client: client,
		local:  NewTTLCache[string, *menudomain.Menu](),
		ttl:    defaultResolveTTL,
		log:    log,
	}
}

func (r *menuResolver) BySubdomain(ctx context.Context, subdomain string) (*menudomain.Menu, error) {
	key := keySubdomain + strings.ToLower(subdomain)
	if menu, ok := r.lookup(ctx, key); ok {
		return menu, nil
	}

	menu, err := r.repo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, menu)
	return menu, nil
}

func (r *menuResolver) ByCustomDomain(ctx context.Context, host string) (*menudomain.Menu, error) {
	key := keyCustomDomain + strings.ToLower(host)
	if menu, ok := r.lookup(ctx, key); ok {
		return menu, nil
	}

	menu, err := r.repo.GetByCustomDomain(ctx, host)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, menu)
	return menu, nil
}

func (r *menuResolver) Invalidate(ctx context.Context, menu *menudomain.Menu) {
	if menu == nil {
		return
	}
	keys := []string{keySubdomain + strings.ToLower(menu.Subdomain)}
	if menu.CustomDomain != nil && *menu.CustomDomain != "" {
		keys = append(keys, keyCustomDomain+strings.ToLower(*menu.CustomDomain))
	}
	for _, key := range keys {
		r.local.Delete(key)
	}
	if r.client != nil {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.log.Warn("resolver cache invalidation failed", zap.Error(err))
		}
	}
}

func (r *menuResolver) lookup(ctx context.Context, key string) (*menudomain.Menu, bool) {
	if menu, ok := r.local.Get(key); ok {
		return menu, true
	}
	if r.client == nil {
		return nil, false
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("resolver cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var menu menudomain.Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, false
	}
	r.local.Set(key, &menu, r.ttl)
	return &menu, true
}

func (r *menuResolver) store(ctx context.Context, key string, menu *menudomain.Menu) {
	r.local.Set(key, menu, r.ttl)
	if r.client == nil {
		return
	}
	raw, err := json.Marshal(menu)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.log.Warn("resolver cache write failed", zap.Error(err))
	}
}
