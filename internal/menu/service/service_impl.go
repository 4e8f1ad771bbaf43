package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/subdomain"
)

const (
	maxNameLength       = 120
	maxAllocateAttempts = 3
	defaultTimezone     = "America/Sao_Paulo"
)

type service struct {
	repo      domain.Repository
	allocator *subdomain.Allocator
	node      *snowflake.Node
	log       *zap.Logger
}

func New(repo domain.Repository, node *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:      repo,
		allocator: subdomain.NewAllocator(storeAdapter{repo}),
		node:      node,
		log:       log,
	}
}

// storeAdapter exposes the menu repository as an allocation store.
type storeAdapter struct {
	repo domain.Repository
}

func (s storeAdapter) ListWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return s.repo.ListSubdomainsWithPrefix(ctx, prefix)
}

func (s *service) Create(ctx context.Context, ownerID snowflake.ID, req domain.CreateMenuRequest) (*domain.Menu, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, domain.ErrInvalidName
	}

	tz := req.TimezoneName
	if tz == "" {
		tz = defaultTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		tz = defaultTimezone
	}

	candidate := subdomain.Generate(name)

	// The unique index on menus.subdomain is authoritative. A conflicting
	// insert between allocation and create shows up as a duplicate key
	// error, so allocate again with a fresh existing-set and retry.
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		sub, err := s.allocator.Allocate(ctx, candidate)
		if err != nil {
			return nil, err
		}

		menu := &domain.Menu{
			ID:           s.node.Generate(),
			Name:         name,
			Subdomain:    sub,
			OwnerUserID:  ownerID,
			TimezoneName: tz,
			Metadata:     datatypes.JSONMap{},
		}
		err = s.repo.Create(ctx, menu)
		if err == nil {
			return menu, nil
		}
		if !dbpkg.IsDuplicateKeyErr(err) {
			return nil, err
		}
		s.log.Warn("subdomain insert conflict, retrying allocation",
			zap.String("subdomain", sub),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, subdomain.ErrUnavailable
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Menu, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySubdomain(ctx context.Context, sub string) (*domain.Menu, error) {
	return s.repo.GetBySubdomain(ctx, sub)
}

func (s *service) GetByCustomDomain(ctx context.Context, host string) (*domain.Menu, error) {
	return s.repo.GetByCustomDomain(ctx, host)
}

func (s *service) GetByOwner(ctx context.Context, ownerID snowflake.ID) (*domain.Menu, error) {
	menus, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return nil, domain.ErrMenuNotFound
	}
	return &menus[0], nil
}

func (s *service) UpdateSettings(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID, req domain.UpdateSettingsRequest) (*domain.Menu, error) {
	menu, err := s.owned(ctx, ownerID, menuID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Subdomain != nil {
		sub := strings.ToLower(strings.TrimSpace(*req.Subdomain))
		if !subdomain.Valid(sub) {
			return nil, subdomain.ErrInvalidCandidate
		}
		if sub != menu.Subdomain {
			fields["subdomain"] = sub
		}
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if len(fields) == 0 {
		return menu, nil
	}

	if err := s.repo.UpdateFields(ctx, menu.ID, fields); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSubdomainTaken
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, menu.ID)
}

func (s *service) AttachCustomDomain(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID, host string) (*domain.Menu, error) {
	menu, err := s.owned(ctx, ownerID, menuID)
	if err != nil {
		return nil, err
	}

	host = strings.ToLower(strings.TrimSpace(host))
	if !validDomain(host) {
		return nil, domain.ErrInvalidDomain
	}

	if err := s.repo.UpdateFields(ctx, menu.ID, map[string]any{"custom_domain": host}); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDomainTaken
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, menu.ID)
}

func (s *service) DetachCustomDomain(ctx context.Context, ownerID snowflake.ID, menuID snowflake.ID) (*domain.Menu, error) {
	menu, err := s.owned(ctx, ownerID, menuID)
	if err != nil {
		return nil, err
	}
	if menu.CustomDomain == nil {
		return nil, domain.ErrNoCustomDomain
	}
	if err := s.repo.UpdateFields(ctx, menu.ID, map[string]any{"custom_domain": nil}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, menu.ID)
}

func (s *service) owned(ctx context.Context, ownerID, menuID snowflake.ID) (*domain.Menu, error) {
	menu, err := s.repo.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OwnerUserID != ownerID {
		return nil, domain.ErrNotOwner
	}
	return menu, nil
}

// validDomain accepts bare hostnames like "meurestaurante.com.br": lowercase
// labels separated by dots, no scheme, no port, no path.
func validDomain(host string) bool {
	if host == "" || len(host) > 253 || strings.Contains(host, "/") || strings.Contains(host, ":") {
		return false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
				return false
			}
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}
	return true
}
