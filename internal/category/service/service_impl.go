package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"

	"github.com/delivize/delivize/internal/category/domain"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

const maxNameLength = 120

type service struct {
	repo  domain.Repository
	menus menudomain.Repository
	node  *snowflake.Node
}

func New(repo domain.Repository, menus menudomain.Repository, node *snowflake.Node) domain.Service {
	return &service{repo: repo, menus: menus, node: node}
}

func (s *service) CreateCategory(ctx context.Context, ownerID, menuID snowflake.ID, req domain.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.ownsMenu(ctx, ownerID, menuID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, domain.ErrInvalidName
	}
	category := &domain.Category{
		ID:       s.node.Generate(),
		MenuID:   menuID,
		Name:     name,
		Position: req.Position,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, ownerID, categoryID snowflake.ID, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.ownedCategory(ctx, ownerID, categoryID)
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
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if len(fields) == 0 {
		return category, nil
	}
	if err := s.repo.UpdateCategory(ctx, category.ID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, category.ID)
}

func (s *service) DeleteCategory(ctx context.Context, ownerID, categoryID snowflake.ID) error {
	category, err := s.ownedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, category.ID)
}

func (s *service) CreateItem(ctx context.Context, ownerID, categoryID snowflake.ID, req domain.CreateItemRequest) (*domain.Item, error) {
	category, err := s.ownedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, domain.ErrInvalidName
	}
	if req.PriceCents < 0 {
		return nil, domain.ErrInvalidPrice
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item := &domain.Item{
		ID:          s.node.Generate(),
		CategoryID:  category.ID,
		Name:        name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		PhotoURL:    req.PhotoURL,
		Available:   available,
		Position:    req.Position,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, ownerID, itemID snowflake.ID, req domain.UpdateItemRequest) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
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
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, domain.ErrInvalidPrice
		}
		fields["price_cents"] = *req.PriceCents
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if len(fields) == 0 {
		return item, nil
	}
	if err := s.repo.UpdateItem(ctx, item.ID, fields); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, item.ID)
}

func (s *service) DeleteItem(ctx context.Context, ownerID, itemID snowflake.ID) error {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, item.ID)
}

func (s *service) ListForMenu(ctx context.Context, menuID snowflake.ID) ([]domain.CategoryWithItems, error) {
	categories, err := s.repo.ListCategories(ctx, menuID)
	if err != nil {
		return nil, err
	}
	ids := make([]snowflake.ID, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}
	items, err := s.repo.ListItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[snowflake.ID][]domain.Item, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	tree := make([]domain.CategoryWithItems, 0, len(categories))
	for _, category := range categories {
		entries := byCategory[category.ID]
		if entries == nil {
			entries = []domain.Item{}
		}
		tree = append(tree, domain.CategoryWithItems{Category: category, Items: entries})
	}
	return tree, nil
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

func (s *service) ownedCategory(ctx context.Context, ownerID, categoryID snowflake.ID) (*domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.ownsMenu(ctx, ownerID, category.MenuID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) ownedItem(ctx context.Context, ownerID, itemID snowflake.ID) (*domain.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCategory(ctx, ownerID, item.CategoryID); err != nil {
		return nil, err
	}
	return item, nil
}
