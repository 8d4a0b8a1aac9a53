package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"itemshelf/internal/domain"
	"itemshelf/internal/repository"
)

// ItemService coordinates item operations and enforces the ownership rule:
// a superuser sees everything, everyone else only their own items.
type ItemService interface {
	ListForUser(ctx context.Context, requester *domain.User, offset, limit int) ([]domain.Item, error)
	CreateForUser(ctx context.Context, requester *domain.User, title, description string) (*domain.Item, error)
	GetWithPermission(ctx context.Context, id int64, requester *domain.User) (*domain.Item, error)
	UpdateForUser(ctx context.Context, id int64, requester *domain.User, title, description *string) (*domain.Item, error)
	DeleteForUser(ctx context.Context, id int64, requester *domain.User) (*domain.Item, error)
}

type itemService struct {
	items repository.ItemRepository
}

func NewItemService(items repository.ItemRepository) ItemService {
	return &itemService{items: items}
}

func (s *itemService) ListForUser(ctx context.Context, requester *domain.User, offset, limit int) ([]domain.Item, error) {
	var (
		items []domain.Item
		err   error
	)
	if requester.IsSuperuser {
		items, err = s.items.List(ctx, offset, limit)
	} else {
		items, err = s.items.ListByOwner(ctx, requester.ID, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", ErrInternal, err)
	}
	return items, nil
}

// CreateForUser persists a new item owned by the requester. The duplicate
// title check runs first; the storage constraint backs it up against
// concurrent creates.
func (s *itemService) CreateForUser(ctx context.Context, requester *domain.User, title, description string) (*domain.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}

	if _, err := s.items.GetByTitleAndOwner(ctx, title, requester.ID); err == nil {
		return nil, ErrDuplicateTitle
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: check title: %v", ErrInternal, err)
	}

	item := &domain.Item{
		Title:       title,
		Description: description,
		OwnerID:     requester.ID,
	}
	if _, err := s.items.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("%w: create item: %v", ErrInternal, err)
	}
	return item, nil
}

// GetWithPermission loads an item and verifies the requester may touch it.
// The existence check runs before the permission check: a non-owner probing
// a nonexistent id must see not-found, never forbidden.
func (s *itemService) GetWithPermission(ctx context.Context, id int64, requester *domain.User) (*domain.Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: get item: %v", ErrInternal, err)
	}
	if !requester.IsSuperuser && item.OwnerID != requester.ID {
		return nil, ErrForbidden
	}
	return item, nil
}

// UpdateForUser merges only the provided fields; nil fields stay untouched.
func (s *itemService) UpdateForUser(ctx context.Context, id int64, requester *domain.User, title, description *string) (*domain.Item, error) {
	item, err := s.GetWithPermission(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if title != nil {
		item.Title = strings.TrimSpace(*title)
	}
	if description != nil {
		item.Description = *description
	}

	if err := s.items.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("%w: update item: %v", ErrInternal, err)
	}
	return item, nil
}

// DeleteForUser hard-deletes the item and returns the removed record.
func (s *itemService) DeleteForUser(ctx context.Context, id int64, requester *domain.User) (*domain.Item, error) {
	item, err := s.GetWithPermission(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: delete item: %v", ErrInternal, err)
	}
	return item, nil
}
