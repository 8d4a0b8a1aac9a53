package repository

import (
	"context"

	"itemshelf/internal/domain"
)

// ItemRepository exposes persistence operations for Item records.
// Offset/limit are advisory pass-through; implementations apply a
// default page size when limit is not positive.
type ItemRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, item *domain.Item) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	GetByTitleAndOwner(ctx context.Context, title string, ownerID int64) (*domain.Item, error)
	List(ctx context.Context, offset, limit int) ([]domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
}
