package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"itemshelf/internal/domain"
	"itemshelf/internal/repository"
)

// UNIQUE(owner_id, title) closes the check-then-insert race on duplicate
// titles at the storage layer.
const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE(owner_id, title),
	FOREIGN KEY(owner_id) REFERENCES users(id)
);
`

const defaultPageSize = 100

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createItemsTable); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (int64, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO items (title, description, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		item.Title,
		item.Description,
		item.OwnerID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("item last insert id: %w", err)
	}
	item.ID = id
	return id, nil
}

func (r *ItemRepository) Get(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, owner_id, created_at, updated_at
FROM items
WHERE id = ?`,
		id,
	)
	return scanItem(row)
}

func (r *ItemRepository) GetByTitleAndOwner(ctx context.Context, title string, ownerID int64) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, owner_id, created_at, updated_at
FROM items
WHERE title = ? AND owner_id = ?`,
		title,
		ownerID,
	)
	return scanItem(row)
}

func (r *ItemRepository) List(ctx context.Context, offset, limit int) ([]domain.Item, error) {
	offset, limit = normalizePage(offset, limit)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, owner_id, created_at, updated_at
FROM items
ORDER BY id
LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]domain.Item, error) {
	offset, limit = normalizePage(offset, limit)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, description, owner_id, created_at, updated_at
FROM items
WHERE owner_id = ?
ORDER BY id
LIMIT ? OFFSET ?`,
		ownerID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query items by owner: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE items
SET title=?, description=?, updated_at=?
WHERE id=?`,
		item.Title,
		item.Description,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("item update rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("item delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return offset, limit
}

func collectItems(rows *sql.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row interface {
	Scan(dest ...any) error
}) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}
