package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"itemshelf/internal/domain"
	"itemshelf/internal/repository"
)

func seedItemTables(t *testing.T, db *sql.DB) (owner, other int64) {
	t.Helper()
	ctx := context.Background()

	users := NewUserRepository(db)
	items := NewItemRepository(db)
	if err := users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := items.Init(ctx); err != nil {
		t.Fatalf("init items: %v", err)
	}

	u1 := &domain.User{Email: "owner@example.com", HashedPassword: "x", IsActive: true}
	u2 := &domain.User{Email: "other@example.com", HashedPassword: "x", IsActive: true}
	id1, err := users.Create(ctx, u1)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	id2, err := users.Create(ctx, u2)
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	return id1, id2
}

func TestItemRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t, "itemrepo")
	owner, _ := seedItemTables(t, db)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &domain.Item{Title: "Book", Description: "hardcover", OwnerID: owner}
	id, err := repo.Create(ctx, item)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Book" || got.Description != "hardcover" || got.OwnerID != owner {
		t.Fatalf("unexpected item: %+v", got)
	}

	byTitle, err := repo.GetByTitleAndOwner(ctx, "Book", owner)
	if err != nil || byTitle.ID != id {
		t.Fatalf("get by title and owner: %v %+v", err, byTitle)
	}
}

func TestItemRepository_TitleUniquePerOwner(t *testing.T) {
	db := openTestDB(t, "itemrepo-unique")
	owner, other := seedItemTables(t, db)
	repo := NewItemRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.Item{Title: "Book", OwnerID: owner}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// same title, same owner: the storage constraint rejects it
	_, err := repo.Create(ctx, &domain.Item{Title: "Book", OwnerID: owner})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// same title, different owner: fine
	if _, err := repo.Create(ctx, &domain.Item{Title: "Book", OwnerID: other}); err != nil {
		t.Fatalf("create for other owner: %v", err)
	}
}

func TestItemRepository_ListByOwner(t *testing.T) {
	db := openTestDB(t, "itemrepo-list")
	owner, other := seedItemTables(t, db)
	repo := NewItemRepository(db)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		if _, err := repo.Create(ctx, &domain.Item{Title: title, OwnerID: owner}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	if _, err := repo.Create(ctx, &domain.Item{Title: "foreign", OwnerID: other}); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	mine, err := repo.ListByOwner(ctx, owner, 0, 0)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3 items, got %d", len(mine))
	}
	for _, it := range mine {
		if it.OwnerID != owner {
			t.Fatalf("foreign item leaked into owner list: %+v", it)
		}
	}

	all, err := repo.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 items, got %d", len(all))
	}

	page, err := repo.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].Title != "three" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestItemRepository_UpdateAndDelete(t *testing.T) {
	db := openTestDB(t, "itemrepo-ud")
	owner, _ := seedItemTables(t, db)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &domain.Item{Title: "draft", Description: "old", OwnerID: owner}
	if _, err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	item.Title = "final"
	item.Description = "new"
	if err := repo.Update(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.Get(ctx, item.ID)
	if err != nil || got.Title != "final" || got.Description != "new" {
		t.Fatalf("update not persisted: %v %+v", err, got)
	}

	if err := repo.Update(ctx, &domain.Item{ID: 999, Title: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing item, got %v", err)
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, item.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, item.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
