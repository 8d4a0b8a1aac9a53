package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"itemshelf/internal/domain"
	"itemshelf/internal/repository/sqlite"
)

type itemFixture struct {
	items     ItemService
	owner     *domain.User
	stranger  *domain.User
	superuser *domain.User
}

func newItemFixture(t *testing.T, db *sql.DB) itemFixture {
	t.Helper()
	ctx := context.Background()

	userRepo := sqlite.NewUserRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := itemRepo.Init(ctx); err != nil {
		t.Fatalf("init items: %v", err)
	}

	users := NewUserService(userRepo)
	owner, err := users.Register(ctx, "owner@example.com", "password123", "", false)
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	stranger, err := users.Register(ctx, "stranger@example.com", "password123", "", false)
	if err != nil {
		t.Fatalf("register stranger: %v", err)
	}
	superuser, err := users.Register(ctx, "admin@example.com", "password123", "", true)
	if err != nil {
		t.Fatalf("register superuser: %v", err)
	}

	return itemFixture{
		items:     NewItemService(itemRepo),
		owner:     owner,
		stranger:  stranger,
		superuser: superuser,
	}
}

func TestItemService_CreateDuplicatePerOwner(t *testing.T) {
	fx := newItemFixture(t, openTestDB(t, "itemsvc-dup"))
	ctx := context.Background()

	if _, err := fx.items.CreateForUser(ctx, fx.owner, "Book", "first"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.items.CreateForUser(ctx, fx.owner, "Book", "second"); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	// uniqueness is per owner, not global
	if _, err := fx.items.CreateForUser(ctx, fx.stranger, "Book", ""); err != nil {
		t.Fatalf("create same title for other owner: %v", err)
	}
}

func TestItemService_PermissionMatrix(t *testing.T) {
	fx := newItemFixture(t, openTestDB(t, "itemsvc-perm"))
	ctx := context.Background()

	item, err := fx.items.CreateForUser(ctx, fx.owner, "Book", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, err := fx.items.GetWithPermission(ctx, item.ID, fx.owner); err != nil || got.ID != item.ID {
		t.Fatalf("owner access: %v %+v", err, got)
	}
	if got, err := fx.items.GetWithPermission(ctx, item.ID, fx.superuser); err != nil || got.ID != item.ID {
		t.Fatalf("superuser access: %v %+v", err, got)
	}
	if _, err := fx.items.GetWithPermission(ctx, item.ID, fx.stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	// a nonexistent id is not-found for everyone: existence failure takes
	// priority so error codes never leak whether an item exists
	for _, requester := range []*domain.User{fx.owner, fx.stranger, fx.superuser} {
		if _, err := fx.items.GetWithPermission(ctx, 9999, requester); !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound for %s, got %v", requester.Email, err)
		}
	}
}

func TestItemService_ListVisibility(t *testing.T) {
	fx := newItemFixture(t, openTestDB(t, "itemsvc-list"))
	ctx := context.Background()

	if _, err := fx.items.CreateForUser(ctx, fx.owner, "mine", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fx.items.CreateForUser(ctx, fx.stranger, "theirs", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := fx.items.ListForUser(ctx, fx.owner, 0, 0)
	if err != nil {
		t.Fatalf("list for owner: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "mine" {
		t.Fatalf("owner sees wrong items: %+v", mine)
	}

	all, err := fx.items.ListForUser(ctx, fx.superuser, 0, 0)
	if err != nil {
		t.Fatalf("list for superuser: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("superuser should see all items, got %+v", all)
	}
}

func TestItemService_PartialUpdate(t *testing.T) {
	fx := newItemFixture(t, openTestDB(t, "itemsvc-update"))
	ctx := context.Background()

	item, err := fx.items.CreateForUser(ctx, fx.owner, "Book", "a description")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "Novel"
	got, err := fx.items.UpdateForUser(ctx, item.ID, fx.owner, &newTitle, nil)
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if got.Title != "Novel" || got.Description != "a description" {
		t.Fatalf("partial update broke untouched field: %+v", got)
	}

	empty := ""
	got, err = fx.items.UpdateForUser(ctx, item.ID, fx.owner, nil, &empty)
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if got.Title != "Novel" || got.Description != "" {
		t.Fatalf("explicit empty description should clear it: %+v", got)
	}

	if _, err := fx.items.UpdateForUser(ctx, item.ID, fx.stranger, &newTitle, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger update, got %v", err)
	}
	if _, err := fx.items.UpdateForUser(ctx, 9999, fx.stranger, &newTitle, nil); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound before ErrForbidden, got %v", err)
	}
}

func TestItemService_DeleteReturnsRecord(t *testing.T) {
	fx := newItemFixture(t, openTestDB(t, "itemsvc-delete"))
	ctx := context.Background()

	item, err := fx.items.CreateForUser(ctx, fx.owner, "Book", "desc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.items.DeleteForUser(ctx, item.ID, fx.stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger delete, got %v", err)
	}

	deleted, err := fx.items.DeleteForUser(ctx, item.ID, fx.superuser)
	if err != nil {
		t.Fatalf("superuser delete: %v", err)
	}
	if deleted.ID != item.ID || deleted.Title != "Book" || deleted.Description != "desc" {
		t.Fatalf("deleted record mismatch: %+v", deleted)
	}

	if _, err := fx.items.DeleteForUser(ctx, item.ID, fx.owner); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
	}
}
