package userstore_test

import (
	"errors"
	"sync"
	"testing"

	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/indexes"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:       "  Admin User ",
		Email:          " Admin@Example.COM ",
		Role:           models.RoleAdmin,
		IsActive:       true,
		HashedPassword: "x",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "admin@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.FullName != "Admin User" {
		t.Errorf("FullName = %q, want trimmed", created.FullName)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByEmail(ctx, "ADMIN@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_Create_DefaultRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{FullName: "New", Email: "new@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Role != models.DefaultRole {
		t.Errorf("Role = %q, want %q", u.Role, models.DefaultRole)
	}

	_, err = store.Create(ctx, models.User{FullName: "Bad", Email: "bad@example.com", Role: "superuser"})
	if !errors.Is(err, models.ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testCtx(t), db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "dup@example.com", Role: models.RoleIntern}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{FullName: "B", Email: "DUP@example.com", Role: models.RoleIntern})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "One", "one@example.com", models.RoleIntern)
	fx.CreateUser(ctx, "Two", "two@example.com", models.RoleFinance)
	fx.CreateUser(ctx, "Three", "three@example.com", models.RoleManager)

	page, err := store.List(ctx, paging.Window{Skip: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 users after skip, got %d", len(page))
	}
}

func TestStore_Update_LastAdminGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Only Admin", "only@example.com")

	if _, err := store.SetRole(ctx, admin.ID, models.RoleManager); !errors.Is(err, userstore.ErrLastAdmin) {
		t.Errorf("demote last admin: expected ErrLastAdmin, got %v", err)
	}
	if _, err := store.Deactivate(ctx, admin.ID); !errors.Is(err, userstore.ErrLastAdmin) {
		t.Errorf("deactivate last admin: expected ErrLastAdmin, got %v", err)
	}

	// An inactive admin does not count.
	fx.CreateInactiveUser(ctx, "Gone", "gone@example.com", models.RoleAdmin)
	if _, err := store.SetRole(ctx, admin.ID, models.RoleManager); !errors.Is(err, userstore.ErrLastAdmin) {
		t.Errorf("expected ErrLastAdmin with only an inactive second admin, got %v", err)
	}

	fx.CreateAdmin(ctx, "Second", "second@example.com")
	u, err := store.SetRole(ctx, admin.ID, models.RoleManager)
	if err != nil {
		t.Fatalf("SetRole with a second admin failed: %v", err)
	}
	if u.Role != models.RoleManager {
		t.Errorf("Role = %q, want manager", u.Role)
	}

	n, err := store.CountActiveAdmins(ctx)
	if err != nil {
		t.Fatalf("CountActiveAdmins failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountActiveAdmins = %d, want 1", n)
	}
}

func TestStore_Update_ConcurrentDemotionsKeepAnAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx := testCtx(t)

	for i := 0; i < 2; i++ {
		if err := store.EnsureAdminGuard(ctx); err != nil {
			t.Fatalf("EnsureAdminGuard failed: %v", err)
		}
	}

	for round := 0; round < 10; round++ {
		if _, err := db.Collection("users").DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("reset users: %v", err)
		}
		a := fx.CreateAdmin(ctx, "Admin A", "a@example.com")
		b := fx.CreateAdmin(ctx, "Admin B", "b@example.com")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, target := range []primitive.ObjectID{a.ID, b.ID} {
			wg.Add(1)
			go func(i int, id primitive.ObjectID) {
				defer wg.Done()
				if i == 0 {
					_, errs[i] = store.Deactivate(ctx, id)
				} else {
					_, errs[i] = store.SetRole(ctx, id, models.RoleManager)
				}
			}(i, target)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil && !errors.Is(err, userstore.ErrLastAdmin) && !errors.Is(err, userstore.ErrConcurrentUpdate) {
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
		}
		n, err := store.CountActiveAdmins(ctx)
		if err != nil {
			t.Fatalf("CountActiveAdmins failed: %v", err)
		}
		if n < 1 {
			t.Fatalf("round %d: no active admin left (errors: %v)", round, errs)
		}
	}
}

func TestStore_Update_NoChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Same", "same@example.com", models.RoleIntern)
	name := "Same"
	if _, err := store.Update(ctx, u.ID, userstore.Update{FullName: &name}); !errors.Is(err, models.ErrNotModified) {
		t.Errorf("expected ErrNotModified, got %v", err)
	}

	if _, err := store.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if _, err := store.Deactivate(ctx, u.ID); !errors.Is(err, models.ErrNotModified) {
		t.Errorf("second Deactivate: expected ErrNotModified, got %v", err)
	}
}

func TestStore_Update_EmailConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testCtx(t), db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "A", "a@example.com", models.RoleIntern)
	b := fx.CreateUser(ctx, "B", "b@example.com", models.RoleIntern)

	email := "A@example.com"
	if _, err := store.Update(ctx, b.ID, userstore.Update{Email: &email}); !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_EnsureUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := models.User{FullName: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true, HashedPassword: "h"}
	created, err := store.EnsureUser(ctx, u)
	if err != nil || !created {
		t.Fatalf("first EnsureUser = %v, %v; want true, nil", created, err)
	}
	created, err = store.EnsureUser(ctx, u)
	if err != nil || created {
		t.Errorf("second EnsureUser = %v, %v; want false, nil", created, err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fx.CreateUser(ctx, "Active", "active@example.com", models.RoleFinance)
	inactive := fx.CreateInactiveUser(ctx, "Inactive", "inactive@example.com", models.RoleFinance)

	f := userstore.NewFetcher(db)
	su := f.FetchUser(ctx, active.ID.Hex())
	if su == nil {
		t.Fatal("expected active user")
	}
	if su.Role != "finance" || su.Email != "active@example.com" || su.Name != "Active" {
		t.Errorf("unexpected session user: %+v", su)
	}
	if f.FetchUser(ctx, inactive.ID.Hex()) != nil {
		t.Error("expected nil for inactive user")
	}
	if f.FetchUser(ctx, "not-an-id") != nil {
		t.Error("expected nil for malformed id")
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for missing user")
	}
}
