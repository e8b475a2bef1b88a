package brandstore_test

import (
	"errors"
	"testing"

	brandstore "github.com/dalemusser/influencehub/internal/app/store/brands"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateGetList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := brandstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	b, err := store.Create(ctx, models.Brand{Name: "Acme", Website: "https://acme.example.com", CreatedBy: owner})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Acme" || got.CreatedBy != owner {
		t.Errorf("unexpected brand %+v", got)
	}
	if got.POCs == nil {
		t.Error("expected empty, non-nil POC list")
	}

	list, err := store.List(ctx, paging.Window{Limit: 10}, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 brand, got %d", len(list))
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, brandstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := brandstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBrand(ctx, "Acme", primitive.NewObjectID())
	logo := "https://cdn.example.com/acme.png"
	changed, err := store.Update(ctx, b.ID, models.BrandPatch{LogoURL: &logo})
	if err != nil || !changed {
		t.Fatalf("Update = %v, %v; want true, nil", changed, err)
	}
	changed, err = store.Update(ctx, b.ID, models.BrandPatch{LogoURL: &logo})
	if err != nil || changed {
		t.Errorf("repeat Update = %v, %v; want false, nil", changed, err)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), models.BrandPatch{LogoURL: &logo}); !errors.Is(err, brandstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_POCs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := brandstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBrand(ctx, "Acme", primitive.NewObjectID())

	poc, err := store.AddPOC(ctx, b.ID, models.POCInput{Name: "Sam", Phone: "1", Email: "sam@acme.com", Designation: "CMO"})
	if err != nil {
		t.Fatalf("AddPOC failed: %v", err)
	}
	got, _ := store.GetByID(ctx, b.ID)
	if len(got.POCs) != 2 {
		t.Fatalf("expected 2 POCs, got %d", len(got.POCs))
	}

	err = store.UpdatePOC(ctx, b.ID, poc.ID, models.POCInput{Name: "Samantha", Phone: "2", Email: "sam@acme.com", Designation: "CEO"})
	if err != nil {
		t.Fatalf("UpdatePOC failed: %v", err)
	}
	got, _ = store.GetByID(ctx, b.ID)
	if got.POCs[1].Name != "Samantha" || got.POCs[1].ID != poc.ID {
		t.Errorf("POC not updated in place: %+v", got.POCs[1])
	}
	if got.POCs[0].Name != "Pat" {
		t.Error("sibling POC must be untouched")
	}

	if err := store.UpdatePOC(ctx, b.ID, primitive.NewObjectID(), models.POCInput{Name: "x"}); !errors.Is(err, models.ErrPOCNotFound) {
		t.Errorf("expected ErrPOCNotFound, got %v", err)
	}
	if err := store.UpdatePOC(ctx, primitive.NewObjectID(), poc.ID, models.POCInput{Name: "x"}); !errors.Is(err, brandstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.RemovePOC(ctx, b.ID, poc.ID); err != nil {
		t.Fatalf("RemovePOC failed: %v", err)
	}
	if err := store.RemovePOC(ctx, b.ID, poc.ID); !errors.Is(err, models.ErrPOCNotFound) {
		t.Errorf("second RemovePOC: expected ErrPOCNotFound, got %v", err)
	}
	if _, err := store.AddPOC(ctx, primitive.NewObjectID(), models.POCInput{Name: "x"}); !errors.Is(err, brandstore.ErrNotFound) {
		t.Errorf("AddPOC on missing brand: expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := brandstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBrand(ctx, "Gone", primitive.NewObjectID())
	if err := store.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, b.ID); !errors.Is(err, brandstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := brandstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Acme", "acme labs", "Beta"} {
		if _, err := store.Create(ctx, models.Brand{Name: name, CreatedBy: primitive.NewObjectID()}); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"", 3},
		{"ACME", 2},
		{"acme l", 1},
		{"be", 1},
		{"zeta", 0},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			list, err := store.List(ctx, paging.Window{Limit: 10}, tt.search)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("search %q: got %d brands, want %d", tt.search, len(list), tt.want)
			}
		})
	}

	b, _ := store.Create(ctx, models.Brand{Name: "Gamma", CreatedBy: primitive.NewObjectID()})
	renamed := "Delta"
	if _, err := store.Update(ctx, b.ID, models.BrandPatch{Name: &renamed}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	list, _ := store.List(ctx, paging.Window{Limit: 10}, "delta")
	if len(list) != 1 {
		t.Errorf("renamed brand not found by new name: %d", len(list))
	}
}
