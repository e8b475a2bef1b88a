package billingstore_test

import (
	"errors"
	"testing"
	"time"

	billingstore "github.com/dalemusser/influencehub/internal/app/store/billing"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := models.NewBillingDetails(models.BillingInput{
		PartyLegalName: "Acme Pvt Ltd",
		PANCard:        "ABCDE1234F",
		State:          "KA",
		City:           "Bengaluru",
		Address:        "1 MG Road",
		Pincode:        "560001",
		BankAccounts: []models.BankAccountInput{
			{AccountNumber: "1", IFSCCode: "X", AccountHolderName: "Acme", BankName: "B"},
			{AccountNumber: "2", IFSCCode: "X", AccountHolderName: "Acme", BankName: "B", IsDefault: true},
		},
	}, primitive.NewObjectID(), time.Now().UTC())
	if err != nil {
		t.Fatalf("NewBillingDetails failed: %v", err)
	}

	created, err := store.Create(ctx, b)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if got.DefaultCount() != 1 || !got.BankAccounts[1].IsDefault {
		t.Errorf("expected second account as sole default, got %+v", got.BankAccounts)
	}

	ok, err := store.Exists(ctx, created.ID)
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, billingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Mutate_PersistsAndBumpsVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Party", primitive.NewObjectID(), 2)
	target := b.BankAccounts[1].ID

	out, wrote, err := store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		return true, agg.SetDefaultBankAccount(target, now)
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if !wrote {
		t.Error("expected a write")
	}

	got, _ := store.GetByID(ctx, b.ID)
	if got.Version != out.Version || got.Version < 1 {
		t.Errorf("stored version %d, returned %d", got.Version, out.Version)
	}
	if def, ok := got.DefaultAccount(); !ok || def.ID != target {
		t.Errorf("default = %v, want %s", def.ID, target.Hex())
	}
	if got.DefaultCount() != 1 {
		t.Errorf("DefaultCount = %d, want 1", got.DefaultCount())
	}
}

func TestStore_Mutate_NoChangeSkipsWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Party", primitive.NewObjectID(), 1)
	before, _ := store.GetByID(ctx, b.ID)

	_, wrote, err := store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		return agg.VerifyPAN(now)
	})
	if err != nil || !wrote {
		t.Fatalf("first VerifyPAN = %v, %v", wrote, err)
	}
	_, wrote, err = store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		return agg.VerifyPAN(now)
	})
	if err != nil {
		t.Fatalf("second VerifyPAN failed: %v", err)
	}
	if wrote {
		t.Error("expected idempotent verify to skip the write")
	}

	after, _ := store.GetByID(ctx, b.ID)
	if after.Version != before.Version+1 {
		t.Errorf("version moved from %d to %d, want exactly one bump", before.Version, after.Version)
	}
}

func TestStore_Mutate_RuleErrorLeavesRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Party", primitive.NewObjectID(), 1)
	_, _, err := store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		return true, agg.RemoveBankAccount(agg.BankAccounts[0].ID, now)
	})
	if !errors.Is(err, models.ErrLastBankAccount) {
		t.Fatalf("expected ErrLastBankAccount, got %v", err)
	}
	got, _ := store.GetByID(ctx, b.ID)
	if len(got.BankAccounts) != 1 {
		t.Errorf("expected the account to remain, got %d", len(got.BankAccounts))
	}
}

func TestStore_Mutate_DetectsConcurrentWriter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Party", primitive.NewObjectID(), 2)

	_, _, err := store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		// Another writer lands between our read and our write.
		if _, err := db.Collection("billing_details").UpdateByID(ctx, b.ID, bson.M{"$inc": bson.M{"version": 1}}); err != nil {
			t.Fatalf("concurrent bump: %v", err)
		}
		return true, agg.SetDefaultBankAccount(agg.BankAccounts[1].ID, now)
	})
	if !errors.Is(err, billingstore.ErrConcurrentUpdate) {
		t.Errorf("expected ErrConcurrentUpdate, got %v", err)
	}
}

func TestStore_Mutate_UnversionedRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Legacy", primitive.NewObjectID(), 1)
	if _, err := db.Collection("billing_details").UpdateByID(ctx, b.ID, bson.M{"$unset": bson.M{"version": ""}}); err != nil {
		t.Fatalf("unset version: %v", err)
	}

	out, wrote, err := store.Mutate(ctx, b.ID, func(agg *models.BillingDetails, now time.Time) (bool, error) {
		return agg.VerifyPAN(now)
	})
	if err != nil || !wrote {
		t.Fatalf("Mutate = %v, %v", wrote, err)
	}
	if out.Version != 1 {
		t.Errorf("Version = %d, want 1", out.Version)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := billingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	a := fx.CreateBilling(ctx, "A", owner, 1)
	fx.CreateBilling(ctx, "B", owner, 1)

	list, err := store.List(ctx, paging.Window{Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 records, got %d", len(list))
	}

	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, a.ID); !errors.Is(err, billingstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := store.Mutate(ctx, a.ID, func(*models.BillingDetails, time.Time) (bool, error) { return true, nil }); !errors.Is(err, billingstore.ErrNotFound) {
		t.Errorf("Mutate after delete: expected ErrNotFound, got %v", err)
	}
}
