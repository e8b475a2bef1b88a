package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plain password of every fixture user.
const FixturePassword = "password123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser inserts an active user whose password is FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.Role) models.User {
	f.t.Helper()

	// MinCost keeps fixture setup fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		Email:          strings.ToLower(email),
		FullName:       fullName,
		Role:           role,
		IsActive:       true,
		HashedPassword: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateInactiveUser creates a deactivated user.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, fullName, email string, role models.Role) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, fullName, email, role)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
		f.t.Fatalf("deactivate user: %v", err)
	}
	u.IsActive = false
	return u
}

// CreateProfile inserts an instagram profile owned by owner.
func (f *Fixtures) CreateProfile(ctx context.Context, username string, owner primitive.ObjectID) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	followers := int64(10000)
	p := models.Profile{
		ID:             primitive.NewObjectID(),
		Platform:       models.PlatformInstagram,
		Username:       username,
		ProfileURL:     "https://instagram.com/" + username,
		Region:         "Mumbai",
		Language:       "Hindi",
		Followers:      &followers,
		ContactDetails: []models.ContactDetail{{Name: "Agent", Email: "agent@test.com"}},
		Costing:        []models.CostingDetail{{ContentType: "reel", Price: 5000, Currency: models.DefaultCurrency}},
		CreatedBy:      owner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "profiles", p)
	return p
}

// CreateBilling inserts a billing record with n bank accounts (the first is
// default).
func (f *Fixtures) CreateBilling(ctx context.Context, legalName string, owner primitive.ObjectID, n int) models.BillingDetails {
	f.t.Helper()

	in := models.BillingInput{
		PartyLegalName: legalName,
		PANCard:        "ABCDE1234F",
		State:          "Maharashtra",
		City:           "Mumbai",
		Address:        "1 Test Road",
		Pincode:        "400001",
	}
	for i := 0; i < n; i++ {
		in.BankAccounts = append(in.BankAccounts, models.BankAccountInput{
			AccountNumber:     "00000000" + string(rune('0'+i)),
			IFSCCode:          "HDFC0000001",
			AccountHolderName: legalName,
			BankName:          "HDFC",
		})
	}
	b, err := models.NewBillingDetails(in, owner, time.Now().UTC())
	if err != nil {
		f.t.Fatalf("build billing: %v", err)
	}
	f.insert(ctx, "billing_details", b)
	return b
}

// CreateBrand inserts a brand with one POC.
func (f *Fixtures) CreateBrand(ctx context.Context, name string, owner primitive.ObjectID) models.Brand {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Brand{
		ID:      primitive.NewObjectID(),
		Name:    name,
		NameCI:  text.Fold(name),
		Website: "https://" + strings.ToLower(name) + ".example.com",
		POCs: []models.POC{models.NewPOC(models.POCInput{
			Name:        "Pat",
			Phone:       "9999999999",
			Email:       "pat@" + strings.ToLower(name) + ".example.com",
			Designation: "Marketing",
		}, now)},
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "brands", b)
	return b
}

// LinkBilling sets billing_details_id on a profile or brand document.
func (f *Fixtures) LinkBilling(ctx context.Context, coll string, id, billingID primitive.ObjectID) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).UpdateByID(ctx, id, bson.M{"$set": bson.M{"billing_details_id": billingID}}); err != nil {
		f.t.Fatalf("link billing: %v", err)
	}
}
