package billingstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no billing record matches.
	ErrNotFound = errors.New("billing details not found")
	// ErrConcurrentUpdate is returned when another writer changed the record
	// between Mutate's read and its write.
	ErrConcurrentUpdate = errors.New("billing details were modified concurrently; retry")
)

// Store persists BillingDetails aggregates. Every change replaces the whole
// document conditioned on its version, so readers never see a bank account
// list with zero or several defaults.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("billing_details")}
}

// Create inserts an aggregate built by models.NewBillingDetails.
func (s *Store) Create(ctx context.Context, b models.BillingDetails) (models.BillingDetails, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.BankAccounts == nil {
		b.BankAccounts = []models.BankAccount{}
	}
	b.Version = 1
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.BillingDetails{}, err
	}
	return b, nil
}

// GetByID loads one aggregate.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.BillingDetails, error) {
	var b models.BillingDetails
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BillingDetails{}, ErrNotFound
		}
		return models.BillingDetails{}, err
	}
	return b, nil
}

// Exists reports whether a billing record with id is stored.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns one page of billing records, newest first.
func (s *Store) List(ctx context.Context, w paging.Window) ([]models.BillingDetails, error) {
	cur, err := s.c.Find(ctx, bson.M{}, w.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.BillingDetails, 0, w.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a billing record. Profiles and brands that link to it keep
// their (now dangling) reference.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MutateFunc changes the aggregate in memory. It reports whether anything
// changed; returning false or an error skips the write.
type MutateFunc func(b *models.BillingDetails, now time.Time) (changed bool, err error)

// Mutate loads the aggregate, applies fn and replaces the stored document
// only if its version is still the one that was read. It returns the
// aggregate as stored afterwards and whether a write happened.
func (s *Store) Mutate(ctx context.Context, id primitive.ObjectID, fn MutateFunc) (models.BillingDetails, bool, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return models.BillingDetails{}, false, err
	}

	read := b.Version
	changed, err := fn(&b, time.Now().UTC())
	if err != nil {
		return models.BillingDetails{}, false, err
	}
	if !changed {
		return b, false, nil
	}

	b.Version = read + 1
	res, err := s.c.ReplaceOne(ctx, versionFilter(id, read), b)
	if err != nil {
		return models.BillingDetails{}, false, err
	}
	if res.MatchedCount == 0 {
		ok, err := s.Exists(ctx, id)
		if err != nil {
			return models.BillingDetails{}, false, err
		}
		if !ok {
			return models.BillingDetails{}, false, ErrNotFound
		}
		return models.BillingDetails{}, false, ErrConcurrentUpdate
	}
	return b, true, nil
}

// versionFilter matches id at version v. Records written before versioning
// have no version field and read back as 0.
func versionFilter(id primitive.ObjectID, v int64) bson.M {
	if v == 0 {
		return bson.M{"_id": id, "$or": bson.A{
			bson.M{"version": 0},
			bson.M{"version": bson.M{"$exists": false}},
		}}
	}
	return bson.M{"_id": id, "version": v}
}
