package brandstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no brand matches.
var ErrNotFound = errors.New("brand not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("brands")}
}

// Create inserts b with a fresh id and timestamps.
func (s *Store) Create(ctx context.Context, b models.Brand) (models.Brand, error) {
	b.ID = primitive.NewObjectID()
	b.NameCI = text.Fold(b.Name)
	if b.POCs == nil {
		b.POCs = []models.POC{}
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Brand{}, err
	}
	return b, nil
}

// GetByID loads a brand.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Brand, error) {
	var b models.Brand
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Brand{}, ErrNotFound
		}
		return models.Brand{}, err
	}
	return b, nil
}

// List returns one page of brands, newest first. A non-empty search keeps
// brands whose name starts with it, ignoring case and accents.
func (s *Store) List(ctx context.Context, w paging.Window, search string) ([]models.Brand, error) {
	filter := bson.M{}
	if lo, hi := text.PrefixRange(search); lo != "" {
		filter["name_ci"] = bson.M{"$gte": lo, "$lt": hi}
	}
	cur, err := s.c.Find(ctx, filter, w.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Brand, 0, w.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the set fields of p and reports whether the brand changed.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.BrandPatch) (bool, error) {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Website != nil {
		set["website"] = *p.Website
	}
	if p.Instagram != nil {
		set["instagram"] = *p.Instagram
	}
	if p.LinkedIn != nil {
		set["linkedin"] = *p.LinkedIn
	}
	if p.LogoURL != nil {
		set["logo_url"] = *p.LogoURL
	}
	if p.BillingDetailsID != nil {
		set["billing_details_id"] = *p.BillingDetailsID
	}
	if len(set) == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return false, nil
	}
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}})
	return true, err
}

// Delete removes a brand and its POCs.
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

// AddPOC appends a new POC and returns it.
func (s *Store) AddPOC(ctx context.Context, brandID primitive.ObjectID, in models.POCInput) (models.POC, error) {
	now := time.Now().UTC()
	poc := models.NewPOC(in, now)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": brandID},
		bson.M{
			"$push": bson.M{"pocs": poc},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return models.POC{}, err
	}
	if res.MatchedCount == 0 {
		return models.POC{}, ErrNotFound
	}
	return poc, nil
}

// UpdatePOC replaces the content of one POC in place, keeping its id and
// creation time.
func (s *Store) UpdatePOC(ctx context.Context, brandID, pocID primitive.ObjectID, in models.POCInput) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": brandID, "pocs._id": pocID},
		bson.M{"$set": bson.M{
			"pocs.$.name":        in.Name,
			"pocs.$.phone":       in.Phone,
			"pocs.$.email":       in.Email,
			"pocs.$.designation": in.Designation,
			"pocs.$.updated_at":  now,
			"updated_at":         now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, brandID)
	}
	return nil
}

// RemovePOC deletes one POC.
func (s *Store) RemovePOC(ctx context.Context, brandID, pocID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": brandID, "pocs._id": pocID},
		bson.M{
			"$pull": bson.M{"pocs": bson.M{"_id": pocID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, brandID)
	}
	return nil
}

// missing tells a missing brand apart from a missing POC.
func (s *Store) missing(ctx context.Context, brandID primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": brandID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return models.ErrPOCNotFound
}
