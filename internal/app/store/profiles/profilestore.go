package profilestore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no profile matches.
var ErrNotFound = errors.New("profile not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts p with a fresh id and timestamps. Missing costing currencies
// default to INR.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.ID = primitive.NewObjectID()
	if p.ContactDetails == nil {
		p.ContactDetails = []models.ContactDetail{}
	}
	p.Costing = models.NormalizeCosting(p.Costing)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// GetByID loads a profile.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, err
	}
	return p, nil
}

// Filter narrows List. Zero values are ignored.
type Filter struct {
	Platform           models.Platform
	ContentOrientation models.ContentOrientation
	Region             string
	Language           string
	MinFollowers       *int64
	MaxFollowers       *int64
	IsBettingAllowed   *bool
	// Search is matched case-insensitively and literally against username,
	// region and language.
	Search string
	// CreatedBy limits results to one owner's profiles.
	CreatedBy *primitive.ObjectID
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.Platform != "" {
		q["platform"] = f.Platform
	}
	if f.ContentOrientation != "" {
		q["content_orientation"] = f.ContentOrientation
	}
	if f.Region != "" {
		q["region"] = f.Region
	}
	if f.Language != "" {
		q["language"] = f.Language
	}
	if f.MinFollowers != nil || f.MaxFollowers != nil {
		rng := bson.M{}
		if f.MinFollowers != nil {
			rng["$gte"] = *f.MinFollowers
		}
		if f.MaxFollowers != nil {
			rng["$lte"] = *f.MaxFollowers
		}
		q["followers"] = rng
	}
	if f.IsBettingAllowed != nil {
		q["is_betting_allowed"] = *f.IsBettingAllowed
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"username": re},
			bson.M{"region": re},
			bson.M{"language": re},
		}
	}
	if f.CreatedBy != nil {
		q["created_by"] = *f.CreatedBy
	}
	return q
}

// List returns one page of matching profiles, newest first.
func (s *Store) List(ctx context.Context, f Filter, w paging.Window) ([]models.Profile, error) {
	cur, err := s.c.Find(ctx, f.bson(), w.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Profile, 0, w.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func patchSet(p models.ProfilePatch) bson.M {
	set := bson.M{}
	if p.Platform != nil {
		set["platform"] = *p.Platform
	}
	if p.ContentOrientation != nil {
		set["content_orientation"] = *p.ContentOrientation
	}
	if p.Username != nil {
		set["username"] = *p.Username
	}
	if p.ProfileURL != nil {
		set["profile_url"] = *p.ProfileURL
	}
	if p.Region != nil {
		set["region"] = *p.Region
	}
	if p.Language != nil {
		set["language"] = *p.Language
	}
	if p.Followers != nil {
		set["followers"] = *p.Followers
	}
	if p.ERRate != nil {
		set["er_rate"] = *p.ERRate
	}
	if p.IsBettingAllowed != nil {
		set["is_betting_allowed"] = *p.IsBettingAllowed
	}
	if p.MaleAudience != nil {
		set["male_audience"] = *p.MaleAudience
	}
	if p.BioPhone != nil {
		set["bio_phone"] = *p.BioPhone
	}
	if p.BioEmail != nil {
		set["bio_email"] = *p.BioEmail
	}
	if p.ContactDetails != nil {
		cd := *p.ContactDetails
		if cd == nil {
			cd = []models.ContactDetail{}
		}
		set["contact_details"] = cd
	}
	if p.Costing != nil {
		set["costing"] = models.NormalizeCosting(*p.Costing)
	}
	if p.BillingDetailsID != nil {
		set["billing_details_id"] = *p.BillingDetailsID
	}
	return set
}

// Update applies the set fields of p. created_by is never written. It
// reports whether the stored document changed; updated_at only moves when
// it did.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.ProfilePatch) (bool, error) {
	set := patchSet(p)
	if len(set) == 0 {
		if err := s.exists(ctx, id); err != nil {
			return false, err
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
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a profile. Billing records it linked to are left alone.
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
