// Package billinglinks manages the optional link from a profile or brand to a
// billing record, and the reverse lookup from a billing record to everything
// that links to it.
//
// Links are a single billing_details_id field on the entity. Nothing is
// indexed or cached on the billing side, so ListLinkedEntities always scans
// the entity collections as they are at call time.
package billinglinks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Kind is the type of entity that can carry a billing link.
type Kind string

const (
	KindProfile Kind = "profile"
	KindBrand   Kind = "brand"
)

func (k Kind) collection() string {
	if k == KindBrand {
		return "brands"
	}
	return "profiles"
}

// nameField is the field that names an entity to people.
func (k Kind) nameField() string {
	if k == KindBrand {
		return "name"
	}
	return "username"
}

// Title is the capitalized kind, for messages.
func (k Kind) Title() string {
	if k == KindBrand {
		return "Brand"
	}
	return "Profile"
}

var (
	// ErrEntityNotFound means the profile or brand does not exist.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrBillingNotFound means the billing record to link or list does not exist.
	ErrBillingNotFound = errors.New("billing details not found")
	// ErrNoLink means the entity has no billing link.
	ErrNoLink = errors.New("no billing details associated")
	// ErrDanglingLink means the entity links to a billing record that has
	// since been deleted.
	ErrDanglingLink = errors.New("associated billing details not found")
)

// Link is the part of an entity that linkage decisions need. Name is the
// profile username or the brand name.
type Link struct {
	Kind             Kind
	EntityID         primitive.ObjectID
	Name             string
	CreatedBy        primitive.ObjectID
	BillingDetailsID *primitive.ObjectID
}

// Lookup loads the link fields of one entity.
func Lookup(ctx context.Context, db *mongo.Database, kind Kind, entityID primitive.ObjectID) (Link, error) {
	var doc struct {
		Username         string              `bson:"username"`
		Name             string              `bson:"name"`
		CreatedBy        primitive.ObjectID  `bson:"created_by"`
		BillingDetailsID *primitive.ObjectID `bson:"billing_details_id"`
	}
	err := db.Collection(kind.collection()).FindOne(ctx,
		bson.M{"_id": entityID},
		options.FindOne().SetProjection(bson.M{"created_by": 1, "billing_details_id": 1, kind.nameField(): 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Link{}, ErrEntityNotFound
		}
		return Link{}, err
	}
	name := doc.Username
	if kind == KindBrand {
		name = doc.Name
	}
	return Link{
		Kind:             kind,
		EntityID:         entityID,
		Name:             name,
		CreatedBy:        doc.CreatedBy,
		BillingDetailsID: doc.BillingDetailsID,
	}, nil
}

// Billing resolves a link to its billing record. An unlinked entity gives
// ErrNoLink and a link to a deleted record gives ErrDanglingLink.
func Billing(ctx context.Context, db *mongo.Database, l Link) (models.BillingDetails, error) {
	if l.BillingDetailsID == nil || l.BillingDetailsID.IsZero() {
		return models.BillingDetails{}, ErrNoLink
	}
	var b models.BillingDetails
	if err := db.Collection("billing_details").FindOne(ctx, bson.M{"_id": *l.BillingDetailsID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BillingDetails{}, ErrDanglingLink
		}
		return models.BillingDetails{}, err
	}
	return b, nil
}

func billingExists(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (bool, error) {
	n, err := db.Collection("billing_details").CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count billing: %w", err)
	}
	return n > 0, nil
}

// RequireBilling returns ErrBillingNotFound unless id names a billing
// record. A nil id passes.
func RequireBilling(ctx context.Context, db *mongo.Database, id *primitive.ObjectID) error {
	if id == nil {
		return nil
	}
	ok, err := billingExists(ctx, db, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBillingNotFound
	}
	return nil
}

// Connect points the entity at billingID, replacing any earlier link. Both
// records must exist. It reports whether the stored link changed.
func Connect(ctx context.Context, db *mongo.Database, kind Kind, entityID, billingID primitive.ObjectID) (bool, error) {
	if _, err := Lookup(ctx, db, kind, entityID); err != nil {
		return false, err
	}
	ok, err := billingExists(ctx, db, billingID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrBillingNotFound
	}

	res, err := db.Collection(kind.collection()).UpdateOne(ctx,
		bson.M{"_id": entityID, "billing_details_id": bson.M{"$ne": billingID}},
		bson.M{"$set": bson.M{"billing_details_id": billingID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// Disconnect clears the entity's link. An entity without a link is left
// alone and reported as unchanged, not as an error.
func Disconnect(ctx context.Context, db *mongo.Database, kind Kind, entityID primitive.ObjectID) (bool, error) {
	l, err := Lookup(ctx, db, kind, entityID)
	if err != nil {
		return false, err
	}
	if l.BillingDetailsID == nil {
		return false, nil
	}

	res, err := db.Collection(kind.collection()).UpdateOne(ctx,
		bson.M{"_id": entityID, "billing_details_id": bson.M{"$ne": nil}},
		bson.M{"$set": bson.M{"billing_details_id": nil, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// LinkedProfile is a profile summary in a reverse lookup.
type LinkedProfile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Platform  models.Platform    `bson:"platform" json:"platform"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// LinkedBrand is a brand summary in a reverse lookup.
type LinkedBrand struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Linked is everything currently pointing at one billing record.
type Linked struct {
	BillingID     primitive.ObjectID `json:"billing_id"`
	Profiles      []LinkedProfile    `json:"profiles"`
	Brands        []LinkedBrand      `json:"brands"`
	TotalProfiles int                `json:"total_profiles"`
	TotalBrands   int                `json:"total_brands"`
}

// ListLinkedEntities returns every profile and brand whose link equals
// billingID. The billing record itself must exist.
func ListLinkedEntities(ctx context.Context, db *mongo.Database, billingID primitive.ObjectID) (Linked, error) {
	ok, err := billingExists(ctx, db, billingID)
	if err != nil {
		return Linked{}, err
	}
	if !ok {
		return Linked{}, ErrBillingNotFound
	}

	out := Linked{BillingID: billingID, Profiles: []LinkedProfile{}, Brands: []LinkedBrand{}}
	filter := bson.M{"billing_details_id": billingID}
	oldestFirst := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

	pcur, err := db.Collection("profiles").Find(ctx, filter,
		options.Find().
			SetSort(oldestFirst).
			SetProjection(bson.M{"username": 1, "platform": 1, "created_at": 1}))
	if err != nil {
		return Linked{}, err
	}
	if err := pcur.All(ctx, &out.Profiles); err != nil {
		return Linked{}, err
	}

	bcur, err := db.Collection("brands").Find(ctx, filter,
		options.Find().
			SetSort(oldestFirst).
			SetProjection(bson.M{"name": 1, "created_at": 1}))
	if err != nil {
		return Linked{}, err
	}
	if err := bcur.All(ctx, &out.Brands); err != nil {
		return Linked{}, err
	}

	out.TotalProfiles = len(out.Profiles)
	out.TotalBrands = len(out.Brands)
	return out, nil
}
