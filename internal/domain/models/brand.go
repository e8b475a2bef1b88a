// internal/domain/models/brand.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// POC is a point of contact at a brand. Owned by its Brand.
type POC struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Phone       string             `bson:"phone" json:"phone"`
	Email       string             `bson:"email" json:"email"`
	Designation string             `bson:"designation" json:"designation"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// POCInput is the caller-supplied content of a POC, used for both add and
// replace.
type POCInput struct {
	Name        string `json:"name" validate:"required,max=200" label:"Name"`
	Phone       string `json:"phone" validate:"required,max=30" label:"Phone"`
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	Designation string `json:"designation" validate:"required,max=200" label:"Designation"`
}

// Brand is an advertiser, with its own contacts and an optional billing link.
type Brand struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	NameCI           string              `bson:"name_ci" json:"-"` // folded for prefix search
	Website          string              `bson:"website,omitempty" json:"website,omitempty"`
	Instagram        string              `bson:"instagram,omitempty" json:"instagram,omitempty"`
	LinkedIn         string              `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	LogoURL          string              `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	BillingDetailsID *primitive.ObjectID `bson:"billing_details_id" json:"billing_details_id"`
	POCs             []POC               `bson:"pocs" json:"pocs"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// BrandPublic is the brand without contacts, billing link, or owner.
type BrandPublic struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Website   string             `json:"website,omitempty"`
	Instagram string             `json:"instagram,omitempty"`
	LinkedIn  string             `json:"linkedin,omitempty"`
	LogoURL   string             `json:"logo_url,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Public strips the restricted fields.
func (b Brand) Public() BrandPublic {
	return BrandPublic{
		ID:        b.ID,
		Name:      b.Name,
		Website:   b.Website,
		Instagram: b.Instagram,
		LinkedIn:  b.LinkedIn,
		LogoURL:   b.LogoURL,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BrandPatch is a partial brand update. Nil fields are left alone.
type BrandPatch struct {
	Name             *string
	Website          *string
	Instagram        *string
	LinkedIn         *string
	LogoURL          *string
	BillingDetailsID *primitive.ObjectID
}

// Empty reports whether the patch sets nothing.
func (bp BrandPatch) Empty() bool {
	return bp == BrandPatch{}
}

// NewPOC builds a POC with a fresh id.
func NewPOC(in POCInput, now time.Time) POC {
	return POC{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		Designation: in.Designation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
