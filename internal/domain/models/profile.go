// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform is the social network a profile lives on.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformYouTube, PlatformInstagram, PlatformLinkedIn, PlatformFacebook, PlatformTwitter}

// ContentOrientation describes the kind of content a profile publishes.
type ContentOrientation string

const (
	OrientationShorts     ContentOrientation = "shorts"
	OrientationLong       ContentOrientation = "long"
	OrientationLongShorts ContentOrientation = "long_shorts"
	OrientationReels      ContentOrientation = "reels"
)

// ContentOrientations lists every supported orientation.
var ContentOrientations = []ContentOrientation{OrientationShorts, OrientationLong, OrientationLongShorts, OrientationReels}

// DefaultCurrency is applied to costing entries that omit one.
const DefaultCurrency = "INR"

// ContactDetail is a person to reach about a profile.
type ContactDetail struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// CostingDetail is one priced deliverable offered by a profile.
type CostingDetail struct {
	ContentType string  `bson:"content_type" json:"content_type"`
	Price       float64 `bson:"price" json:"price"`
	Currency    string  `bson:"currency" json:"currency"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// Profile is a social-media account tracked by the team.
//
// CreatedBy is set once on insert and never rewritten.
type Profile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Platform           Platform           `bson:"platform" json:"platform"`
	ContentOrientation ContentOrientation `bson:"content_orientation,omitempty" json:"content_orientation,omitempty"`
	Username           string             `bson:"username" json:"username"`
	ProfileURL         string             `bson:"profile_url" json:"profile_url"`
	Region             string             `bson:"region,omitempty" json:"region,omitempty"`
	Language           string             `bson:"language,omitempty" json:"language,omitempty"`
	Followers          *int64             `bson:"followers,omitempty" json:"followers,omitempty"`
	ERRate             *float64           `bson:"er_rate,omitempty" json:"er_rate,omitempty"`
	IsBettingAllowed   bool               `bson:"is_betting_allowed" json:"is_betting_allowed"`
	MaleAudience       *float64           `bson:"male_audience,omitempty" json:"male_audience,omitempty"`
	BioPhone           string             `bson:"bio_phone,omitempty" json:"bio_phone,omitempty"`
	BioEmail           string             `bson:"bio_email,omitempty" json:"bio_email,omitempty"`

	ContactDetails   []ContactDetail     `bson:"contact_details" json:"contact_details"`
	Costing          []CostingDetail     `bson:"costing" json:"costing"`
	BillingDetailsID *primitive.ObjectID `bson:"billing_details_id" json:"billing_details_id"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProfilePublic is the profile as seen by callers without full visibility:
// contacts, pricing, billing link and owner are left out.
type ProfilePublic struct {
	ID                 primitive.ObjectID `json:"id"`
	Platform           Platform           `json:"platform"`
	ContentOrientation ContentOrientation `json:"content_orientation,omitempty"`
	Username           string             `json:"username"`
	ProfileURL         string             `json:"profile_url"`
	Region             string             `json:"region,omitempty"`
	Language           string             `json:"language,omitempty"`
	Followers          *int64             `json:"followers,omitempty"`
	ERRate             *float64           `json:"er_rate,omitempty"`
	IsBettingAllowed   bool               `json:"is_betting_allowed"`
	MaleAudience       *float64           `json:"male_audience,omitempty"`
	BioPhone           string             `json:"bio_phone,omitempty"`
	BioEmail           string             `json:"bio_email,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Public strips the restricted fields.
func (p Profile) Public() ProfilePublic {
	return ProfilePublic{
		ID:                 p.ID,
		Platform:           p.Platform,
		ContentOrientation: p.ContentOrientation,
		Username:           p.Username,
		ProfileURL:         p.ProfileURL,
		Region:             p.Region,
		Language:           p.Language,
		Followers:          p.Followers,
		ERRate:             p.ERRate,
		IsBettingAllowed:   p.IsBettingAllowed,
		MaleAudience:       p.MaleAudience,
		BioPhone:           p.BioPhone,
		BioEmail:           p.BioEmail,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ProfilePatch carries a partial profile update. Nil fields are left alone.
type ProfilePatch struct {
	Platform           *Platform
	ContentOrientation *ContentOrientation
	Username           *string
	ProfileURL         *string
	Region             *string
	Language           *string
	Followers          *int64
	ERRate             *float64
	IsBettingAllowed   *bool
	MaleAudience       *float64
	BioPhone           *string
	BioEmail           *string
	ContactDetails     *[]ContactDetail
	Costing            *[]CostingDetail
	BillingDetailsID   *primitive.ObjectID
}

// Empty reports whether the patch sets nothing.
func (pp ProfilePatch) Empty() bool {
	return pp == ProfilePatch{}
}

// NormalizeCosting returns a copy of in with the default currency filled in.
func NormalizeCosting(in []CostingDetail) []CostingDetail {
	out := make([]CostingDetail, len(in))
	for i, c := range in {
		if c.Currency == "" {
			c.Currency = DefaultCurrency
		}
		out[i] = c
	}
	return out
}
