// internal/app/features/profiles/types.go
package profiles

import (
	"github.com/dalemusser/influencehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contactInput struct {
	Name  string `json:"name" validate:"required,max=200" label:"Contact name"`
	Email string `json:"email" validate:"omitempty,email,max=254" label:"Contact email"`
	Phone string `json:"phone" validate:"max=30" label:"Contact phone"`
}

type costingInput struct {
	ContentType string  `json:"content_type" validate:"required,max=100" label:"Content type"`
	Price       float64 `json:"price" validate:"gte=0" label:"Price"`
	Currency    string  `json:"currency" validate:"omitempty,len=3" label:"Currency"`
	Description string  `json:"description" validate:"max=1000" label:"Description"`
}

// profileInput is the body of POST /api/profiles.
type profileInput struct {
	Platform           string              `json:"platform" validate:"required,oneof=youtube instagram linkedin facebook twitter" label:"Platform"`
	ContentOrientation string              `json:"content_orientation" validate:"omitempty,oneof=shorts long long_shorts reels" label:"Content orientation"`
	Username           string              `json:"username" validate:"required,max=200" label:"Username"`
	ProfileURL         string              `json:"profile_url" validate:"required,max=2000" label:"Profile URL"`
	Region             string              `json:"region" validate:"max=100" label:"Region"`
	Language           string              `json:"language" validate:"max=100" label:"Language"`
	Followers          *int64              `json:"followers" validate:"omitempty,gte=0" label:"Followers"`
	ERRate             *float64            `json:"er_rate" validate:"omitempty,gte=0" label:"Engagement rate"`
	IsBettingAllowed   bool                `json:"is_betting_allowed"`
	MaleAudience       *float64            `json:"male_audience" validate:"omitempty,gte=0,lte=100" label:"Male audience"`
	BioPhone           string              `json:"bio_phone" validate:"max=30" label:"Bio phone"`
	BioEmail           string              `json:"bio_email" validate:"omitempty,email,max=254" label:"Bio email"`
	ContactDetails     []contactInput      `json:"contact_details" validate:"dive"`
	Costing            []costingInput      `json:"costing" validate:"dive"`
	BillingDetailsID   *primitive.ObjectID `json:"billing_details_id"`
}

// profilePatchInput is the body of PUT /api/profiles/{id}; absent fields
// are left alone.
type profilePatchInput struct {
	Platform           *string             `json:"platform" validate:"omitempty,oneof=youtube instagram linkedin facebook twitter" label:"Platform"`
	ContentOrientation *string             `json:"content_orientation" validate:"omitempty,oneof=shorts long long_shorts reels" label:"Content orientation"`
	Username           *string             `json:"username" validate:"omitempty,min=1,max=200" label:"Username"`
	ProfileURL         *string             `json:"profile_url" validate:"omitempty,min=1,max=2000" label:"Profile URL"`
	Region             *string             `json:"region" validate:"omitempty,max=100" label:"Region"`
	Language           *string             `json:"language" validate:"omitempty,max=100" label:"Language"`
	Followers          *int64              `json:"followers" validate:"omitempty,gte=0" label:"Followers"`
	ERRate             *float64            `json:"er_rate" validate:"omitempty,gte=0" label:"Engagement rate"`
	IsBettingAllowed   *bool               `json:"is_betting_allowed"`
	MaleAudience       *float64            `json:"male_audience" validate:"omitempty,gte=0,lte=100" label:"Male audience"`
	BioPhone           *string             `json:"bio_phone" validate:"omitempty,max=30" label:"Bio phone"`
	BioEmail           *string             `json:"bio_email" validate:"omitempty,email,max=254" label:"Bio email"`
	ContactDetails     *[]contactInput     `json:"contact_details" validate:"omitempty,dive" label:"Contact details"`
	Costing            *[]costingInput     `json:"costing" validate:"omitempty,dive" label:"Costing"`
	BillingDetailsID   *primitive.ObjectID `json:"billing_details_id"`
}

func contacts(in []contactInput) []models.ContactDetail {
	out := make([]models.ContactDetail, 0, len(in))
	for _, c := range in {
		out = append(out, models.ContactDetail{
			Name:  htmlsanitize.PlainText(c.Name),
			Email: c.Email,
			Phone: c.Phone,
		})
	}
	return out
}

func costing(in []costingInput) []models.CostingDetail {
	out := make([]models.CostingDetail, 0, len(in))
	for _, c := range in {
		out = append(out, models.CostingDetail{
			ContentType: htmlsanitize.PlainText(c.ContentType),
			Price:       c.Price,
			Currency:    c.Currency,
			Description: htmlsanitize.PlainText(c.Description),
		})
	}
	return models.NormalizeCosting(out)
}

func (in profileInput) toModel(owner primitive.ObjectID) models.Profile {
	return models.Profile{
		Platform:           models.Platform(in.Platform),
		ContentOrientation: models.ContentOrientation(in.ContentOrientation),
		Username:           htmlsanitize.PlainText(in.Username),
		ProfileURL:         in.ProfileURL,
		Region:             htmlsanitize.PlainText(in.Region),
		Language:           htmlsanitize.PlainText(in.Language),
		Followers:          in.Followers,
		ERRate:             in.ERRate,
		IsBettingAllowed:   in.IsBettingAllowed,
		MaleAudience:       in.MaleAudience,
		BioPhone:           in.BioPhone,
		BioEmail:           in.BioEmail,
		ContactDetails:     contacts(in.ContactDetails),
		Costing:            costing(in.Costing),
		BillingDetailsID:   in.BillingDetailsID,
		CreatedBy:          owner,
	}
}

func (in profilePatchInput) toPatch() models.ProfilePatch {
	p := models.ProfilePatch{
		Username:         htmlsanitize.PlainTextPtr(in.Username),
		ProfileURL:       in.ProfileURL,
		Region:           htmlsanitize.PlainTextPtr(in.Region),
		Language:         htmlsanitize.PlainTextPtr(in.Language),
		Followers:        in.Followers,
		ERRate:           in.ERRate,
		IsBettingAllowed: in.IsBettingAllowed,
		MaleAudience:     in.MaleAudience,
		BioPhone:         in.BioPhone,
		BioEmail:         in.BioEmail,
		BillingDetailsID: in.BillingDetailsID,
	}
	if in.Platform != nil {
		v := models.Platform(*in.Platform)
		p.Platform = &v
	}
	if in.ContentOrientation != nil {
		v := models.ContentOrientation(*in.ContentOrientation)
		p.ContentOrientation = &v
	}
	if in.ContactDetails != nil {
		v := contacts(*in.ContactDetails)
		p.ContactDetails = &v
	}
	if in.Costing != nil {
		v := costing(*in.Costing)
		p.Costing = &v
	}
	return p
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
