// internal/app/features/brands/types.go
package brands

import (
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// brandInput is the body of POST /api/brands.
type brandInput struct {
	Name             string              `json:"name" validate:"required,max=200" label:"Name"`
	Website          string              `json:"website" validate:"omitempty,max=2000" label:"Website"`
	Instagram        string              `json:"instagram" validate:"omitempty,max=2000" label:"Instagram"`
	LinkedIn         string              `json:"linkedin" validate:"omitempty,max=2000" label:"LinkedIn"`
	LogoURL          string              `json:"logo_url" validate:"omitempty,httpurl" label:"Logo URL"`
	POCs             []models.POCInput   `json:"pocs" validate:"dive"`
	BillingDetailsID *primitive.ObjectID `json:"billing_details_id"`
}

// brandPatchInput is the body of PUT /api/brands/{id}. POCs are changed
// through their own endpoints.
type brandPatchInput struct {
	Name             *string             `json:"name" validate:"omitempty,min=1,max=200" label:"Name"`
	Website          *string             `json:"website" validate:"omitempty,max=2000" label:"Website"`
	Instagram        *string             `json:"instagram" validate:"omitempty,max=2000" label:"Instagram"`
	LinkedIn         *string             `json:"linkedin" validate:"omitempty,max=2000" label:"LinkedIn"`
	LogoURL          *string             `json:"logo_url" validate:"omitempty,httpurl" label:"Logo URL"`
	BillingDetailsID *primitive.ObjectID `json:"billing_details_id"`
}

func cleanPOC(in models.POCInput) models.POCInput {
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Phone = normalize.Name(in.Phone)
	in.Email = normalize.Email(in.Email)
	in.Designation = htmlsanitize.PlainText(in.Designation)
	return in
}

func (in brandInput) toModel(owner primitive.ObjectID, now time.Time) models.Brand {
	pocs := make([]models.POC, 0, len(in.POCs))
	for _, p := range in.POCs {
		pocs = append(pocs, models.NewPOC(cleanPOC(p), now))
	}
	return models.Brand{
		Name:             htmlsanitize.PlainText(in.Name),
		Website:          normalize.Name(in.Website),
		Instagram:        normalize.Name(in.Instagram),
		LinkedIn:         normalize.Name(in.LinkedIn),
		LogoURL:          normalize.Name(in.LogoURL),
		BillingDetailsID: in.BillingDetailsID,
		POCs:             pocs,
		CreatedBy:        owner,
	}
}

func (in brandPatchInput) toPatch() models.BrandPatch {
	return models.BrandPatch{
		Name:             htmlsanitize.PlainTextPtr(in.Name),
		Website:          in.Website,
		Instagram:        in.Instagram,
		LinkedIn:         in.LinkedIn,
		LogoURL:          in.LogoURL,
		BillingDetailsID: in.BillingDetailsID,
	}
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
