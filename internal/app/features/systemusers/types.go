// internal/app/features/systemusers/types.go
package systemusers

import (
	"time"

	"github.com/dalemusser/influencehub/internal/domain/models"
)

// createInput is the body of POST /register and POST /users.
type createInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	FullName string `json:"full_name" validate:"required,max=200" label:"Full name"`
	Password string `json:"password" validate:"required,min=8,max=200" label:"Password"`
	Role     string `json:"role" validate:"omitempty,max=50" label:"Role"`
	IsActive *bool  `json:"is_active"`
}

// replaceInput is the body of PUT /users/{id}; every field is required.
type replaceInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	FullName string `json:"full_name" validate:"required,max=200" label:"Full name"`
	Role     string `json:"role" validate:"required,max=50" label:"Role"`
	IsActive *bool  `json:"is_active" validate:"required" label:"Active"`
}

// patchInput is the body of PATCH /users/{id}; absent fields are left alone.
type patchInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200" label:"Full name"`
	Role     *string `json:"role" validate:"omitempty,max=50" label:"Role"`
	IsActive *bool   `json:"is_active"`
}

// userView is a user as returned by the API.
type userView struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func toView(u models.User) userView {
	username := u.FullName
	if username == "" {
		username = u.Email
	}
	return userView{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Username:  username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
