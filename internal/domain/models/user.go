// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in and act on profiles, brands, and
// billing records according to its Role.
//
// NOTE:
//   - Users are deactivated, never deleted.
//   - HashedPassword never leaves the service (json:"-").
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"` // lowercase, unique
	FullName       string             `bson:"full_name" json:"full_name"`
	Role           Role               `bson:"role" json:"role"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	HashedPassword string             `bson:"hashed_password" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
