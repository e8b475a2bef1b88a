// Package authz answers "may this caller do that?" from the request context
// and a static role table.
//
// Rules:
//   - Permissions come from a literal (role, resource, action) table; there is
//     no role inheritance.
//   - Profile edits have one ownership exception for data operators.
//   - Profiles and brands are trimmed to a public view for callers without
//     full visibility.
//   - Denials never say which rule failed.
package authz

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role, name, Mongo ObjectID, and a found flag.
// If no user is present or the stored id or role is malformed, it returns
// "", "", NilObjectID, false so ok=true always means a usable identity.
func UserCtx(r *http.Request) (role models.Role, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	role, err = models.ParseRole(user.Role)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	return role, user.Name, userID, true
}

// CanRequest is Can for the current request's user. Anonymous callers are
// always denied.
func CanRequest(r *http.Request, resource Resource, action Action) bool {
	role, _, _, ok := UserCtx(r)
	return ok && Can(role, resource, action)
}

// Owns reports whether the current user created a record owned by owner.
func Owns(r *http.Request, owner primitive.ObjectID) bool {
	_, _, uid, ok := UserCtx(r)
	return ok && !owner.IsZero() && uid == owner
}
