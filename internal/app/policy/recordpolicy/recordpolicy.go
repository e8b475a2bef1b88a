// Package recordpolicy applies the role table and the ownership rules to the
// caller of a request, for profiles, brands, and their billing links.
//
// Authorization rules:
//   - Route middleware has already checked the coarse role gate
//   - Data operators see, edit, and read billing links only for records they created
//   - Callers without full visibility get the public view of profiles and brands
package recordpolicy

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileListOwner returns the owner every listed profile must have, or nil
// when the caller may list everyone's. Data operators only list their own.
func ProfileListOwner(r *http.Request) *primitive.ObjectID {
	if !authz.HasAnyRole(r, models.RoleDataOperator) {
		return nil
	}
	_, _, uid, _ := authz.UserCtx(r)
	return &uid
}

// CanEditProfile reports whether the caller may update p.
func CanEditProfile(r *http.Request, p models.Profile) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && authz.CanUpdateProfile(role, authz.Owns(r, p.CreatedBy))
}

// MayEditSomeProfile is the pre-check before loading a profile: false means
// no profile at all could be edited by this caller.
func MayEditSomeProfile(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && authz.CanUpdateProfile(role, true)
}

// ViewProfile returns p as the caller may see it.
func ViewProfile(r *http.Request, p models.Profile) any {
	role, _, _, _ := authz.UserCtx(r)
	return authz.FilterProfile(p, role, authz.Owns(r, p.CreatedBy))
}

// ViewBrand returns b as the caller may see it.
func ViewBrand(r *http.Request, b models.Brand) any {
	role, _, _, _ := authz.UserCtx(r)
	return authz.FilterBrand(b, role, authz.Owns(r, b.CreatedBy))
}

// CanReadBillingLink reports whether the caller may read the billing record
// linked to an entity created by owner.
func CanReadBillingLink(r *http.Request, owner primitive.ObjectID) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && authz.CanReadBillingLink(role, authz.Owns(r, owner))
}
