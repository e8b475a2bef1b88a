// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/domain/models"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...models.Role) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == want {
			return true
		}
	}
	return false
}

// RolesFor lists, in declaration order, the roles the table allows to perform
// action on resource. Routers use it to build role-gate middleware from the
// same table that handlers consult.
func RolesFor(resource Resource, action Action) []string {
	var out []string
	for _, r := range models.AllRoles() {
		if Can(r, resource, action) {
			out = append(out, string(r))
		}
	}
	return out
}
