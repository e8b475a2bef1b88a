// internal/app/features/auditevents/routes.go
package auditevents

import (
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes serves the audit trail. Admins only.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireSignedIn)
	r.Use(mw.RequireRole(authz.RolesFor(authz.ResourceUser, authz.ActionAdmin)...))
	r.Get("/", h.ServeList)
	r.Get("/actors/{id}", h.ServeActor)
	return r
}
