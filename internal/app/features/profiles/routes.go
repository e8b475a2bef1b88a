// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile endpoints, typically at "/api/profiles".
// Update is gated in the handler because data operators may edit only
// their own records.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireRole(authz.RolesFor(authz.ResourceProfile, authz.ActionReadAll)...))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	r.With(mw.RequireRole(authz.RolesFor(authz.ResourceProfile, authz.ActionCreate)...)).
		Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.With(mw.RequireRole(authz.RolesFor(authz.ResourceProfile, authz.ActionDelete)...)).
		Delete("/{id}", h.HandleDelete)

	return r
}
