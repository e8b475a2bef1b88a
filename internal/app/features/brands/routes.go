// internal/app/features/brands/routes.go
package brands

import (
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the brand and POC endpoints, typically at "/api/brands".
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireSignedIn)

	gate := func(res authz.Resource, act authz.Action) chi.Router {
		return r.With(mw.RequireRole(authz.RolesFor(res, act)...))
	}

	gate(authz.ResourceBrand, authz.ActionCreate).Post("/", h.HandleCreate)
	gate(authz.ResourceBrand, authz.ActionReadAll).Get("/", h.ServeList)
	gate(authz.ResourceBrand, authz.ActionRead).Get("/{id}", h.ServeView)
	gate(authz.ResourceBrand, authz.ActionUpdate).Put("/{id}", h.HandleUpdate)
	gate(authz.ResourceBrand, authz.ActionDelete).Delete("/{id}", h.HandleDelete)

	gate(authz.ResourcePOC, authz.ActionCreate).Post("/{id}/pocs", h.HandleAddPOC)
	gate(authz.ResourcePOC, authz.ActionUpdate).Put("/{id}/pocs/{poc_id}", h.HandleUpdatePOC)
	gate(authz.ResourcePOC, authz.ActionDelete).Delete("/{id}/pocs/{poc_id}", h.HandleRemovePOC)

	return r
}
