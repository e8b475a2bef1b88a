// internal/app/features/billingconnections/routes.go
package billingconnections

import (
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the link endpoints, typically at "/api/billing-connections".
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireRole(authz.RolesFor(authz.ResourceBillingConnection, authz.ActionRead)...))
		pr.Get("/profile-billing/{id}", h.ServeLinkedBilling(billinglinks.KindProfile))
		pr.Get("/brand-billing/{id}", h.ServeLinkedBilling(billinglinks.KindBrand))
	})

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireRole(authz.RolesFor(authz.ResourceBillingConnection, authz.ActionUpdate)...))
		pr.Patch("/connect-profile-billing/{id}/{billing_id}", h.HandleConnect(billinglinks.KindProfile))
		pr.Patch("/connect-brand-billing/{id}/{billing_id}", h.HandleConnect(billinglinks.KindBrand))
		pr.Patch("/disconnect-profile-billing/{id}", h.HandleDisconnect(billinglinks.KindProfile))
		pr.Patch("/disconnect-brand-billing/{id}", h.HandleDisconnect(billinglinks.KindBrand))
	})

	r.With(mw.RequireRole(authz.RolesFor(authz.ResourceBillingConnection, authz.ActionReadAll)...)).
		Get("/billing-users/{billing_id}", h.ServeLinkedEntities)

	return r
}
