// internal/app/features/billing/routes.go
package billing

import (
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the billing endpoints, typically at "/api/billing".
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireSignedIn)

	gate := func(res authz.Resource, act authz.Action) chi.Router {
		return r.With(mw.RequireRole(authz.RolesFor(res, act)...))
	}

	gate(authz.ResourceBilling, authz.ActionCreate).Post("/", h.HandleCreate)
	gate(authz.ResourceBilling, authz.ActionReadAll).Get("/", h.ServeList)
	gate(authz.ResourceBilling, authz.ActionRead).Get("/{id}", h.ServeView)
	gate(authz.ResourceBilling, authz.ActionUpdate).Put("/{id}", h.HandleUpdate)
	gate(authz.ResourceBilling, authz.ActionDelete).Delete("/{id}", h.HandleDelete)

	gate(authz.ResourceBankAccount, authz.ActionCreate).Post("/{id}/bank-accounts", h.HandleAddAccount)
	gate(authz.ResourceBankAccount, authz.ActionUpdate).Put("/{id}/bank-accounts/{account_id}", h.HandleUpdateAccount)
	gate(authz.ResourceBankAccount, authz.ActionDelete).Delete("/{id}/bank-accounts/{account_id}", h.HandleRemoveAccount)
	gate(authz.ResourceBankAccount, authz.ActionUpdate).Patch("/{id}/bank-accounts/{account_id}/set-default", h.HandleSetDefault)
	gate(authz.ResourceBankAccount, authz.ActionAdmin).Patch("/{id}/bank-accounts/{account_id}/verify", h.HandleVerifyAccount)

	gate(authz.ResourceBilling, authz.ActionAdmin).Patch("/{id}/verify-gst", h.HandleVerifyGST)
	gate(authz.ResourceBilling, authz.ActionAdmin).Patch("/{id}/verify-pan", h.HandleVerifyPAN)
	gate(authz.ResourceBilling, authz.ActionAdmin).Patch("/{id}/set-msme-status", h.HandleSetMSME)

	return r
}
