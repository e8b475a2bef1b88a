// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account endpoints under the path where this router is
// mounted (typically "/api/auth" from bootstrap). The token has already been
// read by mw.LoadUser higher up the chain.
//
// Example mount from bootstrap:
//
//	h := systemusers.NewHandler(db, errLog, audit, logger)
//	api.Mount("/auth", systemusers.Routes(h, mw))
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireSignedIn)

		pr.Get("/me", h.ServeMe)
		pr.Get("/users/me", h.ServeMe)
		pr.Get("/users/{id}", h.ServeUser)
		// Non-admins may patch their own name and email.
		pr.Patch("/users/{id}", h.HandlePatch)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireRole(authz.RolesFor(authz.ResourceUser, authz.ActionAdmin)...))

		pr.Post("/register", h.HandleCreate)
		pr.Get("/users", h.ServeList)
		pr.Post("/users", h.HandleCreate)
		pr.Put("/users/{id}", h.HandleReplace)
		pr.Post("/change-role/{id}", h.HandleChangeRole)
		pr.Post("/deactivate/{id}", h.HandleDeactivate)
	})

	return r
}
