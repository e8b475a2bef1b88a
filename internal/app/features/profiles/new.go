// internal/app/features/profiles/new.go
package profiles

import (
	"net/http"

	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
)

// HandleCreate stores a new profile owned by the caller.
// POST /api/profiles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var in profileInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profiles.create")
	defer cancel()

	if err := billinglinks.RequireBilling(ctx, h.DB, in.BillingDetailsID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	p, err := profilestore.New(h.DB).Create(ctx, in.toModel(uid))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Metrics.Created("profile")
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "Profile created successfully", ID: p.ID.Hex()})
}
