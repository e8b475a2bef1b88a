// internal/app/features/profiles/edit.go
package profiles

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
)

// HandleUpdate applies a partial update. Admins and managers may edit any
// profile; data operators only their own.
// PUT /api/profiles/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !recordpolicy.MayEditSomeProfile(r) {
		h.ErrLog.Forbidden(w)
		return
	}
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	var in profilePatchInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profiles.update")
	defer cancel()

	store := profilestore.New(h.DB)
	p, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !recordpolicy.CanEditProfile(r, p) {
		h.ErrLog.Forbidden(w)
		return
	}
	if err := billinglinks.RequireBilling(ctx, h.DB, in.BillingDetailsID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	changed, err := store.Update(ctx, id, in.toPatch())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !changed {
		respond.OK(w, "No changes were made to the profile")
		return
	}
	respond.OK(w, "Profile updated successfully")
}
