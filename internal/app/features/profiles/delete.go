// internal/app/features/profiles/delete.go
package profiles

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/store/audit"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
)

// HandleDelete removes a profile. A billing record it linked to is kept.
// DELETE /api/profiles/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profiles.delete")
	defer cancel()

	if err := profilestore.New(h.DB).Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.RecordChanged(ctx, r, actor, audit.EventProfileDeleted, "profile", id, nil)
	h.Metrics.Deleted("profile")
	respond.OK(w, "Profile deleted successfully")
}
