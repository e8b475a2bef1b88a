// internal/app/features/profiles/view.go
package profiles

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
)

const msgNotFound = "Profile not found"

// ServeView returns one profile, trimmed per caller.
// GET /api/profiles/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profiles.get")
	defer cancel()

	p, err := profilestore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, recordpolicy.ViewProfile(r, p))
}
