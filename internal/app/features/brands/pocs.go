// internal/app/features/brands/pocs.go
package brands

import (
	"net/http"

	brandstore "github.com/dalemusser/influencehub/internal/app/store/brands"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
)

// HandleAddPOC appends a contact to a brand.
// POST /api/brands/{id}/pocs
func (h *Handler) HandleAddPOC(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in models.POCInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.add_poc")
	defer cancel()

	poc, err := brandstore.New(h.DB).AddPOC(ctx, id, cleanPOC(in))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "POC added successfully", ID: poc.ID.Hex()})
}

// HandleUpdatePOC replaces the content of one contact.
// PUT /api/brands/{id}/pocs/{poc_id}
func (h *Handler) HandleUpdatePOC(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	pocID, err := formutil.ObjectID(r, "poc_id", msgPOCNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in models.POCInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.update_poc")
	defer cancel()

	if err := brandstore.New(h.DB).UpdatePOC(ctx, id, pocID, cleanPOC(in)); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, "POC updated successfully")
}

// HandleRemovePOC deletes one contact.
// DELETE /api/brands/{id}/pocs/{poc_id}
func (h *Handler) HandleRemovePOC(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	pocID, err := formutil.ObjectID(r, "poc_id", msgPOCNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.remove_poc")
	defer cancel()

	if err := brandstore.New(h.DB).RemovePOC(ctx, id, pocID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, "POC deleted successfully")
}
