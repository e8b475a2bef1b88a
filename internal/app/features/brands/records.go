// internal/app/features/brands/records.go
package brands

import (
	"net/http"
	"time"

	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/influencehub/internal/app/store/audit"
	brandstore "github.com/dalemusser/influencehub/internal/app/store/brands"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// HandleCreate stores a new brand, with any POCs sent along, owned by the
// caller.
// POST /api/brands
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var in brandInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.create")
	defer cancel()

	if err := billinglinks.RequireBilling(ctx, h.DB, in.BillingDetailsID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	b, err := brandstore.New(h.DB).Create(ctx, in.toModel(uid, time.Now().UTC()))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Metrics.Created("brand")
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "Brand created successfully", ID: b.ID.Hex()})
}

// ServeList returns one page of brands, newest first, trimmed per caller.
// ?search= keeps brands whose name starts with the given text.
// GET /api/brands
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "brands.list")
	defer cancel()

	list, err := brandstore.New(h.DB).List(ctx, win, normalize.QueryParam(query.Get(r, "search")))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	out := make([]any, 0, len(list))
	for _, b := range list {
		out = append(out, recordpolicy.ViewBrand(r, b))
	}
	respond.JSON(w, http.StatusOK, out)
}

// ServeView returns one brand, trimmed per caller.
// GET /api/brands/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.get")
	defer cancel()

	b, err := brandstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, recordpolicy.ViewBrand(r, b))
}

// HandleUpdate applies a partial update to the brand's own fields.
// PUT /api/brands/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in brandPatchInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.update")
	defer cancel()

	if err := billinglinks.RequireBilling(ctx, h.DB, in.BillingDetailsID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	changed, err := brandstore.New(h.DB).Update(ctx, id, in.toPatch())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !changed {
		respond.OK(w, "No changes were made to the brand")
		return
	}
	respond.OK(w, "Brand updated successfully")
}

// HandleDelete removes a brand and its POCs. A linked billing record is kept.
// DELETE /api/brands/{id}
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brands.delete")
	defer cancel()

	if err := brandstore.New(h.DB).Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.RecordChanged(ctx, r, actor, audit.EventBrandDeleted, "brand", id, nil)
	h.Metrics.Deleted("brand")
	respond.OK(w, "Brand deleted successfully")
}
