// internal/app/features/billing/records.go
package billing

import (
	"net/http"
	"time"

	"github.com/dalemusser/influencehub/internal/app/store/audit"
	billingstore "github.com/dalemusser/influencehub/internal/app/store/billing"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
)

// HandleCreate stores a new billing record with its initial bank accounts.
// POST /api/billing
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var in models.BillingInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	b, err := models.NewBillingDetails(cleanInput(in), uid, time.Now().UTC())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing.create")
	defer cancel()

	b, err = billingstore.New(h.DB).Create(ctx, b)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Metrics.Created("billing")
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "Billing details created successfully", ID: b.ID.Hex()})
}

// ServeList returns one page of billing records, newest first.
// GET /api/billing
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "billing.list")
	defer cancel()

	list, err := billingstore.New(h.DB).List(ctx, win)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeView returns one billing record with its bank accounts.
// GET /api/billing/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing.get")
	defer cancel()

	b, err := billingstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// HandleUpdate applies a partial update to the record fields. Bank accounts
// are changed through their own endpoints.
// PUT /api/billing/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in models.BillingPatch
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	patch := cleanPatch(in)

	_, changed, ok := h.mutate(w, r, "update", func(b *models.BillingDetails, now time.Time) (bool, error) {
		if patch == (models.BillingPatch{}) {
			return false, nil
		}
		if err := b.ApplyPatch(patch, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return
	}
	if !changed {
		respond.OK(w, "No changes were made to the billing details")
		return
	}
	respond.OK(w, "Billing details updated successfully")
}

// HandleDelete removes a billing record. Profiles and brands that linked to
// it keep the stale id and read back as dangling.
// DELETE /api/billing/{id}
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing.delete")
	defer cancel()

	if err := billingstore.New(h.DB).Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.RecordChanged(ctx, r, actor, audit.EventBillingDeleted, "billing", id, nil)
	h.Metrics.Deleted("billing")
	respond.OK(w, "Billing details deleted successfully")
}
