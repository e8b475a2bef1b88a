// internal/app/features/billing/verify.go
package billing

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/influencehub/internal/app/store/audit"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// verified records a verification in the audit log when it changed state.
func (h *Handler) verified(r *http.Request, id primitive.ObjectID, field string) {
	_, _, actor, _ := authz.UserCtx(r)
	h.AuditLog.RecordChanged(r.Context(), r, actor, audit.EventBillingVerified, "billing", id, map[string]string{"field": field})
}

// HandleVerifyAccount flags one bank account as verified.
// PATCH /api/billing/{id}/bank-accounts/{account_id}/verify
func (h *Handler) HandleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := accountID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	id, changed, ok := h.mutate(w, r, "verify_account", func(b *models.BillingDetails, now time.Time) (bool, error) {
		return b.VerifyBankAccount(acct, now)
	})
	if !ok {
		return
	}
	if changed {
		h.verified(r, id, "bank_account:"+acct.Hex())
	}
	respond.OK(w, "Bank account verified successfully")
}

// HandleVerifyGST flags the GSTIN as verified. Verifying twice succeeds.
// PATCH /api/billing/{id}/verify-gst
func (h *Handler) HandleVerifyGST(w http.ResponseWriter, r *http.Request) {
	id, changed, ok := h.mutate(w, r, "verify_gst", func(b *models.BillingDetails, now time.Time) (bool, error) {
		return b.VerifyGST(now)
	})
	if !ok {
		return
	}
	if changed {
		h.verified(r, id, "gst")
	}
	respond.OK(w, "GST verified successfully")
}

// HandleVerifyPAN flags the PAN as verified. Verifying twice succeeds.
// PATCH /api/billing/{id}/verify-pan
func (h *Handler) HandleVerifyPAN(w http.ResponseWriter, r *http.Request) {
	id, changed, ok := h.mutate(w, r, "verify_pan", func(b *models.BillingDetails, now time.Time) (bool, error) {
		return b.VerifyPAN(now)
	})
	if !ok {
		return
	}
	if changed {
		h.verified(r, id, "pan")
	}
	respond.OK(w, "PAN card verified successfully")
}

// HandleSetMSME switches MSME status from the is_msme query parameter.
// Asking for the current status is a 409.
// PATCH /api/billing/{id}/set-msme-status?is_msme=true|false
func (h *Handler) HandleSetMSME(w http.ResponseWriter, r *http.Request) {
	raw := query.Get(r, "is_msme")
	if raw == "" {
		h.ErrLog.Write(w, r, apperr.Unprocessable("is_msme is required."))
		return
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Unprocessable("is_msme must be true or false."))
		return
	}

	_, _, ok := h.mutate(w, r, "set_msme", func(b *models.BillingDetails, now time.Time) (bool, error) {
		if err := b.SetMSME(enabled, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return
	}
	respond.OK(w, fmt.Sprintf("MSME status set to %t successfully", enabled))
}
