// internal/app/features/billing/accounts.go
package billing

import (
	"net/http"
	"time"

	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleAddAccount appends a bank account. The first account, or one sent
// with is_default, becomes the only default.
// POST /api/billing/{id}/bank-accounts
func (h *Handler) HandleAddAccount(w http.ResponseWriter, r *http.Request) {
	var in models.BankAccountInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	in = cleanAccount(in)

	var added primitive.ObjectID
	_, _, ok := h.mutate(w, r, "add_account", func(b *models.BillingDetails, now time.Time) (bool, error) {
		added = b.AddBankAccount(in, now)
		return true, nil
	})
	if !ok {
		return
	}
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "Bank account added successfully", ID: added.Hex()})
}

// HandleUpdateAccount applies a partial update to one bank account.
// PUT /api/billing/{id}/bank-accounts/{account_id}
func (h *Handler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := accountID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var in models.BankAccountPatch
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	patch := cleanAccountPatch(in)

	_, _, ok := h.mutate(w, r, "update_account", func(b *models.BillingDetails, now time.Time) (bool, error) {
		if err := b.UpdateBankAccount(acct, patch, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return
	}
	respond.OK(w, "Bank account updated successfully")
}

// HandleRemoveAccount deletes one bank account. The only account on a
// record cannot be removed.
// DELETE /api/billing/{id}/bank-accounts/{account_id}
func (h *Handler) HandleRemoveAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := accountID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	_, _, ok := h.mutate(w, r, "remove_account", func(b *models.BillingDetails, now time.Time) (bool, error) {
		if err := b.RemoveBankAccount(acct, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return
	}
	respond.OK(w, "Bank account deleted successfully")
}

// HandleSetDefault makes one account the only default. Choosing the account
// that is already the default succeeds without a write.
// PATCH /api/billing/{id}/bank-accounts/{account_id}/set-default
func (h *Handler) HandleSetDefault(w http.ResponseWriter, r *http.Request) {
	acct, err := accountID(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	_, _, ok := h.mutate(w, r, "set_default", func(b *models.BillingDetails, now time.Time) (bool, error) {
		if cur, found := b.DefaultAccount(); found && cur.ID == acct {
			return false, nil
		}
		if err := b.SetDefaultBankAccount(acct, now); err != nil {
			return false, err
		}
		return true, nil
	})
	if !ok {
		return
	}
	respond.OK(w, "Bank account set as default successfully")
}
