// internal/app/features/systemusers/role.go
package systemusers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// HandleChangeRole sets a user's role from the new_role query parameter.
// POST /api/auth/change-role/{id}?new_role=
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}
	id, err := formutil.ObjectID(r, "id", uierrors.MsgUserNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	raw := query.Get(r, "new_role")
	if raw == "" {
		h.ErrLog.Write(w, r, apperr.Unprocessable("new_role is required."))
		return
	}
	newRole, err := models.ParseRole(raw)
	if err != nil {
		h.ErrLog.Write(w, r, apperr.Wrap(apperr.KindUnprocessable, "new_role must be one of: "+strings.Join(models.RoleNames(), ", "), err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.change_role")
	defer cancel()

	store := userstore.New(h.DB)
	before, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := store.SetRole(ctx, id, newRole); err != nil {
		if errors.Is(err, models.ErrNotModified) {
			err = apperr.Wrap(apperr.KindConflict, "User role not modified", err)
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.UserRoleChanged(ctx, r, actor, id, string(before.Role), string(newRole))
	respond.OK(w, fmt.Sprintf("User role updated to %s", newRole))
}

// HandleDeactivate clears a user's active flag. The last active admin
// cannot be deactivated.
// POST /api/auth/deactivate/{id}
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}
	id, err := formutil.ObjectID(r, "id", uierrors.MsgUserNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.deactivate")
	defer cancel()

	if _, err := userstore.New(h.DB).Deactivate(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotModified) {
			err = apperr.Wrap(apperr.KindConflict, "User status not modified", err)
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.UserDeactivated(ctx, r, actor, id)
	respond.OK(w, "User deactivated successfully")
}
