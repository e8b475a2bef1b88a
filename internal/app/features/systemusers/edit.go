// internal/app/features/systemusers/edit.go
package systemusers

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
)

// HandleReplace overwrites email, name, role, and active flag. Sending the
// current values back is not an error.
// PUT /api/auth/users/{id}
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
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

	var in replaceInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	name := htmlsanitize.PlainText(in.FullName)
	upd := userstore.Update{Email: &in.Email, FullName: &name, Role: &role, IsActive: in.IsActive}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.replace")
	defer cancel()

	_, err = userstore.New(h.DB).Update(ctx, id, upd)
	switch {
	case err == nil:
		h.AuditLog.UserUpdated(ctx, r, actor, id, strings.Join(upd.Fields(), ","))
	case !errors.Is(err, models.ErrNotModified):
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, createdResponse{Message: "User updated successfully", ID: id.Hex()})
}

// HandlePatch applies the fields present in the body. Admins may change any
// account and any field; everyone else may change only their own email and
// full name, and other fields they send are dropped.
// PATCH /api/auth/users/{id}
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
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
	isAdmin := authz.CanRequest(r, authz.ResourceUser, authz.ActionUpdate)
	if !isAdmin && id != actor {
		h.ErrLog.Forbidden(w)
		return
	}

	var in patchInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	upd := userstore.Update{Email: in.Email, FullName: htmlsanitize.PlainTextPtr(in.FullName)}
	if isAdmin {
		if in.Role != nil {
			parsed, err := models.ParseRole(*in.Role)
			if err != nil {
				h.ErrLog.Write(w, r, err)
				return
			}
			upd.Role = &parsed
		}
		upd.IsActive = in.IsActive
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.patch")
	defer cancel()

	u, err := userstore.New(h.DB).Update(ctx, id, upd)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.AuditLog.UserUpdated(ctx, r, actor, id, strings.Join(upd.Fields(), ","))
	respond.JSON(w, http.StatusOK, toView(u))
}
