// internal/app/features/systemusers/view.go
package systemusers

import (
	"net/http"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
)

// ServeMe returns the caller's own account.
// GET /api/auth/me and GET /api/auth/users/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.me")
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toView(u))
}

// ServeUser returns one account. Admins may read anyone; other callers only
// themselves.
// GET /api/auth/users/{id}
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}
	id, err := formutil.ObjectID(r, "id", uierrors.MsgUserNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !authz.CanReadUser(role, id == uid) {
		h.ErrLog.Forbidden(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.get")
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toView(u))
}

// ServeList returns one page of accounts, newest first.
// GET /api/auth/users?skip=&limit=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users.list")
	defer cancel()

	users, err := userstore.New(h.DB).List(ctx, win)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	respond.JSON(w, http.StatusOK, out)
}
