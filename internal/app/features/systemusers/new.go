// internal/app/features/systemusers/new.go
package systemusers

import (
	"net/http"

	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
)

// HandleCreate creates an account. Role defaults to data_operator and the
// account starts active unless is_active says otherwise.
// POST /api/auth/register and POST /api/auth/users
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var in createInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	role := models.DefaultRole
	if in.Role != "" {
		parsed, err := models.ParseRole(in.Role)
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		role = parsed
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users.create")
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Email:          in.Email,
		FullName:       htmlsanitize.PlainText(in.FullName),
		Role:           role,
		IsActive:       active,
		HashedPassword: hash,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.UserCreated(ctx, r, actor, u.ID, string(u.Role))
	respond.JSON(w, http.StatusCreated, createdResponse{Message: "User created successfully", ID: u.ID.Hex()})
}
