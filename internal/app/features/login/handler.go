// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	"github.com/dalemusser/influencehub/internal/app/store/audit"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/auditlog"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/app/system/ratelimit"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MsgBadCredentials is the only detail a failed login carries, whatever the
// reason.
const MsgBadCredentials = "Incorrect email or password"

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Tokens   *auth.TokenManager
	Limiter  *ratelimit.LoginLimiter
}

// NewHandler wires the login feature. limiter may be nil to disable
// throttling.
func NewHandler(db *mongo.Database, tokens *auth.TokenManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Tokens:   tokens,
		Limiter:  limiter,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=200" label:"Password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HandleLogin exchanges an email and password for a bearer token.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := formutil.Bind(r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	email := normalize.Email(in.Email)

	if !h.Limiter.Allow(r, email) {
		h.Log.Warn("login throttled", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
		respond.Error(w, http.StatusTooManyRequests, ratelimit.MsgTooManyAttempts)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailed(ctx, r, nil, email, audit.EventLoginFailedUserNotFound, "user not found")
		h.ErrLog.Write(w, r, apperr.Unauthorized(MsgBadCredentials))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if !auth.CheckPassword(u.HashedPassword, in.Password) {
		h.AuditLog.LoginFailed(ctx, r, &u.ID, email, audit.EventLoginFailedWrongPassword, "wrong password")
		h.ErrLog.Write(w, r, apperr.Unauthorized(MsgBadCredentials))
		return
	}
	if !u.IsActive {
		h.AuditLog.LoginFailed(ctx, r, &u.ID, email, audit.EventLoginFailedUserDisabled, "user inactive")
		h.ErrLog.Write(w, r, apperr.Unauthorized(MsgBadCredentials))
		return
	}

	tok, err := h.Tokens.Issue(u.ID.Hex(), u.Email, string(u.Role))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Limiter.Succeeded(email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)

	respond.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.Tokens.TTL().Seconds()),
	})
}
