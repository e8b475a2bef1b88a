// Package errors translates failures from stores and aggregates into
// {"detail": msg} responses. Handlers never pick status codes for failures
// themselves; they hand the error to ErrorLogger.Write.
package errors

import (
	stderrors "errors"
	"net/http"

	billingstore "github.com/dalemusser/influencehub/internal/app/store/billing"
	brandstore "github.com/dalemusser/influencehub/internal/app/store/brands"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Messages shared by several handlers.
const (
	MsgNoChanges    = "no changes"
	MsgUserNotFound = "User not found"
)

// ErrorLogger writes error responses and logs the ones callers cannot act on.
type ErrorLogger struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// WithMetrics records conflicts on m as well.
func (e *ErrorLogger) WithMetrics(m *metrics.Metrics) *ErrorLogger {
	e.Metrics = m
	return e
}

// Classify maps err onto the apperr taxonomy. Errors that are already
// classified keep their kind and message.
func Classify(err error) *apperr.Error {
	if ae, ok := apperr.As(err); ok {
		return ae
	}

	var rule *models.RuleError
	switch {
	case stderrors.As(err, &rule):
		return apperr.Wrap(apperr.KindValidation, rule.Msg, err)
	case stderrors.Is(err, models.ErrUnknownRole):
		return apperr.Wrap(apperr.KindValidation, "Invalid role", err)
	case stderrors.Is(err, userstore.ErrLastAdmin):
		return apperr.Wrap(apperr.KindValidation, "Cannot remove the last admin", err)

	case stderrors.Is(err, models.ErrBankAccountNotFound):
		return apperr.Wrap(apperr.KindNotFound, "Bank account not found", err)
	case stderrors.Is(err, models.ErrPOCNotFound):
		return apperr.Wrap(apperr.KindNotFound, "POC not found", err)
	case stderrors.Is(err, userstore.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, MsgUserNotFound, err)
	case stderrors.Is(err, profilestore.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "Profile not found", err)
	case stderrors.Is(err, brandstore.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "Brand not found", err)
	case stderrors.Is(err, billingstore.ErrNotFound), stderrors.Is(err, billinglinks.ErrBillingNotFound):
		return apperr.Wrap(apperr.KindNotFound, "Billing details not found", err)
	case stderrors.Is(err, billinglinks.ErrNoLink):
		return apperr.Wrap(apperr.KindNotFound, "No billing details associated", err)
	case stderrors.Is(err, billinglinks.ErrDanglingLink):
		return apperr.Wrap(apperr.KindNotFound, "Associated billing details not found", err)

	case stderrors.Is(err, models.ErrNotModified):
		return apperr.Wrap(apperr.KindConflict, MsgNoChanges, err)
	case stderrors.Is(err, userstore.ErrDuplicateEmail):
		return apperr.Wrap(apperr.KindConflict, "Email already registered", err)
	case stderrors.Is(err, userstore.ErrConcurrentUpdate), stderrors.Is(err, billingstore.ErrConcurrentUpdate):
		return apperr.Wrap(apperr.KindConflict, "Record was modified by another request; retry", err)

	case stderrors.Is(err, paging.ErrInvalidWindow):
		return apperr.Wrap(apperr.KindUnprocessable, err.Error(), err)
	}
	return apperr.Internal(err)
}

// Write sends the response for err. Internal failures are logged with the
// request id and answered with a fixed message.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	ae := Classify(err)
	switch ae.Kind {
	case apperr.KindInternal:
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, apperr.MsgInternal)
		return
	case apperr.KindConflict:
		if stderrors.Is(err, billingstore.ErrConcurrentUpdate) || stderrors.Is(err, userstore.ErrConcurrentUpdate) {
			e.Metrics.Conflict()
		}
	}
	respond.Error(w, ae.Kind.Status(), ae.Msg)
}

// Forbidden writes the generic authorization failure.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter) {
	respond.Error(w, http.StatusForbidden, apperr.MsgNotPermitted)
}
