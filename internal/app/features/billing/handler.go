// internal/app/features/billing/handler.go
package billing

import (
	"net/http"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	billingstore "github.com/dalemusser/influencehub/internal/app/store/billing"
	"github.com/dalemusser/influencehub/internal/app/system/auditlog"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgNotFound        = "Billing details not found"
	msgAccountNotFound = "Bank account not found"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
}

// NewHandler constructs the billing feature handler. audit and m may be nil.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
	}
}

// mutate runs fn against the billing record named by {id} as one versioned
// write. ok is false when an error response has already been sent.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op string, fn billingstore.MutateFunc) (id primitive.ObjectID, changed, ok bool) {
	id, err := formutil.ObjectID(r, "id", msgNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return id, false, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing."+op)
	defer cancel()

	_, changed, err = billingstore.New(h.DB).Mutate(ctx, id, fn)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return id, false, false
	}
	if changed {
		h.Metrics.BillingChanged(op)
	}
	return id, changed, true
}

func accountID(r *http.Request) (primitive.ObjectID, error) {
	return formutil.ObjectID(r, "account_id", msgAccountNotFound)
}
