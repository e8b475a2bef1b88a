// internal/app/features/billingconnections/handler.go
package billingconnections

import (
	"errors"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	"github.com/dalemusser/influencehub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/influencehub/internal/app/store/audit"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/auditlog"
	"github.com/dalemusser/influencehub/internal/app/system/authz"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgBillingNotFound = "Billing details not found"

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

func notFound(kind billinglinks.Kind) string {
	return kind.Title() + " not found"
}

// linkedBilling is the read response: {profile_id, profile_username,
// billing_details} for profiles and {brand_id, brand_name, billing_details}
// for brands.
func linkedBilling(l billinglinks.Link, b models.BillingDetails) map[string]any {
	nameKey := "profile_username"
	if l.Kind == billinglinks.KindBrand {
		nameKey = "brand_name"
	}
	return map[string]any{
		string(l.Kind) + "_id": l.EntityID.Hex(),
		nameKey:                l.Name,
		"billing_details":      b,
	}
}

// entityErr names the missing entity by kind.
func entityErr(kind billinglinks.Kind, err error) error {
	if errors.Is(err, billinglinks.ErrEntityNotFound) {
		return apperr.Wrap(apperr.KindNotFound, notFound(kind), err)
	}
	return err
}

// ServeLinkedBilling returns the billing record an entity links to, wrapped
// with the entity's id and name. Data operators may only read links of
// entities they created.
// GET /api/billing-connections/{kind}-billing/{id}
func (h *Handler) ServeLinkedBilling(kind billinglinks.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formutil.ObjectID(r, "id", notFound(kind))
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing_links.get")
		defer cancel()

		l, err := billinglinks.Lookup(ctx, h.DB, kind, id)
		if err != nil {
			h.ErrLog.Write(w, r, entityErr(kind, err))
			return
		}
		if !recordpolicy.CanReadBillingLink(r, l.CreatedBy) {
			h.ErrLog.Forbidden(w)
			return
		}
		b, err := billinglinks.Billing(ctx, h.DB, l)
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, linkedBilling(l, b))
	}
}

// HandleConnect links an entity to a billing record, replacing any earlier
// link.
// PATCH /api/billing-connections/connect-{kind}-billing/{id}/{billing_id}
func (h *Handler) HandleConnect(kind billinglinks.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formutil.ObjectID(r, "id", notFound(kind))
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		billingID, err := formutil.ObjectID(r, "billing_id", msgBillingNotFound)
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing_links.connect")
		defer cancel()

		changed, err := billinglinks.Connect(ctx, h.DB, kind, id, billingID)
		if err != nil {
			h.ErrLog.Write(w, r, entityErr(kind, err))
			return
		}
		if !changed {
			respond.OK(w, "No changes made")
			return
		}

		h.record(r, audit.EventBillingConnected, kind, id, &billingID)
		respond.OK(w, fmt.Sprintf("Successfully connected %s %s with billing details %s", kind, id.Hex(), billingID.Hex()))
	}
}

// HandleDisconnect clears an entity's link. Disconnecting an entity that has
// no link succeeds without a change.
// PATCH /api/billing-connections/disconnect-{kind}-billing/{id}
func (h *Handler) HandleDisconnect(kind billinglinks.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formutil.ObjectID(r, "id", notFound(kind))
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "billing_links.disconnect")
		defer cancel()

		changed, err := billinglinks.Disconnect(ctx, h.DB, kind, id)
		if err != nil {
			h.ErrLog.Write(w, r, entityErr(kind, err))
			return
		}
		if !changed {
			respond.OK(w, fmt.Sprintf("%s has no billing details to disconnect", kind.Title()))
			return
		}

		h.record(r, audit.EventBillingDisconnect, kind, id, nil)
		respond.OK(w, fmt.Sprintf("Successfully disconnected billing details from %s %s", kind, id.Hex()))
	}
}

// ServeLinkedEntities lists every profile and brand linked to one billing
// record.
// GET /api/billing-connections/billing-users/{billing_id}
func (h *Handler) ServeLinkedEntities(w http.ResponseWriter, r *http.Request) {
	billingID, err := formutil.ObjectID(r, "billing_id", msgBillingNotFound)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "billing_links.reverse")
	defer cancel()

	linked, err := billinglinks.ListLinkedEntities(ctx, h.DB, billingID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, linked)
}

func (h *Handler) record(r *http.Request, event string, kind billinglinks.Kind, id primitive.ObjectID, billingID *primitive.ObjectID) {
	_, _, actor, _ := authz.UserCtx(r)
	var details map[string]string
	if billingID != nil {
		details = map[string]string{"billing_details_id": billingID.Hex()}
	}
	h.AuditLog.RecordChanged(r.Context(), r, actor, event, string(kind), id, details)
}
