// internal/app/features/auditevents/list.go
package auditevents

import (
	"net/http"
	"time"

	"github.com/dalemusser/influencehub/internal/app/store/audit"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/formutil"
	"github.com/dalemusser/influencehub/internal/app/system/normalize"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseFilter(r *http.Request, win paging.Window) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		EventType: normalize.QueryParam(query.Get(r, "event_type")),
		Limit:     win.Limit,
		Offset:    win.Skip,
	}

	switch c := normalize.Filter(query.Get(r, "category")); c {
	case "", audit.CategoryAuth, audit.CategoryAdmin:
		f.Category = c
	default:
		return f, apperr.Unprocessable("category must be one of: auth, admin.")
	}

	if v := normalize.QueryParam(query.Get(r, "actor_id")); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return f, apperr.Unprocessable("actor_id must be a valid id.")
		}
		f.ActorID = &id
	}
	if v := normalize.QueryParam(query.Get(r, "user_id")); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return f, apperr.Unprocessable("user_id must be a valid id.")
		}
		f.UserID = &id
	}

	if v := normalize.QueryParam(query.Get(r, "since")); v != "" {
		since, err := parseSince(v)
		if err != nil {
			return f, apperr.Unprocessable("since must be a date (YYYY-MM-DD) or an RFC 3339 timestamp.")
		}
		f.Since = &since
	}
	return f, nil
}

func parseSince(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", v)
}

// ServeList returns matching audit events, newest first, with the total
// match count.
// GET /api/audit-events
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	f, err := parseFilter(r, win)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit.list")
	defer cancel()

	store := audit.New(h.DB)
	total, err := store.Count(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	events, err := store.Query(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Total: total, Events: toViews(events)})
}

// ServeActor returns the most recent actions one user performed.
// GET /api/audit-events/actors/{id}
func (h *Handler) ServeActor(w http.ResponseWriter, r *http.Request) {
	id, err := formutil.ObjectID(r, "id", "User not found")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	win, err := paging.Parse(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit.actor")
	defer cancel()

	events, err := audit.New(h.DB).GetByActor(ctx, id, win.Limit)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toViews(events))
}
