// internal/app/features/auditevents/types.go
package auditevents

import (
	"time"

	"github.com/dalemusser/influencehub/internal/app/store/audit"
)

type eventView struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	TargetKind    string            `json:"target_kind,omitempty"`
	TargetID      string            `json:"target_id,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toView(e audit.Event) eventView {
	v := eventView{
		ID:            e.ID.Hex(),
		CreatedAt:     e.CreatedAt,
		Category:      e.Category,
		EventType:     e.EventType,
		TargetKind:    e.TargetKind,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		v.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		v.ActorID = e.ActorID.Hex()
	}
	if e.TargetID != nil {
		v.TargetID = e.TargetID.Hex()
	}
	return v
}

func toViews(events []audit.Event) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toView(e))
	}
	return out
}

type listResponse struct {
	Total  int64       `json:"total"`
	Events []eventView `json:"events"`
}
