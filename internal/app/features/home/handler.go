package home

import (
	"net/http"

	"github.com/dalemusser/influencehub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler serves the API root.
type Handler struct {
	AppName string
	Log     *zap.Logger
}

func NewHandler(appName string, logger *zap.Logger) *Handler {
	return &Handler{
		AppName: appName,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – welcome                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, "Welcome to "+h.AppName+" API")
}
