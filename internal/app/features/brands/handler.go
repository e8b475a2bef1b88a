// internal/app/features/brands/handler.go
package brands

import (
	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	"github.com/dalemusser/influencehub/internal/app/system/auditlog"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgNotFound    = "Brand not found"
	msgPOCNotFound = "POC not found"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
	}
}
