// internal/app/features/reports/handler.go
package reports

import (
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"go.uber.org/zap"
)

// Handler owns the library summary report handlers (JSON + CSV export).
//
// It follows the same pattern as other features: a thin struct wrapping the
// shared record store and logger, constructed once at startup in bootstrap
// and passed into Routes().
type Handler struct {
	Store records.Store
	Log   *zap.Logger
}

// NewHandler constructs a reports Handler bound to the given store and logger.
func NewHandler(store records.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}
