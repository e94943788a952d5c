// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.ServeSummary)
	r.Get("/summary.csv", h.ServeSummaryCSV)
	return r
}
