// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard feature under whatever mount point
// the top-level router chooses (e.g., "/").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	r.Get("/tiles", h.ServeTiles)
	r.Get("/open/{tile}", h.ServeOpen)
	r.Get("/books/{id}", h.ServeBook)
	r.Get("/borrowings/{id}", h.ServeBorrowing)
	return r
}
