// internal/app/features/records/routes.go
package records

import (
	"github.com/go-chi/chi/v5"
)

// Routes wires the record views under the mount point chosen by the
// top-level router (navigation.RecordsPath).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{collection}", h.ServeList)
	r.Get("/{collection}/{id}", h.ServeRecord)
	return r
}
