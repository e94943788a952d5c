// internal/app/features/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	// Base is the mount path, prefixed to links in the rendered view.
	Base string

	Store    records.Store
	Formats  *Formats
	Observer Observer
	Log      *zap.Logger
}

func NewHandler(store records.Store, formats *Formats, obs Observer, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    store,
		Formats:  formats,
		Observer: obs,
		Log:      logger,
	}
}

func (h *Handler) session(nav navigation.ViewNavigator) *Session {
	return NewSession(h.Store, nav, h.Log, WithObserver(h.Observer))
}

// ServeDashboard handles GET /. Each request is one dashboard view: a
// session is created, loaded, rendered and closed. Slice failures leave
// their part of the model empty and are only logged.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.session(nil)
	defer sess.Close()

	h.render(w, r, sess)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *Session) {
	if err := sess.LoadAll(r.Context()); err != nil {
		if errors.Is(err, ErrClosed) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "dashboard closed"})
			return
		}
		h.Log.Info("dashboard served with partial data",
			zap.Int("failed_slices", len(Errors(err))))
	}

	writeJSON(w, http.StatusOK, sess.View(h.Formats.Resolve(r), h.Base))
}

// ServeOpen handles GET /open/{tile} by redirecting to the tile's record view.
func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	sess := h.session(navigation.NewRedirector(w, r))
	defer sess.Close()

	name := strings.TrimSpace(chi.URLParam(r, "tile"))
	if err := sess.OpenTile(r.Context(), name); err != nil {
		if errors.Is(err, ErrUnknownTile) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown tile"})
			return
		}
		h.Log.Error("open tile failed", zap.String("tile", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "could not open view"})
	}
}

// ServeBook handles GET /books/{id} by redirecting to the book's form.
func (h *Handler) ServeBook(w http.ResponseWriter, r *http.Request) {
	h.serveRecord(w, r, func(s *Session, id string) error { return s.OpenBook(r.Context(), id) })
}

// ServeBorrowing handles GET /borrowings/{id} by redirecting to the
// borrowing's form.
func (h *Handler) ServeBorrowing(w http.ResponseWriter, r *http.Request) {
	h.serveRecord(w, r, func(s *Session, id string) error { return s.OpenBorrowing(r.Context(), id) })
}

func (h *Handler) serveRecord(w http.ResponseWriter, r *http.Request, open func(*Session, string) error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad id"})
		return
	}

	sess := h.session(navigation.NewRedirector(w, r))
	defer sess.Close()

	if err := open(sess, id); err != nil {
		h.Log.Error("open record failed", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "could not open view"})
	}
}

// ServeTiles handles GET /tiles: the tile list with the record view each
// tile opens, without loading any counts.
func (h *Handler) ServeTiles(w http.ResponseWriter, r *http.Request) {
	sess := h.session(nil)
	defer sess.Close()

	type tileLink struct {
		Name  string `json:"name"`
		Label string `json:"label"`
		View  string `json:"view"`
	}
	out := make([]tileLink, 0, len(Tiles))
	for _, t := range Tiles {
		a, err := sess.Action(t.Name)
		if err != nil {
			continue
		}
		out = append(out, tileLink{Name: t.Name, Label: t.Label, View: actionURL(a)})
	}
	writeJSON(w, http.StatusOK, out)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
