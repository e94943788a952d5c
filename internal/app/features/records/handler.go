// internal/app/features/records/handler.go
package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	recordstore "github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
	"github.com/dalemusser/libraryhub/internal/app/system/paging"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the filtered record views that dashboard navigation opens.
type Handler struct {
	Store recordstore.Store
	Log   *zap.Logger
}

func NewHandler(store recordstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type listResponse struct {
	Collection string       `json:"collection"`
	Views      []string     `json:"views"`
	Domain     string       `json:"domain,omitempty"`
	Total      int64        `json:"total"`
	Range      paging.Range `json:"range"`
	HasNext    bool         `json:"has_next"`
	Back       string       `json:"back"`
	Records    []bson.M     `json:"records"`
}

type recordResponse struct {
	Collection string   `json:"collection"`
	Views      []string `json:"views"`
	Back       string   `json:"back"`
	Record     bson.M   `json:"record"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ServeList handles GET /records/{collection}?views=&domain=&start=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !recordstore.IsKnown(collection) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown collection"})
		return
	}

	rawDomain := query.Get(r, "domain")
	domain, err := filter.ParseDomain(rawDomain)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad domain"})
		return
	}
	if _, err := domain.BSON(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad domain"})
		return
	}

	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	total, err := h.Store.Count(ctx, collection, domain)
	if err != nil {
		h.serverError(w, "count records", collection, err)
		return
	}
	rows, err := h.Store.ReadMany(ctx, collection, domain, recordstore.ReadOptions{
		Sort:  []recordstore.SortField{{Field: "_id"}},
		Skip:  paging.Skip(start),
		Limit: paging.LimitPlusOne(),
	})
	if err != nil {
		h.serverError(w, "read records", collection, err)
		return
	}
	hasNext := paging.TrimPage(&rows)

	writeJSON(w, http.StatusOK, listResponse{
		Collection: collection,
		Views:      viewNames(navigation.ParseViews(query.Get(r, "views"))),
		Domain:     rawDomain,
		Total:      total,
		Range:      paging.ComputeRange(start, len(rows)),
		HasNext:    hasNext,
		Back:       navigation.SafeBackURL(r, navigation.DashboardBackURL),
		Records:    rows,
	})
}

// ServeRecord handles GET /records/{collection}/{id}.
func (h *Handler) ServeRecord(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !recordstore.IsKnown(collection) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown collection"})
		return
	}
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	rows, err := h.Store.ReadMany(ctx, collection, filter.Domain{
		filter.Where("_id", filter.Eq, id),
	}, recordstore.ReadOptions{Limit: 1})
	if err != nil {
		h.serverError(w, "read record", collection, err)
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "record not found"})
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{
		Collection: collection,
		Views:      []string{string(navigation.Form)},
		Back:       navigation.SafeBackURL(r, navigation.DashboardBackURL),
		Record:     rows[0],
	})
}

func (h *Handler) serverError(w http.ResponseWriter, op, collection string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.Log.Warn("record view timed out", zap.String("op", op), zap.String("collection", collection))
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "timed out"})
		return
	}
	h.Log.Error("record view failed", zap.String("op", op), zap.String("collection", collection), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "database error"})
}

func viewNames(views []navigation.ViewMode) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = string(v)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
