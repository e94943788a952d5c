// Package navigation opens filtered record views. A dashboard tile or row
// produces an Action; a ViewNavigator turns it into whatever "opening a view"
// means for the caller (an HTTP redirect in the server, a recorded call in
// tests).
package navigation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// ViewMode is a record view layout.
type ViewMode string

const (
	Kanban ViewMode = "kanban"
	List   ViewMode = "list"
	Form   ViewMode = "form"
)

// RecordsPath is the mount point of the record views.
const RecordsPath = "/records"

// ErrNoCollection is returned for an Action without a collection.
var ErrNoCollection = errors.New("navigation: action has no collection")

// Action opens a view over Collection. With RecordID set it opens that
// record's form directly and Domain is ignored.
type Action struct {
	Collection string
	Views      []ViewMode
	Domain     filter.Domain
	RecordID   string
}

// URL renders the action as a record view path with its query string.
func (a Action) URL() (string, error) {
	if a.Collection == "" {
		return "", ErrNoCollection
	}
	base := RecordsPath + "/" + url.PathEscape(a.Collection)
	if a.RecordID != "" {
		return urlutil.AddOrSetQueryParams(base+"/"+url.PathEscape(a.RecordID), map[string]string{
			"views": string(Form),
		}), nil
	}

	params := map[string]string{"views": JoinViews(a.Views)}
	if len(a.Domain) > 0 {
		enc, err := a.Domain.Encode()
		if err != nil {
			return "", fmt.Errorf("navigation: %s: %w", a.Collection, err)
		}
		params["domain"] = enc
	}
	return urlutil.AddOrSetQueryParams(base, params), nil
}

// JoinViews renders view modes as a comma-separated list.
func JoinViews(views []ViewMode) string {
	parts := make([]string, len(views))
	for i, v := range views {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

// ParseViews reads a comma-separated view list, dropping unknown modes.
// An empty result falls back to a list view.
func ParseViews(s string) []ViewMode {
	var out []ViewMode
	for _, p := range strings.Split(s, ",") {
		switch v := ViewMode(strings.TrimSpace(p)); v {
		case Kanban, List, Form:
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []ViewMode{List}
	}
	return out
}

// ViewNavigator opens record views.
type ViewNavigator interface {
	Open(ctx context.Context, a Action) error
}

// Redirector opens a view by redirecting the current request to it.
type Redirector struct {
	w http.ResponseWriter
	r *http.Request
}

// NewRedirector returns a navigator bound to one request.
func NewRedirector(w http.ResponseWriter, r *http.Request) *Redirector {
	return &Redirector{w: w, r: r}
}

// Open responds with 303 See Other to the action's URL.
func (rd *Redirector) Open(_ context.Context, a Action) error {
	u, err := a.URL()
	if err != nil {
		return err
	}
	http.Redirect(rd.w, rd.r, u, http.StatusSeeOther)
	return nil
}

// Recorder keeps every opened action. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

// Open records a.
func (rc *Recorder) Open(ctx context.Context, a Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rc.mu.Lock()
	rc.actions = append(rc.actions, a)
	rc.mu.Unlock()
	return nil
}

// Actions returns a copy of the recorded actions in order.
func (rc *Recorder) Actions() []Action {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return append([]Action(nil), rc.actions...)
}

// Last returns the most recently recorded action.
func (rc *Recorder) Last() (Action, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.actions) == 0 {
		return Action{}, false
	}
	return rc.actions[len(rc.actions)-1], true
}
