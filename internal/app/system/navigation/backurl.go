package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/dashboard").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks the "return" query parameter, validates that the URL is local
// (not an open redirect) and, when set, that it carries AllowedPrefix.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret != "" && (opts.AllowedPrefix == "" || strings.HasPrefix(ret, opts.AllowedPrefix)) {
		return ret
	}
	return opts.Fallback
}

// DashboardBackURL sends record views back to the dashboard by default.
var DashboardBackURL = BackURLOptions{
	Fallback: "/",
}
