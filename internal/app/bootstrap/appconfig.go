// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries what the library dashboard needs on top of that.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Display formatting
	DefaultLocale string // used when neither ?locale= nor Accept-Language matches
	CurrencyGlyph string // prefix for fine amounts

	// Background work
	OverdueSweepInterval time.Duration // 0 disables the overdue sweep worker

	// Observability
	MetricsEnabled bool // expose /metrics and record dashboard load metrics

	// Timeouts for record views, reports, and worker passes
	LookupTimeout time.Duration
	SweepTimeout  time.Duration
}
