// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/features/dashboard"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LibraryHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, default_locale, etc.
//   - Environment variables: LIBRARYHUB_MONGO_URI, LIBRARYHUB_DEFAULT_LOCALE, etc.
//   - Command-line flags: --mongo_uri, --default_locale, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "library", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Display formatting
	{Name: "default_locale", Default: "en", Desc: "Fallback locale for dates (en, bn, fr, de)"},
	{Name: "currency_glyph", Default: dashboard.DefaultCurrencyGlyph, Desc: "Currency glyph prefixed to fine amounts"},

	// Background work
	{Name: "overdue_sweep_interval", Default: "1h", Desc: "How often borrowed records past due are marked overdue (0 disables)"},

	// Observability
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},

	// Timeouts
	{Name: "lookup_timeout", Default: "10s", Desc: "Timeout for record views and reports"},
	{Name: "sweep_timeout", Default: "30s", Desc: "Timeout for one overdue sweep pass"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LIBRARYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LIBRARYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DefaultLocale: appValues.String("default_locale"),
		CurrencyGlyph: appValues.String("currency_glyph"),

		OverdueSweepInterval: appValues.Duration("overdue_sweep_interval", time.Hour),
		MetricsEnabled:       appValues.Bool("metrics_enabled"),

		LookupTimeout: appValues.Duration("lookup_timeout", timeouts.DefaultLookup),
		SweepTimeout:  appValues.Duration("sweep_timeout", timeouts.DefaultSweep),
	}

	timeouts.Configure(timeouts.Config{
		Lookup: appCfg.LookupTimeout,
		Sweep:  appCfg.SweepTimeout,
	})

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// LibraryHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects a default
// locale the dashboard cannot format dates for.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg)
}

func validateApp(appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if _, err := dashboard.NewFormats(appCfg.DefaultLocale, appCfg.CurrencyGlyph); err != nil {
		return fmt.Errorf("default_locale: %w", err)
	}
	if appCfg.OverdueSweepInterval < 0 {
		return fmt.Errorf("overdue_sweep_interval must not be negative (got %s)", appCfg.OverdueSweepInterval)
	}
	return nil
}
