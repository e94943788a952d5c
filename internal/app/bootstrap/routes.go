// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/libraryhub/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/libraryhub/internal/app/features/health"
	recordsfeature "github.com/dalemusser/libraryhub/internal/app/features/records"
	reportsfeature "github.com/dalemusser/libraryhub/internal/app/features/reports"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
	"github.com/dalemusser/libraryhub/internal/app/system/telemetry"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// LibraryHub mounts the dashboard, the record views its tiles navigate to,
// the summary report, health, and (optionally) Prometheus metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	var reg *prometheus.Registry
	if appCfg.MetricsEnabled {
		reg = telemetry.NewRegistry()
	}
	return newRouter(records.NewMongo(deps.LibraryMongoDatabase), deps.LibraryMongoClient, appCfg, reg, logger)
}

// newRouter wires every feature against store. reg may be nil to disable
// metrics.
func newRouter(store records.Store, db healthfeature.Pinger, appCfg AppConfig, reg *prometheus.Registry, logger *zap.Logger) (http.Handler, error) {
	formats, err := dashboardfeature.NewFormats(appCfg.DefaultLocale, appCfg.CurrencyGlyph)
	if err != nil {
		logger.Error("dashboard formats init failed", zap.Error(err))
		return nil, err
	}

	var obs dashboardfeature.Observer
	if reg != nil {
		obs = telemetry.NewDashboard(reg)
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(db, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if reg != nil {
		r.Handle("/metrics", telemetry.Handler(reg))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	dashboardHandler := dashboardfeature.NewHandler(store, formats, obs, logger)
	dashboardHandler.Base = "/dashboard"
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Navigation targets for dashboard tiles
	recordsHandler := recordsfeature.NewHandler(store, logger)
	r.Mount(navigation.RecordsPath, recordsfeature.Routes(recordsHandler))

	reportsHandler := reportsfeature.NewHandler(store, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	return r, nil
}
