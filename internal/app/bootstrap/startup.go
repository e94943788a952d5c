// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/libraryhub/internal/app/store/borrowings"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	workersMu sync.Mutex
	sweeper   *workers.OverdueSweep
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It starts
// the overdue sweep worker unless its interval is zero.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("timeouts configured",
		zap.Duration("ping", timeouts.Ping()),
		zap.Duration("lookup", timeouts.Lookup()),
		zap.Duration("sweep", timeouts.Sweep()))

	if appCfg.OverdueSweepInterval <= 0 {
		logger.Info("overdue sweep worker disabled")
		return nil
	}

	workersMu.Lock()
	defer workersMu.Unlock()
	sweeper = workers.NewOverdueSweep(borrowings.New(deps.LibraryMongoDatabase), logger, appCfg.OverdueSweepInterval)
	sweeper.Start()
	return nil
}

func stopWorkers() {
	workersMu.Lock()
	defer workersMu.Unlock()
	if sweeper != nil {
		sweeper.Stop()
		sweeper = nil
	}
}
