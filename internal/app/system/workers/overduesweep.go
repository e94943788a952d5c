// internal/app/system/workers/overduesweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// OverdueMarker moves borrowed records past their due date to overdue.
// *borrowings.Store satisfies it.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// OverdueSweep is a background worker that periodically marks borrowings
// overdue so the overdue tile reflects the calendar without manual edits.
type OverdueSweep struct {
	marker   OverdueMarker
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewOverdueSweep creates a new overdue sweep worker.
//
// Parameters:
//   - marker: the borrowings store (or any OverdueMarker)
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 1 hour)
func NewOverdueSweep(marker OverdueMarker, logger *zap.Logger, interval time.Duration) *OverdueSweep {
	return &OverdueSweep{
		marker:   marker,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately, then begins the background loop.
func (w *OverdueSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("overdue sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *OverdueSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("overdue sweep worker stopped")
}

func (w *OverdueSweep) run() {
	defer w.wg.Done()

	w.Sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep performs a single pass and returns the number of records marked.
func (w *OverdueSweep) Sweep() int64 {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Sweep(), w.log, "overdue sweep")
	defer cancel()

	today := dashboardqueries.Today(w.now())
	count, err := w.marker.MarkOverdue(ctx, today)
	if err != nil {
		w.log.Error("failed to mark overdue borrowings", zap.Error(err))
		return 0
	}

	if count > 0 {
		w.log.Info("marked borrowings overdue",
			zap.Int64("count", count),
			zap.Time("today", today))
	}
	return count
}
