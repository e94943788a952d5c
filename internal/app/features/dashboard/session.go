// internal/app/features/dashboard/session.go
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by a session after Close.
var ErrClosed = errors.New("dashboard: session closed")

// Model is the display model of one dashboard. It is replaced as a whole on
// each load and never edited in place.
type Model struct {
	Today    time.Time
	LoadedAt time.Time

	Summary                dashboardqueries.Summary
	TopBooks               []dashboardqueries.RankedItem
	RecentBorrowings       []dashboardqueries.RecentActivityRow
	CategoryDistribution   []dashboardqueries.RankedItem
	MembershipDistribution []dashboardqueries.RankedItem
	MonthlyTrends          []dashboardqueries.TrendPoint
}

// Session owns the display model of one open dashboard. Create one per view
// with NewSession and Close it when the view goes away; a load that finishes
// after Close is thrown away.
type Session struct {
	ID string

	store records.Store
	nav   navigation.ViewNavigator
	log   *zap.Logger
	now   func() time.Time
	obs   Observer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	model    Model
	inflight int
	ready    bool
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the wall clock used to derive "today".
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithObserver reports load outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewSession creates a dashboard session reading from store and opening
// views through nav. nav may be nil when the session is only loaded.
func NewSession(store records.Store, nav navigation.ViewNavigator, logger *zap.Logger, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:     uuid.NewString(),
		store:  store,
		nav:    nav,
		log:    logger,
		now:    time.Now,
		obs:    nopObserver{},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("dashboard_session", s.ID))
	return s
}

// slice is one independently loaded part of the model.
type slice struct {
	name string
	run  func(ctx context.Context, m *Model, mu *sync.Mutex) error
}

func (s *Session) slices(today time.Time) []slice {
	var out []slice
	for _, metric := range dashboardqueries.Metrics(today) {
		out = append(out, slice{name: metric.Key, run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			v, err := metric.Load(ctx, s.store)
			if err != nil {
				return err
			}
			mu.Lock()
			m.Summary.Set(metric.Key, v)
			mu.Unlock()
			return nil
		}})
	}

	out = append(out,
		slice{name: "topBooks", run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			items, err := dashboardqueries.TopBooks(ctx, s.store, dashboardqueries.DefaultTopBooks)
			if err != nil {
				return err
			}
			mu.Lock()
			m.TopBooks = items
			mu.Unlock()
			return nil
		}},
		slice{name: "recentBorrowings", run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			rows, err := dashboardqueries.RecentBorrowings(ctx, s.store, dashboardqueries.DefaultRecent)
			if err != nil {
				return err
			}
			mu.Lock()
			m.RecentBorrowings = rows
			mu.Unlock()
			return nil
		}},
		slice{name: "categoryDistribution", run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			items, err := dashboardqueries.CategoryDistribution(ctx, s.store, dashboardqueries.DefaultCategories)
			if err != nil {
				return err
			}
			mu.Lock()
			m.CategoryDistribution = items
			mu.Unlock()
			return nil
		}},
		slice{name: "membershipDistribution", run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			items, err := dashboardqueries.MembershipDistribution(ctx, s.store)
			if err != nil {
				return err
			}
			mu.Lock()
			m.MembershipDistribution = items
			mu.Unlock()
			return nil
		}},
		slice{name: "monthlyTrends", run: func(ctx context.Context, m *Model, mu *sync.Mutex) error {
			points, err := dashboardqueries.MonthlyTrends(ctx, s.store, dashboardqueries.DefaultTrendMonths)
			if err != nil {
				return err
			}
			mu.Lock()
			m.MonthlyTrends = points
			mu.Unlock()
			return nil
		}},
	)
	return out
}

// LoadAll runs every dashboard query concurrently and waits for all of them.
// A failing query is logged and its part of the model keeps the previous
// value; the others are unaffected. The new model replaces the old one in a
// single step once every query has settled. The returned error combines the
// individual failures and is nil when all succeeded.
//
// LoadAll returns ErrClosed, and changes nothing, when the session is closed
// before or during the load.
func (s *Session) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next := s.model
	s.inflight++
	s.mu.Unlock()

	start := s.now()
	today := dashboardqueries.Today(start)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	var (
		g      errgroup.Group
		nextMu sync.Mutex
		errMu  sync.Mutex
		errs   error
		failed int
	)
	for _, sl := range s.slices(today) {
		g.Go(func() error {
			if err := sl.run(loadCtx, &next, &nextMu); err != nil {
				errMu.Lock()
				errs = multierr.Append(errs, err)
				failed++
				errMu.Unlock()
				if s.ctx.Err() == nil {
					s.log.Warn("dashboard slice failed", zap.String("slice", sl.name), zap.Error(err))
					s.obs.SliceFailed(sl.name)
				}
			}
			// Failures are collected above so one slice never cancels the rest.
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.closed {
		s.obs.LoadDiscarded()
		s.log.Debug("dashboard load discarded after close")
		return ErrClosed
	}

	next.Today = today
	next.LoadedAt = s.now()
	s.model = next
	s.ready = true

	elapsed := next.LoadedAt.Sub(start)
	s.obs.ObserveLoad(elapsed, failed)
	s.log.Debug("dashboard loaded",
		zap.Duration("elapsed", elapsed),
		zap.Int("failed_slices", failed))
	return errs
}

// Snapshot returns the current model and whether a load has completed.
func (s *Session) Snapshot() (Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.ready
}

// Loading reports whether a load is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Close cancels in-flight queries and marks the session closed. It is safe
// to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Errors splits a LoadAll error into its individual slice failures.
func Errors(err error) []error {
	return multierr.Errors(err)
}
