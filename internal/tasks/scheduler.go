package tasks

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mdblog/internal/logger"
	"mdblog/internal/models"
	"mdblog/internal/repository"
)

// DefaultFlushInterval is used when the scheduler is given no interval.
const DefaultFlushInterval = 60 * time.Second

// Counter is the view table the scheduler restores and flushes.
type Counter interface {
	Snapshot() map[string]int64
	Restore(records []models.PostHit) int
}

// HitStore is the durable side of the view counts.
type HitStore interface {
	ScanAll() ([]models.PostHit, error)
	UpsertAll(counts map[string]int64) (written, failed int)
}

// Observer is told about restores and flushes, typically to export metrics.
type Observer interface {
	ObserveRestore(restored int)
	ObserveFlush(written, failed int, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRestore(int)                   {}
func (nopObserver) ObserveFlush(int, int, time.Duration) {}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver reports restores and flushes to o.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// Scheduler restores view counts at startup, writes them back on a fixed
// interval and once more when stopped.
type Scheduler struct {
	cron     *cron.Cron
	counter  Counter
	store    HitStore
	interval time.Duration
	log      logger.Logger
	observer Observer

	flushMu sync.Mutex

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewScheduler(counter Counter, store HitStore, interval time.Duration, log logger.Logger, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	cl := cronLogger{log: log}
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		counter:  counter,
		store:    store,
		interval: interval,
		log:      log,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// restore loads every persisted record into the counter. A read failure is
// returned as a *repository.PersistenceReadError. Only Start calls it, so the
// records are added exactly once.
func (s *Scheduler) restore() error {
	records, err := s.store.ScanAll()
	if err != nil {
		return err
	}
	restored := s.counter.Restore(records)
	s.observer.ObserveRestore(restored)
	s.log.Info("Restored view counts",
		logger.Int("records", len(records)),
		logger.Int("restored", restored),
		logger.Int("skipped", len(records)-restored),
	)
	return nil
}

// Start restores the counter and then schedules the periodic flush. The
// flush job is not registered when restoring fails. A scheduler cannot be
// started again once stopped.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errors.New("scheduler already stopped")
	}
	if s.started {
		return errors.New("scheduler already started")
	}
	if err := s.restore(); err != nil {
		return err
	}

	schedule := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(schedule, recoveryWrapper(s.log, func() { s.Flush() })); err != nil {
		return fmt.Errorf("schedule view flush %q: %w", schedule, err)
	}
	s.cron.Start()
	s.started = true

	s.log.Info("View flush scheduled", logger.Duration("interval", s.interval))
	return nil
}

// Flush writes a snapshot of the counter to the store. Individual write
// failures are logged by the store and counted in failed.
func (s *Scheduler) Flush() (written, failed int) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	snapshot := s.counter.Snapshot()
	if len(snapshot) == 0 {
		return 0, 0
	}

	start := time.Now()
	written, failed = s.store.UpsertAll(snapshot)
	took := time.Since(start)
	s.observer.ObserveFlush(written, failed, took)

	fields := []logger.Field{
		logger.Int("written", written),
		logger.Int("failed", failed),
		logger.Duration("took", took),
	}
	if failed > 0 {
		s.log.Warn("View flush finished with failures", fields...)
	} else {
		s.log.Debug("View flush finished", fields...)
	}
	return written, failed
}

// Stop halts the schedule, waits for a running flush and then flushes one
// last time. Calling Stop more than once is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	if s.started {
		<-s.cron.Stop().Done()
	}
	written, failed := s.Flush()
	s.log.Info("Final view flush done",
		logger.Int("written", written),
		logger.Int("failed", failed),
	)
}

func recoveryWrapper(log logger.Logger, job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Scheduled job panicked",
					logger.Any("panic", r),
					logger.String("stack", string(debug.Stack())),
				)
			}
		}()
		job()
	}
}

// cronLogger routes cron's own messages through the application logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(keysAndValues []any) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, logger.Any(key, keysAndValues[i+1]))
	}
	return fields
}

var _ HitStore = (*repository.HitRepository)(nil)
