package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arjunpat/billflow/internal/application/service"
)

// ReminderWorkerConfig holds configuration for the reminder sweep worker
type ReminderWorkerConfig struct {
	SweepInterval time.Duration
	SweepTimeout  time.Duration
}

// DefaultReminderWorkerConfig returns default configuration
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		SweepInterval: 24 * time.Hour,
		SweepTimeout:  10 * time.Minute,
	}
}

// ReminderWorker triggers the reminder sweep on a fixed interval. The sweep
// itself is idempotent per calendar day, so a short interval only costs
// ledger lookups, never duplicate mail.
type ReminderWorker struct {
	config    ReminderWorkerConfig
	reminders service.ReminderService
	logger    *zap.Logger

	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	lastSweep time.Time
	lastError error
}

// NewReminderWorker creates a new reminder sweep worker
func NewReminderWorker(config ReminderWorkerConfig, reminders service.ReminderService, logger *zap.Logger) *ReminderWorker {
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultReminderWorkerConfig().SweepInterval
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = DefaultReminderWorkerConfig().SweepTimeout
	}

	return &ReminderWorker{
		config:    config,
		reminders: reminders,
		logger:    logger,
	}
}

// Start begins the sweep loop. The first sweep runs immediately so a restart
// never pushes reminders past their day.
func (w *ReminderWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("reminder worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("ReminderWorker started",
		zap.Duration("sweep_interval", w.config.SweepInterval))

	go w.sweepLoop()

	return nil
}

// Stop gracefully terminates the worker
func (w *ReminderWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("ReminderWorker stopped")
	return nil
}

// Name returns the worker name for identification
func (w *ReminderWorker) Name() string {
	return "ReminderWorker"
}

func (w *ReminderWorker) sweepLoop() {
	w.runSweep()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Sweep loop context cancelled")
			return

		case <-ticker.C:
			w.runSweep()
		}
	}
}

func (w *ReminderWorker) runSweep() {
	ctx, cancel := context.WithTimeout(w.ctx, w.config.SweepTimeout)
	defer cancel()

	summary, err := w.reminders.RunSweep(ctx, time.Now())

	w.mu.Lock()
	w.lastSweep = time.Now()
	w.lastError = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	w.logger.Info("Reminder sweep finished",
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("marked_overdue", summary.MarkedOverdue))
}

// LastSweep returns the time of the most recent sweep attempt
func (w *ReminderWorker) LastSweep() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastSweep
}
