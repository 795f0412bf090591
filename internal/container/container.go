// Package container wires the application together: database, repositories,
// mailer, services and background workers, with ordered initialization and
// reverse-order teardown.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/application/service"
	"github.com/arjunpat/billflow/internal/config"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
	"github.com/arjunpat/billflow/internal/infrastructure/email"
	"github.com/arjunpat/billflow/internal/infrastructure/persistence/repository"
	"github.com/arjunpat/billflow/internal/infrastructure/worker"
	"github.com/arjunpat/billflow/pkg/database"
)

// Container manages all application dependencies and lifecycle
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db           *database.DB
	repositories *RepositoryBundle
	mailer       port.NotificationDispatcher

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access
type RepositoryBundle struct {
	Invoice     port.InvoiceRepository
	Preference  port.PreferenceRepository
	ReminderLog port.ReminderLogRepository
}

// ServiceBundle groups all application services
type ServiceBundle struct {
	Invoice    service.InvoiceService
	Preference service.PreferenceService
	Reminder   service.ReminderService
	Export     service.ExportService
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database, migrations and repositories
// 2. SMTP mailer
// 3. Application services
// 4. Background workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	c.initMailer()
	c.logger.Info("Mailer initialized")

	c.initServices()
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

func (c *Container) initDatabase() error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.Run(c.config.Database.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.repositories = &RepositoryBundle{
		Invoice:     repository.NewInvoiceRepository(db, c.logger),
		Preference:  repository.NewPreferenceRepository(db, c.logger),
		ReminderLog: repository.NewReminderLogRepository(db, c.logger),
	}

	return nil
}

func (c *Container) initMailer() {
	c.mailer = email.NewMailer(c.config.SMTP, c.logger)
}

func (c *Container) initServices() {
	svcLogger := &zapLoggerAdapter{logger: c.logger}
	rules := lifecycle.DefaultRules()

	invoiceService := service.NewInvoiceService(
		c.repositories.Invoice,
		c.repositories.Preference,
		c.mailer,
		rules,
		svcLogger,
	)

	c.services = &ServiceBundle{
		Invoice:    invoiceService,
		Preference: service.NewPreferenceService(c.repositories.Preference, svcLogger),
		Reminder: service.NewReminderService(
			c.repositories.Invoice,
			c.repositories.Preference,
			c.repositories.ReminderLog,
			c.mailer,
			invoiceService,
			svcLogger,
		),
		Export: service.NewExportService(c.repositories.Invoice, svcLogger),
	}
}

func (c *Container) initWorkers() error {
	c.workers = worker.NewManager(c.logger)

	if c.config.Scheduler.Enabled {
		reminderWorker := worker.NewReminderWorker(worker.ReminderWorkerConfig{
			SweepInterval: c.config.Scheduler.SweepInterval,
		}, c.services.Reminder, c.logger)
		c.workers.Register(reminderWorker)
	}

	return c.workers.StartAll(c.ctx)
}

// Close gracefully shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Services returns all application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Repositories returns all repositories
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// ServiceLogger returns a logger satisfying the application Logger interfaces
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// zapLoggerAdapter adapts zap.Logger to the application Logger interfaces
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
