package bootstrap

import (
	"context"
	"fmt"

	"github.com/lumastream/mediagate/common/audit"
	"github.com/lumastream/mediagate/common/clients"
	"github.com/lumastream/mediagate/common/config"
	"github.com/lumastream/mediagate/common/db"
	"github.com/lumastream/mediagate/common/logger"
	"github.com/lumastream/mediagate/common/telemetry"
)

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// 3. Initialize object store
	if !options.skipStore {
		store, cleanup, err := clients.NewObjectStore(components.Config, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object store: %w", err)
		}
		components.Store = store
		components.addCleanup(func() error {
			components.Logger.Info("closing object store")
			return cleanup()
		})
	}

	// 4. Initialize audit recorders (and the database sink if enabled)
	recorders := audit.Fanout{audit.NewLogRecorder(components.Logger)}

	if components.Config.Audit.PersistToDB {
		components.Logger.Info("connecting to audit database")
		components.DB, err = db.New(ctx, components.Config, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing database connection")
			components.DB.Close()
			return nil
		})

		initHook := options.dbInitHook
		if initHook == nil {
			initHook = func(d *db.DB) error {
				return audit.EnsureSchema(ctx, d)
			}
		}
		if err := initHook(components.DB); err != nil {
			components.Shutdown(ctx)
			return nil, fmt.Errorf("database init hook failed: %w", err)
		}

		recorders = append(recorders, audit.NewPostgresRecorder(components.DB, components.Logger))
	}
	components.Audit = recorders

	// 5. Initialize telemetry
	if !options.skipTelemetry && components.Config.Telemetry.EnablePprof {
		components.Logger.Info("initializing telemetry")
		components.Telemetry = telemetry.New(
			components.Config.Telemetry.PprofPort,
			components.Logger,
		)

		if err := components.Telemetry.Start(ctx); err != nil {
			components.Logger.Warn("failed to start telemetry", "error", err)
			// Don't fail startup if telemetry fails
		}
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"store", components.Store != nil,
		"db", components.DB != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// MustSetup is like Setup but panics on error
// Useful for services that can't recover from initialization failure
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
