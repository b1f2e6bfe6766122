// Package wire provides dependency injection for the rewards application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/rewards/internal/adapters/cli"
	"github.com/example/rewards/internal/adapters/sqlite"
	"github.com/example/rewards/internal/app"
	"github.com/example/rewards/internal/config"
	"github.com/example/rewards/internal/db"
	"github.com/example/rewards/internal/platform/logging"
	platformotel "github.com/example/rewards/internal/platform/otel"
	"github.com/example/rewards/internal/ports/primary"
)

var (
	cfg        *config.Config
	configOnce sync.Once

	governanceService primary.GovernanceService
	epochService      primary.EpochService
	claimService      primary.ClaimService
	assetService      primary.AssetService
	eventService      primary.EventService
	shutdownTracing   func(context.Context) error
	once              sync.Once
)

// Config returns the configuration loaded from the working directory and
// REWARDS_* environment variables.
func Config() *config.Config {
	configOnce.Do(func() {
		dir, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to get working directory: %v", err)
		}
		cfg, err = config.Load(dir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	})
	return cfg
}

// GovernanceService returns the singleton GovernanceService instance.
func GovernanceService() primary.GovernanceService {
	once.Do(initServices)
	return governanceService
}

// EpochService returns the singleton EpochService instance.
func EpochService() primary.EpochService {
	once.Do(initServices)
	return epochService
}

// ClaimService returns the singleton ClaimService instance.
func ClaimService() primary.ClaimService {
	once.Do(initServices)
	return claimService
}

// AssetService returns the singleton AssetService instance.
func AssetService() primary.AssetService {
	once.Do(initServices)
	return assetService
}

// EventService returns the singleton EventService instance.
func EventService() primary.EventService {
	once.Do(initServices)
	return eventService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	logger, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}
	slog.SetDefault(logger)

	shutdownTracing, err = platformotel.Setup(context.Background(), c.OTel)
	if err != nil {
		log.Fatalf("failed to configure tracing: %v", err)
	}

	if c.DBPath != "" {
		db.SetPath(c.DBPath)
	}
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters share one SQLite store so every operation commits atomically
	store := sqlite.NewStore(database)
	clock := app.SystemClock{}
	recorder := app.NewEventRecorder(clock)

	// Create services (primary ports implementation)
	governanceService = app.NewGovernanceService(store, recorder, clock, logger)
	epochService = app.NewEpochService(store, recorder, clock, logger)
	claimService = app.NewClaimService(store, recorder, clock, logger)
	assetService = app.NewAssetService(store, logger)
	eventService = app.NewEventService(sqlite.NewOutboxRepository(database), clock)
}

// Shutdown flushes pending spans and closes the database. Safe to call
// when services were never initialized.
func Shutdown(ctx context.Context) error {
	var errs []error
	if shutdownTracing != nil {
		errs = append(errs, shutdownTracing(ctx))
	}
	errs = append(errs, db.Close())
	return errors.Join(errs...)
}

// GovernanceAdapter returns a new GovernanceAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func GovernanceAdapter() *cliadapter.GovernanceAdapter {
	return GovernanceAdapterWithOutput(os.Stdout)
}

// GovernanceAdapterWithOutput returns a new GovernanceAdapter writing to the given output.
func GovernanceAdapterWithOutput(out io.Writer) *cliadapter.GovernanceAdapter {
	return cliadapter.NewGovernanceAdapter(GovernanceService(), out)
}

// EpochAdapter returns a new EpochAdapter writing to stdout.
func EpochAdapter() *cliadapter.EpochAdapter {
	return cliadapter.NewEpochAdapter(EpochService(), os.Stdout)
}

// ClaimAdapter returns a new ClaimAdapter writing to stdout.
func ClaimAdapter() *cliadapter.ClaimAdapter {
	return cliadapter.NewClaimAdapter(ClaimService(), os.Stdout)
}

// AssetAdapter returns a new AssetAdapter writing to stdout.
func AssetAdapter() *cliadapter.AssetAdapter {
	return cliadapter.NewAssetAdapter(AssetService(), os.Stdout)
}

// EventAdapter returns a new EventAdapter writing to stdout.
func EventAdapter() *cliadapter.EventAdapter {
	return cliadapter.NewEventAdapter(EventService(), os.Stdout)
}

// TreeAdapter returns a new TreeAdapter writing to stdout. It needs no services.
func TreeAdapter() *cliadapter.TreeAdapter {
	return cliadapter.NewTreeAdapter(os.Stdout)
}
