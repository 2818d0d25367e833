// Package testutils spins up the shared infrastructure the integration
// tests run against: a Postgres container with the module migrations
// applied and a NATS container backing the real event bus.
package testutils

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.opentelemetry.io/otel/trace/noop"

	demonservice "github.com/demonlist-club/demonlist-backend/app/modules/demon/application"
	demonmigrations "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories/migrations"
	playerservice "github.com/demonlist-club/demonlist-backend/app/modules/player/application"
	playermigrations "github.com/demonlist-club/demonlist-backend/app/modules/player/infrastructure/repositories/migrations"
	recordservice "github.com/demonlist-club/demonlist-backend/app/modules/record/application"
	recordmigrations "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories/migrations"
	"github.com/demonlist-club/demonlist-backend/config"
	"github.com/demonlist-club/demonlist-backend/integration_tests/containers"
	"github.com/demonlist-club/demonlist-backend/internal/db/bundb"
	"github.com/demonlist-club/demonlist-backend/internal/eventbus"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
	"github.com/demonlist-club/demonlist-backend/internal/video"
)

// TestEnvironment bundles the containers, the repositories and fully wired
// services. One environment is shared per test package; tests call
// TruncateAll between cases instead of paying for fresh containers.
type TestEnvironment struct {
	Ctx           context.Context
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	DBService     *bundb.DBService
	EventBus      eventbus.EventBus

	DemonService  *demonservice.DemonService
	PlayerService *playerservice.PlayerService
	RecordService *recordservice.RecordService
}

func NewTestEnvironment() (*TestEnvironment, error) {
	ctx := context.Background()

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}

	dbService, err := bundb.NewBunDBService(ctx, pgConnStr)
	if err != nil {
		natsContainer.Terminate(ctx)
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db := dbService.GetDB()

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		natsContainer.Terminate(ctx)
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger := slog.New(slog.DiscardHandler)

	bus, err := eventbus.NewNATSEventBus(ctx, natsURL, logger)
	if err != nil {
		db.Close()
		natsContainer.Terminate(ctx)
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	noOpMetrics := &metrics.NoOpMetrics{}
	tracer := noop.NewTracerProvider().Tracer("integration")

	playerService := playerservice.NewPlayerService(
		dbService.Player, dbService.Record, nil,
		logger, noOpMetrics, tracer, db,
	)
	demonService := demonservice.NewDemonService(
		dbService.Demon, dbService.Record, playerService, playerService,
		bus, logger, noOpMetrics, tracer, db,
	)
	recordService := recordservice.NewRecordService(
		dbService.Record, dbService.Demon, playerService, playerService,
		video.DefaultValidator{},
		config.StaticThresholds{List: 75, Extended: 150},
		bus, logger, noOpMetrics, tracer, db,
	)

	return &TestEnvironment{
		Ctx:           ctx,
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		DB:            db,
		DBService:     dbService,
		EventBus:      bus,
		DemonService:  demonService,
		PlayerService: playerService,
		RecordService: recordService,
	}, nil
}

// Cleanup tears down the bus, the pool and both containers.
func (env *TestEnvironment) Cleanup() {
	if env.EventBus != nil {
		env.EventBus.Close()
	}
	if env.DB != nil {
		env.DB.Close()
	}
	if env.NatsContainer != nil {
		env.NatsContainer.Terminate(env.Ctx)
	}
	if env.PgContainer != nil {
		env.PgContainer.Terminate(env.Ctx)
	}
}

// TruncateAll empties every table so each test starts from a blank list.
func (env *TestEnvironment) TruncateAll(t *testing.T) {
	t.Helper()

	_, err := env.DB.ExecContext(env.Ctx,
		"TRUNCATE demons, creators, players, records, record_notes, submitters RESTART IDENTITY")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// runMigrations applies the per-module migration registries in dependency
// order, the same order the bun CLI uses.
func runMigrations(ctx context.Context, db *bun.DB) error {
	migrators := []*migrate.Migrator{
		migrate.NewMigrator(db, playermigrations.Migrations),
		migrate.NewMigrator(db, demonmigrations.Migrations),
		migrate.NewMigrator(db, recordmigrations.Migrations),
	}

	for _, migrator := range migrators {
		if err := migrator.Init(ctx); err != nil {
			return err
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}
