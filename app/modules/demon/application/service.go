package demonservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	demonevents "github.com/demonlist-club/demonlist-backend/app/modules/demon/events"
	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/eventbus"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
	"github.com/demonlist-club/demonlist-backend/internal/results"
)

const moduleName = "demon"

// PlayerResolver resolves publisher/verifier/creator names inside the demon
// service's transaction. Satisfied by the player module's service.
type PlayerResolver interface {
	ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error)
}

// ScoreRecalculator recomputes player aggregate scores after position shifts.
// Satisfied by the player module's service.
type ScoreRecalculator interface {
	RecomputeScoresForPositionRange(ctx context.Context, db bun.IDB, from, to int) error
	RecomputeScores(ctx context.Context, db bun.IDB, playerIDs []int64) error
}

// RecordAccess is the slice of the record repository the demon module needs:
// listing a demon's approved records and purging them when the demon goes.
type RecordAccess interface {
	ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*recorddb.Record, error)
	DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error)
}

// DemonService implements the demon operations: creation, moves, patches and
// deletion, all under the position contiguity invariant.
type DemonService struct {
	repo     demondb.Repository
	records  RecordAccess
	players  PlayerResolver
	scores   ScoreRecalculator
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.Metrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewDemonService creates a new DemonService.
func NewDemonService(
	repo demondb.Repository,
	records RecordAccess,
	players PlayerResolver,
	scores ScoreRecalculator,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *DemonService {
	return &DemonService{
		repo:     repo,
		records:  records,
		players:  players,
		scores:   scores,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics and panic
// recovery.
func withTelemetry[S any, F any](
	s *DemonService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, moduleName, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, moduleName, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, moduleName, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, moduleName, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, moduleName, operationName)
	}

	return result, nil
}

// runInTx runs fn inside one serializable transaction. Position-mutating
// sequences (validate, shift, write) must never be split across transactions
// or concurrent inserts corrupt the contiguity invariant.
func runInTx[S any, F any](
	s *DemonService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// publish marshals a payload and publishes it, logging instead of failing the
// already-committed operation when the bus is down.
func (s *DemonService) publish(ctx context.Context, topic string, payload any) {
	if s.eventBus == nil {
		return
	}
	msg, err := eventbus.NewJSONMessage(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal demon event", attr.Error(err), attr.String("topic", topic))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish demon event", attr.Error(err), attr.String("topic", topic))
	}
}

func failDemonOp[S any](operation string, demonID int64, reason string, maximal int) results.OperationResult[S, demonevents.DemonOperationFailedPayloadV1] {
	return results.Fail[S, demonevents.DemonOperationFailedPayloadV1](demonevents.DemonOperationFailedPayloadV1{
		Operation: operation,
		DemonID:   demonID,
		Reason:    reason,
		Maximal:   maximal,
	})
}
