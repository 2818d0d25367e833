package recordservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/config"
	"github.com/demonlist-club/demonlist-backend/internal/eventbus"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
	"github.com/demonlist-club/demonlist-backend/internal/results"
	"github.com/demonlist-club/demonlist-backend/internal/video"
)

const moduleName = "record"

// PlayerResolver resolves the submitted player name inside the pipeline's
// transaction and looks players up for read paths. Satisfied by the player
// module's service.
type PlayerResolver interface {
	ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error)
	GetPlayer(ctx context.Context, id int64) (playerdomain.Player, error)
}

// ScoreRecalculator recomputes one player's aggregate score after a record
// enters or leaves the approved state. Satisfied by the player module's
// service.
type ScoreRecalculator interface {
	RecomputeScore(ctx context.Context, db bun.IDB, playerID int64) (float64, error)
}

// DemonReader is the slice of the demon repository the pipeline needs.
type DemonReader interface {
	GetByID(ctx context.Context, db bun.IDB, id int64) (*demondb.Demon, error)
}

// RecordService implements the submission pipeline and the record lifecycle.
type RecordService struct {
	repo       recorddb.Repository
	demons     DemonReader
	players    PlayerResolver
	scores     ScoreRecalculator
	video      video.Validator
	thresholds config.ThresholdProvider
	limiters   *submitterLimiters
	eventBus   eventbus.EventBus
	logger     *slog.Logger
	metrics    metrics.Metrics
	tracer     trace.Tracer
	db         *bun.DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(
	repo recorddb.Repository,
	demons DemonReader,
	players PlayerResolver,
	scores ScoreRecalculator,
	videoValidator video.Validator,
	thresholds config.ThresholdProvider,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RecordService {
	return &RecordService{
		repo:       repo,
		demons:     demons,
		players:    players,
		scores:     scores,
		video:      videoValidator,
		thresholds: thresholds,
		limiters:   newSubmitterLimiters(rate.Every(30*time.Second), 5),
		eventBus:   eventBus,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
	}
}

// submitterLimiters throttles the open submission pipeline per submitter
// identity. Limiters are kept in memory; a restart resets them, which is
// acceptable for an abuse brake.
type submitterLimiters struct {
	mu    sync.Mutex
	m     map[int64]*rate.Limiter
	limit rate.Limit
	burst int
}

func newSubmitterLimiters(limit rate.Limit, burst int) *submitterLimiters {
	return &submitterLimiters{
		m:     make(map[int64]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

func (l *submitterLimiters) allow(submitterID int64) bool {
	l.mu.Lock()
	limiter, ok := l.m[submitterID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.m[submitterID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics and panic
// recovery.
func withTelemetry[S any, F any](
	s *RecordService,
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

// runInTx runs fn inside one serializable transaction, matching the isolation
// level of the position-mutating demon operations the pipeline races against.
func runInTx[S any, F any](
	s *RecordService,
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
func (s *RecordService) publish(ctx context.Context, topic string, payload any) {
	if s.eventBus == nil {
		return
	}
	msg, err := eventbus.NewJSONMessage(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal record event", attr.Error(err), attr.String("topic", topic))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish record event", attr.Error(err), attr.String("topic", topic))
	}
}
