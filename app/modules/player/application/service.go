package playerservice

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	playerdb "github.com/demonlist-club/demonlist-backend/app/modules/player/infrastructure/repositories"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
)

// Service is the player module contract consumed by the other modules.
type Service interface {
	// ResolveOrCreate resolves a player by name inside the caller's
	// transaction, creating the row if absent. Idempotent.
	ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error)

	// RecomputeScore recalculates and stores the player's aggregate score
	// from their approved records. Returns the new score.
	RecomputeScore(ctx context.Context, db bun.IDB, playerID int64) (float64, error)

	// RecomputeScoresForPositionRange recalculates the scores of every player
	// holding approved records on demons positioned in [from, to].
	RecomputeScoresForPositionRange(ctx context.Context, db bun.IDB, from, to int) error

	// RecomputeScores recalculates the scores of the given players.
	RecomputeScores(ctx context.Context, db bun.IDB, playerIDs []int64) error

	GetPlayer(ctx context.Context, id int64) (playerdomain.Player, error)

	// ResolveClaim returns the verified claim on a player, or nil when the
	// player is unclaimed.
	ResolveClaim(ctx context.Context, playerID int64) (*playerdomain.Claim, error)

	// SetPlayerBanned flips a player's ban state. Banning rejects every record
	// the player holds and zeroes their score.
	SetPlayerBanned(ctx context.Context, playerID int64, banned bool) error
}

// PlayerService implements Service.
type PlayerService struct {
	repo       playerdb.Repository
	recordRepo recorddb.Repository
	claims     playerdomain.ClaimResolver
	logger     *slog.Logger
	metrics    metrics.Metrics
	tracer     trace.Tracer
	db         *bun.DB
}

// NewPlayerService creates a new PlayerService. claims may be nil when no
// authentication system is deployed; every claim lookup then resolves to
// nothing.
func NewPlayerService(
	repo playerdb.Repository,
	recordRepo recorddb.Repository,
	claims playerdomain.ClaimResolver,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PlayerService {
	return &PlayerService{
		repo:       repo,
		recordRepo: recordRepo,
		claims:     claims,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
	}
}

var _ Service = (*PlayerService)(nil)
