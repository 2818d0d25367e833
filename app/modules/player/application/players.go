package playerservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	playerdb "github.com/demonlist-club/demonlist-backend/app/modules/player/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
)

func (s *PlayerService) ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error) {
	row, err := s.repo.GetOrCreateByName(ctx, db, name)
	if err != nil {
		return playerdomain.DatabasePlayer{}, fmt.Errorf("failed to resolve player %q: %w", name, err)
	}

	return row.ToDomain(), nil
}

func (s *PlayerService) RecomputeScore(ctx context.Context, db bun.IDB, playerID int64) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "RecomputeScore", trace.WithAttributes(
		attribute.Int64("player_id", playerID),
	))
	defer span.End()

	stats, err := s.recordRepo.ApprovedStatsForPlayer(ctx, db, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load approved records of player %d: %w", playerID, err)
	}

	var score float64
	for _, stat := range stats {
		score += demondomain.Score(stat.Position, stat.Requirement, stat.Progress)
	}

	if err := s.repo.UpdateScore(ctx, db, playerID, score); err != nil {
		// A player with zero approved records may not have a row yet in
		// pathological fixtures; everything else is a real fault.
		if !errors.Is(err, playerdb.ErrNoRowsAffected) {
			return 0, fmt.Errorf("failed to store score of player %d: %w", playerID, err)
		}
	}

	s.metrics.RecordScoreRecomputation(ctx, playerID)
	s.logger.InfoContext(ctx, "Recomputed player score",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("player_id", playerID),
		attr.Int("approved_records", len(stats)),
		attr.Float64("score", score),
	)

	return score, nil
}

func (s *PlayerService) RecomputeScoresForPositionRange(ctx context.Context, db bun.IDB, from, to int) error {
	if from > to {
		from, to = to, from
	}

	playerIDs, err := s.recordRepo.PlayersWithApprovedRecordsBetween(ctx, db, from, to)
	if err != nil {
		return fmt.Errorf("failed to find players affected by shift of [%d, %d]: %w", from, to, err)
	}

	return s.RecomputeScores(ctx, db, playerIDs)
}

func (s *PlayerService) RecomputeScores(ctx context.Context, db bun.IDB, playerIDs []int64) error {
	for _, playerID := range playerIDs {
		if _, err := s.RecomputeScore(ctx, db, playerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PlayerService) SetPlayerBanned(ctx context.Context, playerID int64, banned bool) error {
	run := func(ctx context.Context, db bun.IDB) error {
		if err := s.repo.SetBanned(ctx, db, playerID, banned); err != nil {
			if errors.Is(err, playerdb.ErrNoRowsAffected) {
				return playerdomain.NotFoundError{ID: playerID}
			}
			return fmt.Errorf("failed to update ban state of player %d: %w", playerID, err)
		}

		if !banned {
			return nil
		}

		// A banned player holds no records on the list; reject them all and
		// let the recompute drive the score to zero.
		rejected, err := s.recordRepo.RejectAllForPlayer(ctx, db, playerID)
		if err != nil {
			return err
		}
		if _, err := s.RecomputeScore(ctx, db, playerID); err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "Banned player",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("player_id", playerID),
			attr.Int("rejected_records", len(rejected)),
		)
		return nil
	}

	if s.db == nil {
		return run(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		return run(ctx, tx)
	})
}

// ResolveClaim looks up the verified claim on a player through the external
// authentication collaborator. Without one, every player is unclaimed.
func (s *PlayerService) ResolveClaim(ctx context.Context, playerID int64) (*playerdomain.Claim, error) {
	if s.claims == nil {
		return nil, nil
	}
	claim, err := s.claims.VerifiedClaimOn(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve claim on player %d: %w", playerID, err)
	}
	return claim, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (playerdomain.Player, error) {
	row, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, playerdb.ErrNotFound) {
			return playerdomain.Player{}, playerdomain.NotFoundError{ID: id}
		}
		return playerdomain.Player{}, err
	}
	return row.ToFullDomain(), nil
}
