package demonservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	demonevents "github.com/demonlist-club/demonlist-backend/app/modules/demon/events"
	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/results"
)

// MoveDemonResult carries the outcome of MoveDemon.
type MoveDemonResult = results.OperationResult[demonevents.DemonMovedPayloadV1, demonevents.DemonOperationFailedPayloadV1]

// MoveDemon moves a demon to a new position. The demons between the old and
// new position are shifted by one in the opposite direction, so the list stays
// the contiguous range [1, N] throughout.
func (s *DemonService) MoveDemon(ctx context.Context, demonID int64, to int) (MoveDemonResult, error) {
	s.logger.InfoContext(ctx, "Moving demon",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("demon_id", demonID),
		attr.Int("to", to),
	)

	return withTelemetry(s, ctx, "MoveDemon", func(ctx context.Context) (MoveDemonResult, error) {
		const op = "MoveDemon"

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (MoveDemonResult, error) {
			row, err := s.repo.GetByID(ctx, db, demonID)
			if err != nil {
				if errors.Is(err, demondb.ErrNotFound) {
					return failDemonOp[demonevents.DemonMovedPayloadV1](op, demonID, demonevents.ReasonDemonNotFound, 0), nil
				}
				return MoveDemonResult{}, err
			}
			from := row.Position

			maxPosition, err := s.repo.MaxPosition(ctx, db)
			if err != nil {
				return MoveDemonResult{}, err
			}

			// Unlike insertion, a move cannot extend the list, so the bound is
			// the current maximum rather than one past it.
			if err := demondomain.ValidatePosition(to, maxPosition); err != nil {
				var posErr demondomain.InvalidPositionError
				errors.As(err, &posErr)
				return failDemonOp[demonevents.DemonMovedPayloadV1](op, demonID, demonevents.ReasonInvalidPosition, posErr.Maximal), nil
			}

			if from != to {
				if to < from {
					err = s.repo.ShiftRange(ctx, db, to, from-1, +1)
				} else {
					err = s.repo.ShiftRange(ctx, db, from+1, to, -1)
				}
				if err != nil {
					return MoveDemonResult{}, err
				}
				s.metrics.RecordPositionShift(ctx, to)

				if err := s.repo.SetPosition(ctx, db, demonID, to); err != nil {
					return MoveDemonResult{}, err
				}

				if err := s.scores.RecomputeScoresForPositionRange(ctx, db, from, to); err != nil {
					return MoveDemonResult{}, err
				}
			}

			return results.Succeed[demonevents.DemonMovedPayloadV1, demonevents.DemonOperationFailedPayloadV1](
				demonevents.DemonMovedPayloadV1{DemonID: demonID, From: from, To: to},
			), nil
		})
		if err != nil {
			return MoveDemonResult{}, err
		}

		if result.IsSuccess() && result.Success.From != result.Success.To {
			s.publish(ctx, demonevents.DemonMovedTopic, *result.Success)
		}

		return result, nil
	})
}
