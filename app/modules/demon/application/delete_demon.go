package demonservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	demonevents "github.com/demonlist-club/demonlist-backend/app/modules/demon/events"
	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/results"
)

// DeleteDemonResult carries the outcome of DeleteDemon.
type DeleteDemonResult = results.OperationResult[demonevents.DemonDeletedPayloadV1, demonevents.DemonOperationFailedPayloadV1]

// DeleteDemon removes a demon from the list and closes the gap it leaves, so
// positions stay the contiguous range [1, N-1].
func (s *DemonService) DeleteDemon(ctx context.Context, demonID int64) (DeleteDemonResult, error) {
	s.logger.InfoContext(ctx, "Deleting demon",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("demon_id", demonID),
	)

	return withTelemetry(s, ctx, "DeleteDemon", func(ctx context.Context) (DeleteDemonResult, error) {
		const op = "DeleteDemon"

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (DeleteDemonResult, error) {
			row, err := s.repo.GetByID(ctx, db, demonID)
			if err != nil {
				if errors.Is(err, demondb.ErrNotFound) {
					return failDemonOp[demonevents.DemonDeletedPayloadV1](op, demonID, demonevents.ReasonDemonNotFound, 0), nil
				}
				return DeleteDemonResult{}, err
			}
			position := row.Position

			maxPosition, err := s.repo.MaxPosition(ctx, db)
			if err != nil {
				return DeleteDemonResult{}, err
			}

			// Records go first so their approved holders are still known when
			// the demon row disappears.
			holderIDs, err := s.records.DeleteForDemon(ctx, db, demonID)
			if err != nil {
				return DeleteDemonResult{}, err
			}

			if err := s.repo.Delete(ctx, db, demonID); err != nil {
				return DeleteDemonResult{}, err
			}

			if err := s.repo.ShiftUp(ctx, db, position); err != nil {
				return DeleteDemonResult{}, err
			}
			s.metrics.RecordPositionShift(ctx, position)

			// The purged holders lose this demon's score contribution, and
			// everything below it moved up one position.
			if err := s.scores.RecomputeScores(ctx, db, holderIDs); err != nil {
				return DeleteDemonResult{}, err
			}
			if err := s.scores.RecomputeScoresForPositionRange(ctx, db, position, maxPosition-1); err != nil {
				return DeleteDemonResult{}, err
			}

			return results.Succeed[demonevents.DemonDeletedPayloadV1, demonevents.DemonOperationFailedPayloadV1](
				demonevents.DemonDeletedPayloadV1{DemonID: demonID, Position: position},
			), nil
		})
		if err != nil {
			return DeleteDemonResult{}, err
		}

		if result.IsSuccess() {
			s.publish(ctx, demonevents.DemonDeletedTopic, *result.Success)
		}

		return result, nil
	})
}
