package recordservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
	recordevents "github.com/demonlist-club/demonlist-backend/app/modules/record/events"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/results"
)

// SetRecordStatusResult carries the outcome of SetRecordStatus.
type SetRecordStatusResult = results.OperationResult[recordevents.RecordStatusChangedPayloadV1, recordevents.RecordStatusChangeFailedPayloadV1]

// SetRecordStatus is the review-facing entry point into the lifecycle. The
// transition itself runs through applyTransition, shared with record creation,
// so the score side effect of entering or leaving the approved state can never
// be skipped.
func (s *RecordService) SetRecordStatus(ctx context.Context, recordID int64, statusToken string) (SetRecordStatusResult, error) {
	s.logger.InfoContext(ctx, "Changing record status",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("record_id", recordID),
		attr.String("status", statusToken),
	)

	return withTelemetry(s, ctx, "SetRecordStatus", func(ctx context.Context) (SetRecordStatusResult, error) {
		fail := func(reason string) SetRecordStatusResult {
			return results.Fail[recordevents.RecordStatusChangedPayloadV1](recordevents.RecordStatusChangeFailedPayloadV1{
				RecordID: recordID,
				Reason:   reason,
			})
		}

		to, err := recorddomain.ParseStatus(statusToken)
		if err != nil {
			return fail(recordevents.ReasonInvalidStatus), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SetRecordStatusResult, error) {
			row, err := s.repo.GetByID(ctx, db, recordID)
			if err != nil {
				if errors.Is(err, recorddb.ErrNotFound) {
					return fail(recordevents.ReasonRecordNotFound), nil
				}
				return SetRecordStatusResult{}, err
			}

			transition, err := s.applyTransition(ctx, db, recordID, row.PlayerID, row.StatusOf(), to)
			if err != nil {
				return SetRecordStatusResult{}, err
			}

			return results.Succeed[recordevents.RecordStatusChangedPayloadV1, recordevents.RecordStatusChangeFailedPayloadV1](transition), nil
		})
		if err != nil {
			return SetRecordStatusResult{}, err
		}

		if result.IsSuccess() {
			s.publishTransition(ctx, *result.Success)
		}

		return result, nil
	})
}

// applyTransition is the single transition routine every status change runs
// through, whether triggered by review or by a create carrying a non-default
// initial status. It persists the new status and recomputes the holder's
// aggregate score when the approved-set membership of the record changes.
// Runs inside the caller's transaction; the caller publishes the returned
// payload after commit.
func (s *RecordService) applyTransition(ctx context.Context, db bun.IDB, recordID, playerID int64, from, to recorddomain.Status) (recordevents.RecordStatusChangedPayloadV1, error) {
	payload := recordevents.RecordStatusChangedPayloadV1{
		RecordID: recordID,
		PlayerID: playerID,
		From:     from,
		To:       to,
	}
	if from == to {
		return payload, nil
	}

	if err := s.repo.UpdateStatus(ctx, db, recordID, string(to)); err != nil {
		return recordevents.RecordStatusChangedPayloadV1{}, err
	}

	if from.AffectsScore() != to.AffectsScore() {
		if _, err := s.scores.RecomputeScore(ctx, db, playerID); err != nil {
			return recordevents.RecordStatusChangedPayloadV1{}, err
		}
	}

	return payload, nil
}

// publishTransition announces a transition; no-op transitions stay silent.
func (s *RecordService) publishTransition(ctx context.Context, payload recordevents.RecordStatusChangedPayloadV1) {
	if payload.From == payload.To {
		return
	}
	s.publish(ctx, recordevents.RecordStatusChangedTopic, payload)
}
