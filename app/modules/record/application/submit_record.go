package recordservice

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
	recordevents "github.com/demonlist-club/demonlist-backend/app/modules/record/events"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
	"github.com/demonlist-club/demonlist-backend/internal/results"
)

// SubmitRecordResult carries the outcome of SubmitRecord.
type SubmitRecordResult = results.OperationResult[recordevents.RecordCreatedPayloadV1, recordevents.RecordSubmissionFailedPayloadV1]

// SubmitRecord runs the full submission pipeline: submitter gating, video
// canonicalization, normalization, the business rules in their fixed order,
// and persistence. submitterID is nil for trusted direct entry, which skips
// the submitter gate.
func (s *RecordService) SubmitRecord(ctx context.Context, submitterID *int64, submission recorddomain.Submission) (SubmitRecordResult, error) {
	s.logger.InfoContext(ctx, "Processing record submission",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("demon_id", submission.DemonID),
		attr.String("player", submission.Player),
		attr.Int("progress", submission.Progress),
	)

	return withTelemetry(s, ctx, "SubmitRecord", func(ctx context.Context) (SubmitRecordResult, error) {
		fail := func(reason string, requirement int) SubmitRecordResult {
			s.metrics.RecordSubmissionRejected(ctx, reason)
			return results.Fail[recordevents.RecordCreatedPayloadV1](recordevents.RecordSubmissionFailedPayloadV1{
				DemonID:     submission.DemonID,
				Player:      submission.Player,
				Reason:      reason,
				Requirement: requirement,
			})
		}

		if submitterID != nil {
			submitter, err := s.repo.GetSubmitter(ctx, nil, *submitterID)
			if err != nil {
				return SubmitRecordResult{}, err
			}
			if submitter.Banned {
				return fail(recordevents.ReasonBannedFromSubmissions, 0), nil
			}
			if !s.limiters.allow(*submitterID) {
				return fail(recordevents.ReasonRateLimited, 0), nil
			}
		}

		requested := submission.RequestedStatus()
		if _, err := recorddomain.ParseStatus(string(requested)); err != nil {
			return fail(recordevents.ReasonInvalidStatus, 0), nil
		}

		videoURL := submission.Video
		if submission.HasVideo() {
			canonical, err := s.video.Validate(*submission.Video)
			if err != nil {
				// The collaborator's error names what was wrong with the URL;
				// pass it on so the submitter can self-correct.
				s.metrics.RecordSubmissionRejected(ctx, recordevents.ReasonVideoRejected)
				return results.Fail[recordevents.RecordCreatedPayloadV1](recordevents.RecordSubmissionFailedPayloadV1{
					DemonID: submission.DemonID,
					Player:  submission.Player,
					Reason:  recordevents.ReasonVideoRejected,
					Detail:  err.Error(),
				}), nil
			}
			videoURL = &canonical
		}

		var transition *recordevents.RecordStatusChangedPayloadV1

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SubmitRecordResult, error) {
			demonRow, err := s.demons.GetByID(ctx, db, submission.DemonID)
			if err != nil {
				if errors.Is(err, demondb.ErrNotFound) {
					return fail(recordevents.ReasonDemonNotFound, 0), nil
				}
				return SubmitRecordResult{}, err
			}

			player, err := s.players.ResolveOrCreate(ctx, db, submission.Player)
			if err != nil {
				return SubmitRecordResult{}, err
			}

			normalized := recorddomain.NormalizedSubmission{
				Progress:   submission.Progress,
				Player:     player,
				Demon:      demonRow.ToMinimal(),
				Status:     requested,
				Enjoyment:  submission.Enjoyment,
				Video:      videoURL,
				RawFootage: submission.RawFootage,
				Note:       submission.Note,
			}

			// Thresholds are read per validation pass, never cached, so an
			// operator can resize the list without a restart.
			tiers := recorddomain.TierThresholds{
				ListSize:         s.thresholds.ListSize(),
				ExtendedListSize: s.thresholds.ExtendedListSize(),
			}

			validated, err := normalized.Validate(demonRow.Requirement, tiers)
			if err != nil {
				var progressErr recorddomain.InvalidProgressError
				switch {
				case errors.Is(err, recorddomain.ErrPlayerBanned):
					return fail(recordevents.ReasonPlayerBanned, 0), nil
				case errors.Is(err, recorddomain.ErrSubmitLegacy):
					return fail(recordevents.ReasonSubmitLegacy, 0), nil
				case errors.Is(err, recorddomain.ErrNon100Extended):
					return fail(recordevents.ReasonNon100Extended, 0), nil
				case errors.As(err, &progressErr):
					return fail(recordevents.ReasonInvalidProgress, progressErr.Requirement), nil
				case errors.Is(err, recorddomain.ErrInvalidEnjoyment):
					return fail(recordevents.ReasonInvalidEnjoyment, 0), nil
				case errors.Is(err, recorddomain.ErrMalformedRawURL):
					return fail(recordevents.ReasonMalformedRawURL, 0), nil
				case errors.Is(err, recorddomain.ErrRawFootageRequired):
					return fail(recordevents.ReasonRawFootageRequired, 0), nil
				default:
					return SubmitRecordResult{}, err
				}
			}

			row := &recorddb.Record{
				Progress:    validated.Progress,
				Video:       validated.Video,
				RawFootage:  validated.RawFootage,
				Status:      string(validated.Status),
				Enjoyment:   validated.Enjoyment,
				PlayerID:    validated.Player.ID,
				DemonID:     validated.Demon.ID,
				SubmitterID: submitterID,
			}
			if err := s.repo.Insert(ctx, db, row); err != nil {
				return SubmitRecordResult{}, err
			}

			if validated.Note != nil && strings.TrimSpace(*validated.Note) != "" {
				if _, err := s.repo.InsertNote(ctx, db, row.ID, *validated.Note); err != nil {
					return SubmitRecordResult{}, err
				}
			}

			// The insert already carries the final initial status, but its
			// side effects (score recomputation, the transition announcement)
			// belong to the one canonical transition routine. Re-applying the
			// status write there is idempotent.
			if validated.Status != recorddomain.StatusSubmitted {
				payload, err := s.applyTransition(ctx, db, row.ID, validated.Player.ID, recorddomain.StatusSubmitted, validated.Status)
				if err != nil {
					return SubmitRecordResult{}, err
				}
				transition = &payload
			}

			full := recorddomain.FullRecord{
				ID:          row.ID,
				Progress:    validated.Progress,
				Video:       validated.Video,
				RawFootage:  validated.RawFootage,
				Status:      validated.Status,
				Enjoyment:   validated.Enjoyment,
				Player:      validated.Player,
				Demon:       validated.Demon,
				SubmitterID: submitterID,
			}

			return results.Succeed[recordevents.RecordCreatedPayloadV1, recordevents.RecordSubmissionFailedPayloadV1](
				recordevents.RecordCreatedPayloadV1{Record: full},
			), nil
		})
		if err != nil {
			return SubmitRecordResult{}, err
		}

		if result.IsSuccess() {
			s.publish(ctx, recordevents.RecordCreatedTopic, *result.Success)

			// A non-default initial status is announced as a transition out of
			// the default, so consumers see one uniform lifecycle stream.
			if transition != nil {
				s.publishTransition(ctx, *transition)
			}
		}

		return result, nil
	})
}
