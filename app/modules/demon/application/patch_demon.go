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

// PatchDemonInput is a partial update; nil fields are left untouched. Position
// changes go through MoveDemon and are not accepted here.
type PatchDemonInput struct {
	Name        *string
	Requirement *int
	Video       **string
	Thumbnail   *string
	LevelID     *int64
	Difficulty  *string
	Publisher   *string
	Verifier    *string
}

// PatchDemonResult carries the outcome of PatchDemon.
type PatchDemonResult = results.OperationResult[demonevents.DemonUpdatedPayloadV1, demonevents.DemonOperationFailedPayloadV1]

// PatchDemon applies a metadata patch to a demon.
func (s *DemonService) PatchDemon(ctx context.Context, demonID int64, patch PatchDemonInput) (PatchDemonResult, error) {
	s.logger.InfoContext(ctx, "Patching demon",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("demon_id", demonID),
	)

	return withTelemetry(s, ctx, "PatchDemon", func(ctx context.Context) (PatchDemonResult, error) {
		const op = "PatchDemon"

		if patch.Requirement != nil {
			if err := demondomain.ValidateRequirement(*patch.Requirement); err != nil {
				return failDemonOp[demonevents.DemonUpdatedPayloadV1](op, demonID, demonevents.ReasonInvalidRequirement, 0), nil
			}
		}
		if patch.LevelID != nil {
			if _, err := demondomain.ValidateLevelID(*patch.LevelID); err != nil {
				return failDemonOp[demonevents.DemonUpdatedPayloadV1](op, demonID, demonevents.ReasonInvalidLevelID, 0), nil
			}
		}
		var difficulty *demondomain.Difficulty
		if patch.Difficulty != nil {
			parsed, err := demondomain.ParseDifficulty(*patch.Difficulty)
			if err != nil {
				return failDemonOp[demonevents.DemonUpdatedPayloadV1](op, demonID, demonevents.ReasonInvalidDifficulty, 0), nil
			}
			difficulty = &parsed
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (PatchDemonResult, error) {
			row, err := s.repo.GetByID(ctx, db, demonID)
			if err != nil {
				if errors.Is(err, demondb.ErrNotFound) {
					return failDemonOp[demonevents.DemonUpdatedPayloadV1](op, demonID, demonevents.ReasonDemonNotFound, 0), nil
				}
				return PatchDemonResult{}, err
			}

			if patch.Name != nil {
				row.Name = *patch.Name
			}
			if patch.Requirement != nil {
				row.Requirement = *patch.Requirement
			}
			if patch.Video != nil {
				row.Video = *patch.Video
			}
			if patch.Thumbnail != nil {
				row.Thumbnail = *patch.Thumbnail
			}
			if patch.LevelID != nil {
				row.LevelID = patch.LevelID
			}
			if difficulty != nil {
				row.Difficulty = string(*difficulty)
			}
			if patch.Publisher != nil {
				publisher, err := s.players.ResolveOrCreate(ctx, db, *patch.Publisher)
				if err != nil {
					return PatchDemonResult{}, err
				}
				row.PublisherID = publisher.ID
			}
			if patch.Verifier != nil {
				verifier, err := s.players.ResolveOrCreate(ctx, db, *patch.Verifier)
				if err != nil {
					return PatchDemonResult{}, err
				}
				row.VerifierID = verifier.ID
			}

			if err := s.repo.Update(ctx, db, row); err != nil {
				return PatchDemonResult{}, err
			}

			// Tightening or loosening the requirement changes the score of
			// every partial record on this demon.
			if patch.Requirement != nil {
				if err := s.scores.RecomputeScoresForPositionRange(ctx, db, row.Position, row.Position); err != nil {
					return PatchDemonResult{}, err
				}
			}

			return results.Succeed[demonevents.DemonUpdatedPayloadV1, demonevents.DemonOperationFailedPayloadV1](
				demonevents.DemonUpdatedPayloadV1{Demon: row.ToDomain()},
			), nil
		})
		if err != nil {
			return PatchDemonResult{}, err
		}

		if result.IsSuccess() {
			s.publish(ctx, demonevents.DemonUpdatedTopic, *result.Success)
		}

		return result, nil
	})
}
