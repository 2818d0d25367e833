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

// CreateDemonInput is the request to add a demon to the list.
type CreateDemonInput struct {
	Name        string
	Position    int
	Requirement int
	Video       *string
	Thumbnail   string
	LevelID     *int64
	Difficulty  string

	// Publisher, Verifier and Creators are player names, resolved (and
	// created when absent) inside the operation's transaction.
	Publisher string
	Verifier  string
	Creators  []string
}

// CreateDemonResult carries the outcome of CreateDemon.
type CreateDemonResult = results.OperationResult[demonevents.DemonCreatedPayloadV1, demonevents.DemonOperationFailedPayloadV1]

// CreateDemon inserts a demon at the requested position. The target position
// is validated against the current maximum, the tail of the list is shifted
// down, and the new row is written, all inside one serializable transaction so
// that concurrent inserts cannot both claim the same position.
func (s *DemonService) CreateDemon(ctx context.Context, input CreateDemonInput) (CreateDemonResult, error) {
	s.logger.InfoContext(ctx, "Creating demon",
		attr.ExtractCorrelationID(ctx),
		attr.String("name", input.Name),
		attr.Int("position", input.Position),
	)

	return withTelemetry(s, ctx, "CreateDemon", func(ctx context.Context) (CreateDemonResult, error) {
		const op = "CreateDemon"

		if err := demondomain.ValidateRequirement(input.Requirement); err != nil {
			return failDemonOp[demonevents.DemonCreatedPayloadV1](op, 0, demonevents.ReasonInvalidRequirement, 0), nil
		}

		var levelID *int64
		if input.LevelID != nil {
			if _, err := demondomain.ValidateLevelID(*input.LevelID); err != nil {
				return failDemonOp[demonevents.DemonCreatedPayloadV1](op, 0, demonevents.ReasonInvalidLevelID, 0), nil
			}
			levelID = input.LevelID
		}

		difficulty, err := demondomain.ParseDifficulty(input.Difficulty)
		if err != nil {
			return failDemonOp[demonevents.DemonCreatedPayloadV1](op, 0, demonevents.ReasonInvalidDifficulty, 0), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (CreateDemonResult, error) {
			maxPosition, err := s.repo.MaxPosition(ctx, db)
			if err != nil {
				return CreateDemonResult{}, err
			}

			// The position bound is re-checked inside the transaction that
			// performs the write; a bound taken outside it would race.
			if err := demondomain.ValidatePosition(input.Position, maxPosition+1); err != nil {
				var posErr demondomain.InvalidPositionError
				errors.As(err, &posErr)
				return failDemonOp[demonevents.DemonCreatedPayloadV1](op, 0, demonevents.ReasonInvalidPosition, posErr.Maximal), nil
			}

			publisher, err := s.players.ResolveOrCreate(ctx, db, input.Publisher)
			if err != nil {
				return CreateDemonResult{}, err
			}
			verifier, err := s.players.ResolveOrCreate(ctx, db, input.Verifier)
			if err != nil {
				return CreateDemonResult{}, err
			}

			if err := s.repo.ShiftDown(ctx, db, input.Position); err != nil {
				return CreateDemonResult{}, err
			}
			s.metrics.RecordPositionShift(ctx, input.Position)

			row := &demondb.Demon{
				Position:    input.Position,
				Name:        input.Name,
				Requirement: input.Requirement,
				Video:       input.Video,
				Thumbnail:   input.Thumbnail,
				LevelID:     levelID,
				PublisherID: publisher.ID,
				VerifierID:  verifier.ID,
				Difficulty:  string(difficulty),
			}
			if err := s.repo.Insert(ctx, db, row); err != nil {
				return CreateDemonResult{}, err
			}

			for _, creator := range input.Creators {
				resolved, err := s.players.ResolveOrCreate(ctx, db, creator)
				if err != nil {
					return CreateDemonResult{}, err
				}
				if err := s.repo.AddCreator(ctx, db, row.ID, resolved.ID); err != nil {
					return CreateDemonResult{}, err
				}
			}

			// Demons previously at or below the insertion point moved down
			// one position; their approved records are now worth less.
			if err := s.scores.RecomputeScoresForPositionRange(ctx, db, input.Position+1, maxPosition+1); err != nil {
				return CreateDemonResult{}, err
			}

			return results.Succeed[demonevents.DemonCreatedPayloadV1, demonevents.DemonOperationFailedPayloadV1](
				demonevents.DemonCreatedPayloadV1{Demon: row.ToDomain()},
			), nil
		})
		if err != nil {
			return CreateDemonResult{}, err
		}

		if result.IsSuccess() {
			s.publish(ctx, demonevents.DemonCreatedTopic, *result.Success)
		}

		return result, nil
	})
}
