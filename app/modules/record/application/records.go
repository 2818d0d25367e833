package recordservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/attr"
)

// GetRecord loads a record by id.
func (s *RecordService) GetRecord(ctx context.Context, recordID int64) (recorddomain.FullRecord, error) {
	row, err := s.repo.GetByID(ctx, s.db, recordID)
	if err != nil {
		if errors.Is(err, recorddb.ErrNotFound) {
			return recorddomain.FullRecord{}, recorddomain.NotFoundError{ID: recordID}
		}
		return recorddomain.FullRecord{}, err
	}

	demonRow, err := s.demons.GetByID(ctx, s.db, row.DemonID)
	if err != nil {
		return recorddomain.FullRecord{}, fmt.Errorf("failed to load demon of record %d: %w", recordID, err)
	}

	holder, err := s.players.GetPlayer(ctx, row.PlayerID)
	if err != nil {
		return recorddomain.FullRecord{}, fmt.Errorf("failed to load player of record %d: %w", recordID, err)
	}

	return recorddomain.FullRecord{
		ID:          row.ID,
		Progress:    row.Progress,
		Video:       row.Video,
		RawFootage:  row.RawFootage,
		Status:      row.StatusOf(),
		Enjoyment:   row.Enjoyment,
		Player:      holder.DatabasePlayer,
		Demon:       demonRow.ToMinimal(),
		SubmitterID: row.SubmitterID,
	}, nil
}

// AddNote attaches a free-text note to an existing record.
func (s *RecordService) AddNote(ctx context.Context, recordID int64, content string) (recorddomain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return recorddomain.Note{}, errors.New("record note must not be empty")
	}

	if _, err := s.repo.GetByID(ctx, s.db, recordID); err != nil {
		if errors.Is(err, recorddb.ErrNotFound) {
			return recorddomain.Note{}, recorddomain.NotFoundError{ID: recordID}
		}
		return recorddomain.Note{}, err
	}

	note, err := s.repo.InsertNote(ctx, s.db, recordID, content)
	if err != nil {
		return recorddomain.Note{}, err
	}

	s.logger.InfoContext(ctx, "Added record note",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("record_id", recordID),
		attr.Int64("note_id", note.ID),
	)

	return recorddomain.Note{
		ID:       note.ID,
		RecordID: note.RecordID,
		Content:  note.Content,
	}, nil
}

// CreateSubmitter mints a fresh submitter identity for the outer API layer.
func (s *RecordService) CreateSubmitter(ctx context.Context) (int64, error) {
	submitter, err := s.repo.CreateSubmitter(ctx, s.db)
	if err != nil {
		return 0, err
	}
	return submitter.ID, nil
}

// SetSubmitterBanned flips the submitter gate. Banned submitters are turned
// away before any of the submission rules run.
func (s *RecordService) SetSubmitterBanned(ctx context.Context, submitterID int64, banned bool) error {
	if err := s.repo.SetSubmitterBanned(ctx, s.db, submitterID, banned); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Updated submitter ban state",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("submitter_id", submitterID),
		attr.Bool("banned", banned),
	)

	return nil
}
