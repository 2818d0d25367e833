package demonservice

import (
	"context"
	"errors"

	demondomain "github.com/demonlist-club/demonlist-backend/app/modules/demon/domain"
	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
)

// GetDemon loads a demon together with its creators and approved records.
func (s *DemonService) GetDemon(ctx context.Context, demonID int64) (demondomain.FullDemon, error) {
	row, err := s.repo.GetByID(ctx, s.db, demonID)
	if err != nil {
		if errors.Is(err, demondb.ErrNotFound) {
			return demondomain.FullDemon{}, demondomain.NotFoundError{ID: demonID}
		}
		return demondomain.FullDemon{}, err
	}

	creatorIDs, err := s.repo.CreatorIDs(ctx, s.db, demonID)
	if err != nil {
		return demondomain.FullDemon{}, err
	}

	rows, err := s.records.ApprovedForDemon(ctx, s.db, demonID)
	if err != nil {
		return demondomain.FullDemon{}, err
	}

	records := make([]demondomain.MinimalRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, demondomain.MinimalRecord{
			ID:       r.ID,
			Progress: r.Progress,
			PlayerID: r.PlayerID,
			Video:    r.Video,
		})
	}

	return demondomain.FullDemon{
		Demon:      row.ToDomain(),
		CreatorIDs: creatorIDs,
		Records:    records,
	}, nil
}
