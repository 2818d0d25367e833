package playerservice

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	playerdb "github.com/demonlist-club/demonlist-backend/app/modules/player/infrastructure/repositories"
	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
)

// FakePlayerRepo is an in-memory playerdb.Repository.
type FakePlayerRepo struct {
	players map[int64]*playerdb.Player
	byName  map[string]int64
	nextID  int64
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{
		players: make(map[int64]*playerdb.Player),
		byName:  make(map[string]int64),
	}
}

func (f *FakePlayerRepo) GetOrCreateByName(ctx context.Context, db bun.IDB, name string) (*playerdb.Player, error) {
	if id, ok := f.byName[name]; ok {
		copied := *f.players[id]
		return &copied, nil
	}
	f.nextID++
	p := &playerdb.Player{ID: f.nextID, Name: name}
	f.players[p.ID] = p
	f.byName[name] = p.ID
	copied := *p
	return &copied, nil
}

func (f *FakePlayerRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*playerdb.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, playerdb.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *FakePlayerRepo) UpdateScore(ctx context.Context, db bun.IDB, id int64, score float64) error {
	p, ok := f.players[id]
	if !ok {
		return playerdb.ErrNoRowsAffected
	}
	p.Score = score
	return nil
}

func (f *FakePlayerRepo) SetBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error {
	p, ok := f.players[id]
	if !ok {
		return playerdb.ErrNoRowsAffected
	}
	p.Banned = banned
	return nil
}

var _ playerdb.Repository = (*FakePlayerRepo)(nil)

// FakeRecordStats serves canned approved-record stats per player; the other
// recorddb.Repository methods are inert.
type FakeRecordStats struct {
	Stats   map[int64][]recorddb.ApprovedRecordStat
	Records map[int64]*recorddb.Record
}

func NewFakeRecordStats() *FakeRecordStats {
	return &FakeRecordStats{
		Stats:   make(map[int64][]recorddb.ApprovedRecordStat),
		Records: make(map[int64]*recorddb.Record),
	}
}

func (f *FakeRecordStats) ApprovedStatsForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]recorddb.ApprovedRecordStat, error) {
	return f.Stats[playerID], nil
}

func (f *FakeRecordStats) PlayersWithApprovedRecordsBetween(ctx context.Context, db bun.IDB, from, to int) ([]int64, error) {
	var ids []int64
	for playerID, stats := range f.Stats {
		for _, stat := range stats {
			if stat.Position >= from && stat.Position <= to {
				ids = append(ids, playerID)
				break
			}
		}
	}
	return ids, nil
}

func (f *FakeRecordStats) RejectAllForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]int64, error) {
	var changed []int64
	for _, r := range f.Records {
		if r.PlayerID == playerID && r.Status != string(recorddomain.StatusRejected) {
			r.Status = string(recorddomain.StatusRejected)
			changed = append(changed, r.ID)
		}
	}
	// Rejected records no longer contribute stats.
	delete(f.Stats, playerID)
	return changed, nil
}

func (f *FakeRecordStats) Insert(ctx context.Context, db bun.IDB, record *recorddb.Record) error {
	return nil
}

func (f *FakeRecordStats) GetByID(ctx context.Context, db bun.IDB, id int64) (*recorddb.Record, error) {
	return nil, recorddb.ErrNotFound
}

func (f *FakeRecordStats) UpdateStatus(ctx context.Context, db bun.IDB, id int64, status string) error {
	return nil
}

func (f *FakeRecordStats) ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*recorddb.Record, error) {
	return nil, nil
}

func (f *FakeRecordStats) DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	return nil, nil
}

func (f *FakeRecordStats) InsertNote(ctx context.Context, db bun.IDB, recordID int64, content string) (*recorddb.RecordNote, error) {
	return nil, nil
}

func (f *FakeRecordStats) GetSubmitter(ctx context.Context, db bun.IDB, id int64) (*recorddb.Submitter, error) {
	return nil, recorddb.ErrNotFound
}

func (f *FakeRecordStats) CreateSubmitter(ctx context.Context, db bun.IDB) (*recorddb.Submitter, error) {
	return &recorddb.Submitter{}, nil
}

func (f *FakeRecordStats) SetSubmitterBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error {
	return nil
}

var _ recorddb.Repository = (*FakeRecordStats)(nil)

// FakeClaimResolver serves canned verified claims per player.
type FakeClaimResolver struct {
	Claims map[int64]*playerdomain.Claim
}

func (f *FakeClaimResolver) VerifiedClaimOn(ctx context.Context, playerID int64) (*playerdomain.Claim, error) {
	return f.Claims[playerID], nil
}

func newPlayerServiceFixture() (*PlayerService, *FakePlayerRepo, *FakeRecordStats) {
	repo := NewFakePlayerRepo()
	records := NewFakeRecordStats()

	service := NewPlayerService(
		repo, records, nil,
		slog.New(slog.DiscardHandler),
		&metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)

	return service, repo, records
}
