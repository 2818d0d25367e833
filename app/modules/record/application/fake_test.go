package recordservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	recorddomain "github.com/demonlist-club/demonlist-backend/app/modules/record/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/config"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
)

// FakeRecordRepo is an in-memory recorddb.Repository.
type FakeRecordRepo struct {
	records    map[int64]*recorddb.Record
	notes      map[int64][]*recorddb.RecordNote
	submitters map[int64]*recorddb.Submitter
	nextID     int64

	// StatusWrites lists the record ids UpdateStatus was called for, in order.
	StatusWrites []int64

	// FailOn forces the named method to return the given error.
	FailOn map[string]error
}

func NewFakeRecordRepo() *FakeRecordRepo {
	return &FakeRecordRepo{
		records:    make(map[int64]*recorddb.Record),
		notes:      make(map[int64][]*recorddb.RecordNote),
		submitters: make(map[int64]*recorddb.Submitter),
		FailOn:     make(map[string]error),
	}
}

func (f *FakeRecordRepo) fail(method string) error {
	if err, ok := f.FailOn[method]; ok {
		return err
	}
	return nil
}

func (f *FakeRecordRepo) AddSubmitter(banned bool) int64 {
	f.nextID++
	f.submitters[f.nextID] = &recorddb.Submitter{ID: f.nextID, Banned: banned}
	return f.nextID
}

func (f *FakeRecordRepo) Insert(ctx context.Context, db bun.IDB, record *recorddb.Record) error {
	if err := f.fail("Insert"); err != nil {
		return err
	}
	f.nextID++
	record.ID = f.nextID
	stored := *record
	f.records[record.ID] = &stored
	return nil
}

func (f *FakeRecordRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*recorddb.Record, error) {
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	r, ok := f.records[id]
	if !ok {
		return nil, recorddb.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *FakeRecordRepo) UpdateStatus(ctx context.Context, db bun.IDB, id int64, status string) error {
	if err := f.fail("UpdateStatus"); err != nil {
		return err
	}
	r, ok := f.records[id]
	if !ok {
		return recorddb.ErrNoRowsAffected
	}
	f.StatusWrites = append(f.StatusWrites, id)
	r.Status = status
	return nil
}

func (f *FakeRecordRepo) ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*recorddb.Record, error) {
	var out []*recorddb.Record
	for _, r := range f.records {
		if r.DemonID == demonID && r.Status == string(recorddomain.StatusApproved) {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *FakeRecordRepo) DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	var holders []int64
	for id, r := range f.records {
		if r.DemonID == demonID {
			if r.Status == string(recorddomain.StatusApproved) {
				holders = append(holders, r.PlayerID)
			}
			delete(f.records, id)
		}
	}
	return holders, nil
}

func (f *FakeRecordRepo) InsertNote(ctx context.Context, db bun.IDB, recordID int64, content string) (*recorddb.RecordNote, error) {
	if err := f.fail("InsertNote"); err != nil {
		return nil, err
	}
	f.nextID++
	note := &recorddb.RecordNote{ID: f.nextID, RecordID: recordID, Content: content}
	f.notes[recordID] = append(f.notes[recordID], note)
	return note, nil
}

func (f *FakeRecordRepo) GetSubmitter(ctx context.Context, db bun.IDB, id int64) (*recorddb.Submitter, error) {
	if err := f.fail("GetSubmitter"); err != nil {
		return nil, err
	}
	s, ok := f.submitters[id]
	if !ok {
		return nil, recorddb.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *FakeRecordRepo) CreateSubmitter(ctx context.Context, db bun.IDB) (*recorddb.Submitter, error) {
	f.nextID++
	s := &recorddb.Submitter{ID: f.nextID}
	f.submitters[s.ID] = s
	copied := *s
	return &copied, nil
}

func (f *FakeRecordRepo) SetSubmitterBanned(ctx context.Context, db bun.IDB, id int64, banned bool) error {
	s, ok := f.submitters[id]
	if !ok {
		return recorddb.ErrNoRowsAffected
	}
	s.Banned = banned
	return nil
}

func (f *FakeRecordRepo) RejectAllForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]int64, error) {
	var changed []int64
	for _, r := range f.records {
		if r.PlayerID == playerID && r.Status != string(recorddomain.StatusRejected) {
			r.Status = string(recorddomain.StatusRejected)
			changed = append(changed, r.ID)
		}
	}
	return changed, nil
}

func (f *FakeRecordRepo) ApprovedStatsForPlayer(ctx context.Context, db bun.IDB, playerID int64) ([]recorddb.ApprovedRecordStat, error) {
	return nil, nil
}

func (f *FakeRecordRepo) PlayersWithApprovedRecordsBetween(ctx context.Context, db bun.IDB, from, to int) ([]int64, error) {
	return nil, nil
}

var _ recorddb.Repository = (*FakeRecordRepo)(nil)

// FakeDemonReader serves canned demon rows by id.
type FakeDemonReader struct {
	Demons map[int64]*demondb.Demon
}

func (f *FakeDemonReader) GetByID(ctx context.Context, db bun.IDB, id int64) (*demondb.Demon, error) {
	d, ok := f.Demons[id]
	if !ok {
		return nil, demondb.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

// FakePlayerResolver hands out stable ids per name and lets tests mark
// players banned.
type FakePlayerResolver struct {
	byName map[string]int64
	Banned map[string]bool
	nextID int64
}

func NewFakePlayerResolver() *FakePlayerResolver {
	return &FakePlayerResolver{
		byName: make(map[string]int64),
		Banned: make(map[string]bool),
	}
}

func (f *FakePlayerResolver) ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error) {
	id, ok := f.byName[name]
	if !ok {
		f.nextID++
		id = f.nextID
		f.byName[name] = id
	}
	return playerdomain.DatabasePlayer{ID: id, Name: name, Banned: f.Banned[name]}, nil
}

func (f *FakePlayerResolver) GetPlayer(ctx context.Context, id int64) (playerdomain.Player, error) {
	for name, playerID := range f.byName {
		if playerID == id {
			return playerdomain.Player{
				DatabasePlayer: playerdomain.DatabasePlayer{ID: id, Name: name, Banned: f.Banned[name]},
			}, nil
		}
	}
	return playerdomain.Player{}, playerdomain.NotFoundError{ID: id}
}

// FakeScoreRecalculator records per-player recompute requests.
type FakeScoreRecalculator struct {
	PlayerIDs []int64
}

func (f *FakeScoreRecalculator) RecomputeScore(ctx context.Context, db bun.IDB, playerID int64) (float64, error) {
	f.PlayerIDs = append(f.PlayerIDs, playerID)
	return 0, nil
}

// FakeEventBus captures published topics.
type FakeEventBus struct {
	Topics []string
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.Topics = append(f.Topics, topic)
	return nil
}

func (f *FakeEventBus) Close() error { return nil }

type recordServiceFixture struct {
	repo    *FakeRecordRepo
	demons  *FakeDemonReader
	players *FakePlayerResolver
	scores  *FakeScoreRecalculator
	bus     *FakeEventBus
	service *RecordService
}

func newRecordServiceFixture() *recordServiceFixture {
	repo := NewFakeRecordRepo()
	demons := &FakeDemonReader{Demons: make(map[int64]*demondb.Demon)}
	players := NewFakePlayerResolver()
	scores := &FakeScoreRecalculator{}
	bus := &FakeEventBus{}

	service := NewRecordService(
		repo, demons, players, scores,
		fakeVideoValidator{},
		config.StaticThresholds{List: 75, Extended: 150},
		bus,
		slog.New(slog.DiscardHandler),
		&metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)

	return &recordServiceFixture{
		repo:    repo,
		demons:  demons,
		players: players,
		scores:  scores,
		bus:     bus,
		service: service,
	}
}

// fakeVideoValidator accepts everything except the "reject" marker and tags
// accepted URLs so tests can see canonicalization happened.
type fakeVideoValidator struct{}

func (fakeVideoValidator) Validate(rawURL string) (string, error) {
	if rawURL == "reject" {
		return "", errors.New("unsupported video host")
	}
	return "canonical:" + rawURL, nil
}
