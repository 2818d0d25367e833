package demonservice

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	demondb "github.com/demonlist-club/demonlist-backend/app/modules/demon/infrastructure/repositories"
	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
	recorddb "github.com/demonlist-club/demonlist-backend/app/modules/record/infrastructure/repositories"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
)

// FakeDemonRepo is an in-memory demondb.Repository. It implements the shift
// primitives with real position arithmetic so the tests can assert the
// contiguity invariant after each operation.
type FakeDemonRepo struct {
	demons   map[int64]*demondb.Demon
	creators map[int64][]int64
	nextID   int64

	// FailOn forces the named method to return the given error.
	FailOn map[string]error
}

func NewFakeDemonRepo() *FakeDemonRepo {
	return &FakeDemonRepo{
		demons:   make(map[int64]*demondb.Demon),
		creators: make(map[int64][]int64),
		FailOn:   make(map[string]error),
	}
}

// Seed inserts demons back to back starting at position 1.
func (f *FakeDemonRepo) Seed(names ...string) {
	for _, name := range names {
		f.nextID++
		f.demons[f.nextID] = &demondb.Demon{
			ID:          f.nextID,
			Position:    len(f.demons) + 1,
			Name:        name,
			Requirement: 100,
			Difficulty:  "extreme",
		}
	}
}

func (f *FakeDemonRepo) fail(method string) error {
	if err, ok := f.FailOn[method]; ok {
		return err
	}
	return nil
}

func (f *FakeDemonRepo) MaxPosition(ctx context.Context, db bun.IDB) (int, error) {
	if err := f.fail("MaxPosition"); err != nil {
		return 0, err
	}
	max := 0
	for _, d := range f.demons {
		if d.Position > max {
			max = d.Position
		}
	}
	return max, nil
}

func (f *FakeDemonRepo) ShiftDown(ctx context.Context, db bun.IDB, startingAt int) error {
	if err := f.fail("ShiftDown"); err != nil {
		return err
	}
	for _, d := range f.demons {
		if d.Position >= startingAt {
			d.Position++
		}
	}
	return nil
}

func (f *FakeDemonRepo) ShiftUp(ctx context.Context, db bun.IDB, above int) error {
	if err := f.fail("ShiftUp"); err != nil {
		return err
	}
	for _, d := range f.demons {
		if d.Position > above {
			d.Position--
		}
	}
	return nil
}

func (f *FakeDemonRepo) ShiftRange(ctx context.Context, db bun.IDB, from, to, delta int) error {
	if err := f.fail("ShiftRange"); err != nil {
		return err
	}
	for _, d := range f.demons {
		if d.Position >= from && d.Position <= to {
			d.Position += delta
		}
	}
	return nil
}

func (f *FakeDemonRepo) Insert(ctx context.Context, db bun.IDB, demon *demondb.Demon) error {
	if err := f.fail("Insert"); err != nil {
		return err
	}
	f.nextID++
	demon.ID = f.nextID
	stored := *demon
	f.demons[demon.ID] = &stored
	return nil
}

func (f *FakeDemonRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*demondb.Demon, error) {
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	d, ok := f.demons[id]
	if !ok {
		return nil, demondb.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *FakeDemonRepo) GetByPosition(ctx context.Context, db bun.IDB, position int) (*demondb.Demon, error) {
	for _, d := range f.demons {
		if d.Position == position {
			copied := *d
			return &copied, nil
		}
	}
	return nil, demondb.ErrNotFound
}

func (f *FakeDemonRepo) GetRequirement(ctx context.Context, db bun.IDB, id int64) (int, error) {
	d, ok := f.demons[id]
	if !ok {
		return 0, demondb.ErrNotFound
	}
	return d.Requirement, nil
}

func (f *FakeDemonRepo) Update(ctx context.Context, db bun.IDB, demon *demondb.Demon) error {
	if err := f.fail("Update"); err != nil {
		return err
	}
	if _, ok := f.demons[demon.ID]; !ok {
		return demondb.ErrNoRowsAffected
	}
	stored := *demon
	f.demons[demon.ID] = &stored
	return nil
}

func (f *FakeDemonRepo) SetPosition(ctx context.Context, db bun.IDB, id int64, position int) error {
	if err := f.fail("SetPosition"); err != nil {
		return err
	}
	d, ok := f.demons[id]
	if !ok {
		return demondb.ErrNoRowsAffected
	}
	d.Position = position
	return nil
}

func (f *FakeDemonRepo) Delete(ctx context.Context, db bun.IDB, id int64) error {
	if err := f.fail("Delete"); err != nil {
		return err
	}
	if _, ok := f.demons[id]; !ok {
		return demondb.ErrNoRowsAffected
	}
	delete(f.demons, id)
	return nil
}

func (f *FakeDemonRepo) AddCreator(ctx context.Context, db bun.IDB, demonID, playerID int64) error {
	if err := f.fail("AddCreator"); err != nil {
		return err
	}
	f.creators[demonID] = append(f.creators[demonID], playerID)
	return nil
}

func (f *FakeDemonRepo) CreatorIDs(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	return f.creators[demonID], nil
}

func (f *FakeDemonRepo) AllPositions(ctx context.Context, db bun.IDB) ([]int, error) {
	positions := make([]int, 0, len(f.demons))
	for _, d := range f.demons {
		positions = append(positions, d.Position)
	}
	sort.Ints(positions)
	return positions, nil
}

var _ demondb.Repository = (*FakeDemonRepo)(nil)

// FakePlayerResolver hands out stable ids per name.
type FakePlayerResolver struct {
	byName map[string]int64
	nextID int64
	Err    error
}

func NewFakePlayerResolver() *FakePlayerResolver {
	return &FakePlayerResolver{byName: make(map[string]int64)}
}

func (f *FakePlayerResolver) ResolveOrCreate(ctx context.Context, db bun.IDB, name string) (playerdomain.DatabasePlayer, error) {
	if f.Err != nil {
		return playerdomain.DatabasePlayer{}, f.Err
	}
	id, ok := f.byName[name]
	if !ok {
		f.nextID++
		id = f.nextID
		f.byName[name] = id
	}
	return playerdomain.DatabasePlayer{ID: id, Name: name}, nil
}

// FakeScoreRecalculator records the recompute requests it receives.
type FakeScoreRecalculator struct {
	Ranges    [][2]int
	PlayerIDs [][]int64
	Err       error
}

func (f *FakeScoreRecalculator) RecomputeScoresForPositionRange(ctx context.Context, db bun.IDB, from, to int) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ranges = append(f.Ranges, [2]int{from, to})
	return nil
}

func (f *FakeScoreRecalculator) RecomputeScores(ctx context.Context, db bun.IDB, playerIDs []int64) error {
	if f.Err != nil {
		return f.Err
	}
	f.PlayerIDs = append(f.PlayerIDs, playerIDs)
	return nil
}

// FakeRecordAccess serves canned records and tracks purges.
type FakeRecordAccess struct {
	Approved  map[int64][]*recorddb.Record
	HolderIDs []int64
	Purged    []int64
}

func (f *FakeRecordAccess) ApprovedForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]*recorddb.Record, error) {
	return f.Approved[demonID], nil
}

func (f *FakeRecordAccess) DeleteForDemon(ctx context.Context, db bun.IDB, demonID int64) ([]int64, error) {
	f.Purged = append(f.Purged, demonID)
	return f.HolderIDs, nil
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

type demonServiceFixture struct {
	repo    *FakeDemonRepo
	records *FakeRecordAccess
	players *FakePlayerResolver
	scores  *FakeScoreRecalculator
	bus     *FakeEventBus
	service *DemonService
}

func newDemonServiceFixture() *demonServiceFixture {
	repo := NewFakeDemonRepo()
	records := &FakeRecordAccess{Approved: make(map[int64][]*recorddb.Record)}
	players := NewFakePlayerResolver()
	scores := &FakeScoreRecalculator{}
	bus := &FakeEventBus{}

	service := NewDemonService(
		repo, records, players, scores, bus,
		slog.New(slog.DiscardHandler),
		&metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)

	return &demonServiceFixture{
		repo:    repo,
		records: records,
		players: players,
		scores:  scores,
		bus:     bus,
		service: service,
	}
}

// assertContiguous fails the test when positions are not exactly [1, N].
func assertContiguous(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, repo *FakeDemonRepo,
) {
	t.Helper()
	positions, _ := repo.AllPositions(context.Background(), nil)
	for i, pos := range positions {
		if pos != i+1 {
			t.Fatalf("positions not contiguous: %v", positions)
		}
	}
}
