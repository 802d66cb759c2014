package databases

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

// Compile-time checks that the in-memory stores satisfy the same contracts as
// the mongo backed ones.
var (
	_ FIRStore     = (*MemoryFIRStore)(nil)
	_ UserDatabase = (*MemoryUserDatabase)(nil)
)

type memoryState struct {
	firs      map[int64]models.FIR
	numbers   map[string]int64
	history   map[int64][]models.FIRHistory
	counters  map[string]int64
	snapshots []models.DashboardSnapshot
}

func newMemoryState() memoryState {
	return memoryState{
		firs:     make(map[int64]models.FIR),
		numbers:  make(map[string]int64),
		history:  make(map[int64][]models.FIRHistory),
		counters: make(map[string]int64),
	}
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		firs:      make(map[int64]models.FIR, len(s.firs)),
		numbers:   make(map[string]int64, len(s.numbers)),
		history:   make(map[int64][]models.FIRHistory, len(s.history)),
		counters:  make(map[string]int64, len(s.counters)),
		snapshots: append([]models.DashboardSnapshot(nil), s.snapshots...),
	}
	for id, fir := range s.firs {
		c.firs[id] = fir.Clone()
	}
	for number, id := range s.numbers {
		c.numbers[number] = id
	}
	for id, entries := range s.history {
		c.history[id] = append([]models.FIRHistory(nil), entries...)
	}
	for name, seq := range s.counters {
		c.counters[name] = seq
	}
	return c
}

// MemoryFIRStore is a FIRStore kept entirely in process memory, used by
// tests and by the `memory` store driver for ephemeral environments.
// Transactions run one at a time against a private copy of the state which
// replaces the live state only when the callback succeeds.
type MemoryFIRStore struct {
	mu    sync.RWMutex
	state memoryState
}

// NewMemoryFIRStore returns an empty in-memory store
func NewMemoryFIRStore() *MemoryFIRStore {
	return &MemoryFIRStore{state: newMemoryState()}
}

// WithTransaction runs fn against a copy of the store and commits the copy if
// fn returns nil
func (s *MemoryFIRStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx FIRTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{state: s.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *MemoryFIRStore) FindByID(_ context.Context, id int64) (*models.FIR, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.findByID(id)
}

func (s *MemoryFIRStore) FindByNumber(_ context.Context, firNumber string) (*models.FIR, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.state.numbers[firNumber]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, "fir")
	}
	return s.state.findByID(id)
}

func (s *MemoryFIRStore) Find(_ context.Context, criterion query.Criterion, order query.Sort) ([]models.FIR, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.find(criterion, order), nil
}

func (s *MemoryFIRStore) FindPage(_ context.Context, criterion query.Criterion, order query.Sort, page query.Pageable) ([]models.FIR, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.state.find(criterion, order)
	total := int64(len(all))
	start := page.Offset()
	if start >= total {
		return []models.FIR{}, total, nil
	}
	end := start + int64(page.Size)
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *MemoryFIRStore) Count(_ context.Context, criterion query.Criterion) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, fir := range s.state.firs {
		fir := fir
		if criterion.Matches(&fir) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryFIRStore) CountByIncidentType(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, fir := range s.state.firs {
		counts[fir.IncidentType]++
	}
	return counts, nil
}

func (s *MemoryFIRStore) History(_ context.Context, firID int64) ([]models.FIRHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]models.FIRHistory{}, s.state.history[firID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *MemoryFIRStore) NextSequence(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.next(name), nil
}

func (s *MemoryFIRStore) SaveSnapshot(_ context.Context, snapshot models.DashboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.snapshots = append(s.state.snapshots, snapshot)
	return nil
}

// Snapshots returns the dashboard snapshots saved so far, oldest first
func (s *MemoryFIRStore) Snapshots() []models.DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DashboardSnapshot(nil), s.state.snapshots...)
}

func (st *memoryState) findByID(id int64) (*models.FIR, error) {
	fir, ok := st.firs[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, "fir")
	}
	c := fir.Clone()
	return &c, nil
}

func (st *memoryState) find(criterion query.Criterion, order query.Sort) []models.FIR {
	out := []models.FIR{}
	for _, fir := range st.firs {
		fir := fir
		if criterion.Matches(&fir) {
			out = append(out, fir.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return order.Less(&out[i], &out[j])
	})
	return out
}

func (st *memoryState) next(name string) int64 {
	st.counters[name]++
	return st.counters[name]
}

type memoryTx struct {
	state memoryState
}

func (t *memoryTx) FindByID(_ context.Context, id int64) (*models.FIR, error) {
	return t.state.findByID(id)
}

func (t *memoryTx) NextSequence(_ context.Context, name string) (int64, error) {
	return t.state.next(name), nil
}

func (t *memoryTx) InsertFIR(_ context.Context, fir *models.FIR) error {
	if _, taken := t.state.numbers[fir.FIRNumber]; taken {
		return errors.Wrapf(ErrConflict, "fir number %s", fir.FIRNumber)
	}
	if fir.ID == 0 {
		fir.ID = t.state.next(firIDSequence)
	}
	if _, taken := t.state.firs[fir.ID]; taken {
		return errors.Wrapf(ErrConflict, "fir id %d", fir.ID)
	}
	t.state.firs[fir.ID] = fir.Clone()
	t.state.numbers[fir.FIRNumber] = fir.ID
	return nil
}

func (t *memoryTx) UpdateFIR(_ context.Context, fir *models.FIR) error {
	current, ok := t.state.firs[fir.ID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "fir %d", fir.ID)
	}
	if current.FIRNumber != fir.FIRNumber {
		if _, taken := t.state.numbers[fir.FIRNumber]; taken {
			return errors.Wrapf(ErrConflict, "fir number %s", fir.FIRNumber)
		}
		delete(t.state.numbers, current.FIRNumber)
		t.state.numbers[fir.FIRNumber] = fir.ID
	}
	t.state.firs[fir.ID] = fir.Clone()
	return nil
}

func (t *memoryTx) InsertHistory(_ context.Context, entry *models.FIRHistory) error {
	if _, ok := t.state.firs[entry.FIRID]; !ok {
		return errors.Wrapf(ErrNotFound, "fir %d", entry.FIRID)
	}
	if entry.ID == 0 {
		entry.ID = t.state.next(historyIDSequence)
	}
	t.state.history[entry.FIRID] = append(t.state.history[entry.FIRID], *entry)
	return nil
}

// MemoryUserDatabase is a UserDatabase backed by a map
type MemoryUserDatabase struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

// NewMemoryUserDatabase returns a user database seeded with users
func NewMemoryUserDatabase(users ...models.User) *MemoryUserDatabase {
	m := &MemoryUserDatabase{users: make(map[int64]models.User)}
	m.Add(users...)
	return m
}

// Add inserts or replaces users
func (m *MemoryUserDatabase) Add(users ...models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.ID] = u
	}
}

func (m *MemoryUserDatabase) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, "user")
	}
	return &u, nil
}

func (m *MemoryUserDatabase) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryUserDatabase) CountByRole(_ context.Context, role models.Role) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
