package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and ledger rows in process memory. It mirrors the
// Postgres schema: unique usernames, NOT NULL entry columns and
// auto-increment ids that are never reused.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	userSeq int64
	ledgers map[models.Kind]*ledger
}

type ledger struct {
	seq  int64
	rows map[int64]models.Entry
}

// NewStore returns an empty store with one ledger per kind.
func NewStore() *Store {
	s := &Store{
		users:   make(map[string]models.User),
		ledgers: make(map[models.Kind]*ledger, len(models.Kinds)),
	}
	for _, k := range models.Kinds {
		s.ledgers[k] = &ledger{rows: make(map[int64]models.Entry)}
	}
	return s
}

// Ping always succeeds; there is no connection to check.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts a user, rejecting duplicate usernames with storage.ErrAlreadyExists.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.userSeq++
	user.ID = s.userSeq
	s.users[user.Username] = user
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) ledger(kind models.Kind) (*ledger, error) {
	l, ok := s.ledgers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownKind, string(kind))
	}
	return l, nil
}

// ListEntries returns every row of the ledger ordered by id.
func (s *Store) ListEntries(_ context.Context, kind models.Kind) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.ledger(kind)
	if err != nil {
		return nil, err
	}
	return l.sorted(func(a, b models.Entry) bool { return a.ID < b.ID }), nil
}

// CreateEntry inserts a row, failing like a NOT NULL violation when a field is missing.
func (s *Store) CreateEntry(_ context.Context, kind models.Kind, fields models.EntryFields) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledger(kind)
	if err != nil {
		return models.Entry{}, err
	}
	e, err := build(kind, fields)
	if err != nil {
		return models.Entry{}, err
	}
	l.seq++
	e.ID = l.seq
	l.rows[e.ID] = e
	return e, nil
}

// UpdateEntry overwrites the row with the given id. Unknown ids are a no-op,
// matching an UPDATE that touches no rows.
func (s *Store) UpdateEntry(_ context.Context, kind models.Kind, id int64, fields models.EntryFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledger(kind)
	if err != nil {
		return err
	}
	if _, ok := l.rows[id]; !ok {
		return nil
	}
	e, err := build(kind, fields)
	if err != nil {
		return err
	}
	e.ID = id
	l.rows[id] = e
	return nil
}

// DeleteEntry removes the row with the given id.
func (s *Store) DeleteEntry(_ context.Context, kind models.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledger(kind)
	if err != nil {
		return err
	}
	delete(l.rows, id)
	return nil
}

// DailyTotals sums amounts per date, oldest first.
func (s *Store) DailyTotals(_ context.Context, kind models.Kind) ([]models.DailyTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.ledger(kind)
	if err != nil {
		return nil, err
	}
	totals := []models.DailyTotal{}
	index := make(map[string]int)
	for _, e := range l.sorted(byDate) {
		i, ok := index[e.Date.String()]
		if !ok {
			i = len(totals)
			index[e.Date.String()] = i
			totals = append(totals, models.DailyTotal{Date: e.Date})
		}
		totals[i].Total += e.Amount
	}
	return totals, nil
}

// Series returns raw (date, amount) pairs, oldest first.
func (s *Store) Series(_ context.Context, kind models.Kind) ([]models.SeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.ledger(kind)
	if err != nil {
		return nil, err
	}
	entries := l.sorted(byDate)
	points := make([]models.SeriesPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, models.SeriesPoint{Date: e.Date, Amount: e.Amount})
	}
	return points, nil
}

func (l *ledger) sorted(less func(a, b models.Entry) bool) []models.Entry {
	out := make([]models.Entry, 0, len(l.rows))
	for _, e := range l.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byDate(a, b models.Entry) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date.Time)
	}
	return a.ID < b.ID
}

func build(kind models.Kind, fields models.EntryFields) (models.Entry, error) {
	switch {
	case fields.Username == nil:
		return models.Entry{}, notNull(kind, "username")
	case fields.Amount == nil:
		return models.Entry{}, notNull(kind, "amount")
	case fields.Date == nil:
		return models.Entry{}, notNull(kind, "date")
	}
	return models.Entry{
		Username: *fields.Username,
		Amount:   *fields.Amount,
		Date:     *fields.Date,
	}, nil
}

func notNull(kind models.Kind, column string) error {
	return fmt.Errorf("null value in column %q of relation %q violates not-null constraint", column, kind.Table())
}
