package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/expense-tracker-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrUnavailable indicates the database could not be reached.
var ErrUnavailable = errors.New("database unavailable")

// ErrUnknownKind is returned for a ledger kind the store does not know.
var ErrUnknownKind = errors.New("unknown entry kind")

// UserStore captures persistence operations needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// EntryStore persists expense and income rows. Update and Delete of an
// unknown id succeed without effect.
type EntryStore interface {
	ListEntries(ctx context.Context, kind models.Kind) ([]models.Entry, error)
	CreateEntry(ctx context.Context, kind models.Kind, fields models.EntryFields) (models.Entry, error)
	UpdateEntry(ctx context.Context, kind models.Kind, id int64, fields models.EntryFields) error
	DeleteEntry(ctx context.Context, kind models.Kind, id int64) error
	DailyTotals(ctx context.Context, kind models.Kind) ([]models.DailyTotal, error)
	Series(ctx context.Context, kind models.Kind) ([]models.SeriesPoint, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	EntryStore
	Ping(ctx context.Context) error
	Close()
}
