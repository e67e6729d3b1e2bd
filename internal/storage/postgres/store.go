package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users, expenses and incomes.
type Store struct {
	pool *pgxpool.Pool
}

// Options tunes the connection pool.
type Options struct {
	MaxConns int32
}

// NewStore creates a new Store and bootstraps the schema.
func NewStore(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that a connection can be acquired and used.
func (s *Store) Ping(ctx context.Context) error {
	return classify(s.pool.Ping(ctx))
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			date DATE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS incomes (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			date DATE NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS expenses_date_idx ON expenses (date);`,
		`CREATE INDEX IF NOT EXISTS incomes_date_idx ON incomes (date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", classify(err))
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, username, password;
	`
	row := s.pool.QueryRow(ctx, query, user.Username, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT id, username, password FROM users WHERE username = $1;`
	row := s.pool.QueryRow(ctx, query, username)
	return scanUser(row)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, classify(err)
	}
	return user, nil
}

// classify maps driver connection failures onto storage.ErrUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return err
}
