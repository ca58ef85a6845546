package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"authgate.org/internal/ids"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PGStore implements Store on PostgreSQL via database/sql.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Ping checks store connectivity for the bootstrap sequencer and the
// readiness probe.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PGStore) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password_digest, email, role, created_at from credentials where username=$1`,
		username)
	var c Credential
	if err := row.Scan(&c.ID, &c.Username, &c.PasswordDigest, &c.Email, &c.Role, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PGStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from credentials where username=$1)`, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PGStore) Insert(ctx context.Context, c *Credential) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into credentials(id, username, password_digest, email, role, created_at)
		 values($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Username, c.PasswordDigest, c.Email, c.Role, c.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (s *PGStore) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `select exists(select 1 from credentials)`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
