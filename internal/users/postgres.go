package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"authgate.org/internal/ids"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, email, created_at from profiles order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *PGStore) Find(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, email, created_at from profiles where id=$1`, id)
	var p Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) Create(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into profiles(id, name, email, created_at) values($1,$2,$3,$4)`,
		p.ID, p.Name, p.Email, p.CreatedAt)
	return err
}

func (s *PGStore) Update(ctx context.Context, p *Profile) error {
	res, err := s.db.ExecContext(ctx,
		`update profiles set name=$2, email=$3 where id=$1`,
		p.ID, p.Name, p.Email)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from profiles where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
