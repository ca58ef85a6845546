// Package users is the profile directory behind the protected /api/users
// surface: plain name/email records, separate from credential records.
package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("users: not found")

// Profile is a directory entry.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists profiles.
type Store interface {
	List(ctx context.Context) ([]Profile, error)
	Find(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
}
