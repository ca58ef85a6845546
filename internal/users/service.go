package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"authgate.org/internal/validate"
)

// Service validates and executes directory operations.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.store.Find(ctx, id)
}

// Create validates and persists a new profile.
func (s *Service) Create(ctx context.Context, name, email string) (*Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validate.Profile(name, email); err != nil {
		return nil, err
	}
	p := &Profile{Name: name, Email: email, CreatedAt: s.now().UTC()}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Update validates and replaces the name/email of an existing profile.
func (s *Service) Update(ctx context.Context, id, name, email string) (*Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validate.Profile(name, email); err != nil {
		return nil, err
	}
	p, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Email = email
	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
