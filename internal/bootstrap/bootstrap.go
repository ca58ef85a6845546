// Package bootstrap brings the credential store to a usable state before
// the service starts accepting traffic: reach the store, apply pending
// migrations, and seed the default administrative record on first run.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"authgate.org/internal/auth"
)

// Store is the slice of the record collaborator the sequencer consumes.
type Store interface {
	Ping(ctx context.Context) error
	IsEmpty(ctx context.Context) (bool, error)
	Insert(ctx context.Context, c *auth.Credential) error
}

// Migrator applies pending schema migrations. A nil Migrator skips the
// migration step (in-memory stores have no schema).
type Migrator interface {
	Up(ctx context.Context) error
}

const (
	DefaultAttempts = 10
	DefaultDelay    = 5 * time.Second

	adminUsername = "admin"
	// Seeded on first run only; deployments rotate it after first login.
	defaultAdminPassword = "Admin123"
)

// Sequencer retries connectivity and migrations with a fixed delay and a
// bounded attempt count. Exhausting the attempts fails startup; there is
// no degraded log-and-continue mode.
type Sequencer struct {
	store    Store
	migrator Migrator
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
	logf     func(format string, args ...any)
}

// Option configures the sequencer.
type Option func(*Sequencer)

// WithAttempts overrides the bounded attempt count.
func WithAttempts(n int) Option {
	return func(s *Sequencer) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithDelay overrides the fixed inter-attempt delay.
func WithDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithSleep overrides the sleep function (useful for tests).
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Sequencer) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithLogf overrides the progress logger.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(s *Sequencer) {
		if fn != nil {
			s.logf = fn
		}
	}
}

func New(store Store, migrator Migrator, opts ...Option) *Sequencer {
	s := &Sequencer{
		store:    store,
		migrator: migrator,
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		sleep:    time.Sleep,
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the bootstrap sequence. It is idempotent: against an
// already-migrated, already-seeded store it reduces to a connectivity
// check and no-op migration pass.
func (s *Sequencer) Run(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.prepare(ctx)
		if lastErr == nil {
			return s.seed(ctx)
		}
		s.logf("bootstrap attempt %d/%d failed: %v", attempt, s.attempts, lastErr)
		if attempt < s.attempts {
			s.sleep(s.delay)
		}
	}
	return fmt.Errorf("bootstrap: store not ready after %d attempts: %w", s.attempts, lastErr)
}

func (s *Sequencer) prepare(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	if s.migrator == nil {
		return nil
	}
	if err := s.migrator.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Sequencer) seed(ctx context.Context) error {
	empty, err := s.store.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !empty {
		return nil
	}
	digest, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	cred := &auth.Credential{
		Username:       adminUsername,
		PasswordDigest: digest,
		Email:          auth.PlaceholderEmail(adminUsername),
		Role:           auth.RoleAdmin,
	}
	if err := s.store.Insert(ctx, cred); err != nil {
		// Another replica finished bootstrapping between our emptiness
		// check and the insert.
		if errors.Is(err, auth.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("seed admin record: %w", err)
	}
	s.logf("seeded default administrative record %q", adminUsername)
	return nil
}
