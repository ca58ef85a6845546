package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"authgate.org/internal/validate"
)

// Service implements the register and login use cases over a credential
// store, the password hasher and the token issuer. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	store  Store
	tokens *Tokens
	now    func() time.Time
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

func NewService(store Store, tokens *Tokens, opts ...ServiceOption) *Service {
	svc := &Service{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// PlaceholderEmail derives the provisional email stored at registration.
// Profile flows may replace it later; this subsystem never does.
func PlaceholderEmail(username string) string {
	return username + "@example.com"
}

// Register validates the input, checks username availability and persists
// a new credential record with the User role. A *validate.Error reports
// field violations; ErrAlreadyExists reports a taken username.
func (s *Service) Register(ctx context.Context, username, password string) (*Credential, error) {
	username = strings.TrimSpace(username)
	if err := validate.Credentials(username, password); err != nil {
		return nil, err
	}
	exists, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}
	digest, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	cred := &Credential{
		Username:       username,
		PasswordDigest: digest,
		Email:          PlaceholderEmail(username),
		Role:           RoleUser,
		CreatedAt:      s.now().UTC(),
	}
	// The availability pre-check above is only a fast path: the store's
	// unique index resolves two concurrent registrations for the same
	// name, and the loser surfaces here as ErrAlreadyExists.
	if err := s.store.Insert(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Login authenticates the credentials and issues a session token. Unknown
// usernames and wrong passwords both collapse to ErrUnauthorized so the
// caller cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if err := validate.Credentials(username, password); err != nil {
		return nil, err
	}
	cred, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := VerifyPassword(cred.PasswordDigest, password); err != nil {
		return nil, ErrUnauthorized
	}
	token, expiresAt, err := s.tokens.Issue(cred.Username, cred.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  cred.Username,
		Role:      cred.Role,
	}, nil
}
