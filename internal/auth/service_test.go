package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"authgate.org/internal/validate"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	tokens, err := NewTokens("test-secret", "authgate", "authgate-clients")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return NewService(store, tokens), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cred, err := svc.Register(ctx, "alice", "Passw0rd")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if cred.ID == "" {
		t.Fatal("expected generated record ID")
	}
	if cred.Role != RoleUser {
		t.Fatalf("role = %q, want %q", cred.Role, RoleUser)
	}
	if cred.Email != "alice@example.com" {
		t.Fatalf("email = %q", cred.Email)
	}
	if cred.PasswordDigest == "Passw0rd" {
		t.Fatal("plaintext must not be persisted")
	}

	session, err := svc.Login(ctx, "alice", "Passw0rd")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if session.Username != "alice" || session.Role != RoleUser {
		t.Fatalf("unexpected session identity: %+v", session)
	}
	if time.Until(session.ExpiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", session.ExpiresAt)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "Passw0rd"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "Other1pass"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "short")
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validate.Error, got %v", err)
	}
	if len(verr.Messages) == 0 {
		t.Fatal("expected violation messages")
	}
	empty, err := store.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatal("rejected registration must not persist a record")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "Passw0rd"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "alice", "Wrong1pass")
	_, unknownUser := svc.Login(ctx, "mallory", "Wrong1pass")

	if !errors.Is(wrongPassword, ErrUnauthorized) {
		t.Fatalf("wrong password: expected ErrUnauthorized, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrUnauthorized) {
		t.Fatalf("unknown user: expected ErrUnauthorized, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("outcomes must not differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestLoginIssuedTokenVerifies(t *testing.T) {
	store := NewMemoryStore()
	tokens, err := NewTokens("test-secret", "authgate", "authgate-clients")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	svc := NewService(store, tokens)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob_99", "Sup3rSecret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	session, err := svc.Login(ctx, "bob_99", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := tokens.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "bob_99" || claims.Role != RoleUser {
		t.Fatalf("unexpected claims: subject=%q role=%q", claims.Subject, claims.Role)
	}
}
