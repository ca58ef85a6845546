package auth

import (
	"errors"
	"testing"
)

func TestHashPasswordDeterministic(t *testing.T) {
	first, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical digests, got %q and %q", first, second)
	}
	if first == "Passw0rd" {
		t.Fatalf("digest must not equal the plaintext")
	}
	// SHA-256 rendered as base64 is always 44 characters.
	if len(first) != 44 {
		t.Fatalf("unexpected digest length %d", len(first))
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	digest, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(digest, "Sup3rSecret"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(digest, "sup3rsecret"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if err := VerifyPassword("", "Sup3rSecret"); err == nil {
		t.Fatal("expected error for empty digest")
	}
}
