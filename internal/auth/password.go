package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

// HashPassword derives the stored digest for a plaintext password: SHA-256
// over the UTF-8 bytes, base64 encoded. The digest is deterministic — no
// per-call salt — so equal passwords always produce equal digests.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// VerifyPassword recomputes the digest of the supplied plaintext and
// compares it to the stored digest in constant time. Returns
// ErrUnauthorized on mismatch.
func VerifyPassword(digest, password string) error {
	if digest == "" {
		return errors.New("password digest is empty")
	}
	sum := sha256.Sum256([]byte(password))
	computed := base64.StdEncoding.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
