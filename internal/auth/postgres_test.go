package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGStoreFindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "username", "password_digest", "email", "role", "created_at"}).
		AddRow("01ABC", "alice", "digest", "alice@example.com", "User", created)
	mock.ExpectQuery("select id, username, password_digest, email, role, created_at from credentials").
		WithArgs("alice").WillReturnRows(rows)

	cred, err := store.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if cred.Username != "alice" || cred.Role != "User" || !cred.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", cred)
	}

	mock.ExpectQuery("select id, username, password_digest, email, role, created_at from credentials").
		WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := store.FindByUsername(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreExistsByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectQuery("select exists").WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.ExistsByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ExistsByUsername: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreInsertUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectExec("insert into credentials").
		WithArgs(sqlmock.AnyArg(), "alice", "digest", "alice@example.com", "User", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "credentials_username_key"})

	err = store.Insert(context.Background(), &Credential{
		Username:       "alice",
		PasswordDigest: "digest",
		Email:          "alice@example.com",
		Role:           RoleUser,
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreInsertAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectExec("insert into credentials").
		WithArgs(sqlmock.AnyArg(), "bob", "digest", "bob@example.com", "User", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cred := &Credential{Username: "bob", PasswordDigest: "digest", Email: "bob@example.com", Role: RoleUser}
	if err := store.Insert(context.Background(), cred); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if cred.ID == "" || cred.CreatedAt.IsZero() {
		t.Fatalf("Insert must assign ID and CreatedAt: %+v", cred)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectQuery("select exists").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	empty, err := store.IsEmpty(context.Background())
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatal("expected empty store")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
