package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawtrails/pawtrails-api/internal/domain/auth"
	"github.com/pawtrails/pawtrails-api/internal/pkg/jwt"
	"github.com/pawtrails/pawtrails-api/internal/pkg/password"
)

var adminColumns = []string{"id", "email", "password_hash", "role", "created_at"}

func newTestService(t *testing.T) (*auth.Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	svc := auth.NewService(auth.NewRepository(db), jwt.NewService("test-secret", time.Hour))
	return svc, mock, func() { db.Close() }
}

func TestLoginSuccess(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	hash, err := password.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	userID := uuid.New()

	mock.ExpectQuery("FROM admin_users").
		WithArgs("ops@pawtrails.app").
		WillReturnRows(sqlmock.NewRows(adminColumns).
			AddRow(userID.String(), "ops@pawtrails.app", hash, "admin", time.Now()))

	result, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "  Ops@PawTrails.app ",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if result.User.ID != userID {
		t.Fatalf("expected user %s, got %s", userID, result.User.ID)
	}

	claims, err := jwt.NewService("test-secret", time.Hour).ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin role in claims, got %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	hash, _ := password.Hash("the-real-password")
	mock.ExpectQuery("FROM admin_users").
		WillReturnRows(sqlmock.NewRows(adminColumns).
			AddRow(uuid.New().String(), "ops@pawtrails.app", hash, "admin", time.Now()))

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ops@pawtrails.app",
		Password: "a-guess",
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectQuery("FROM admin_users").
		WillReturnRows(sqlmock.NewRows(adminColumns))

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@pawtrails.app",
		Password: "whatever-1234",
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
