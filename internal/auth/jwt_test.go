package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/studyhub/backend/internal/auth"
)

func TestIssueAndVerify(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	id := auth.Identity{UserID: "user-1", Email: "sam@example.com", Name: "Sam"}
	token, err := svc.IssueToken(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("expected %+v, got %+v", id, got)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := auth.NewService("secret-a", time.Hour).IssueToken(auth.Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = auth.NewService("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", -time.Minute)

	token, err := svc.IssueToken(auth.Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !auth.CheckPassword(hash, "hunter2hunter2") {
		t.Error("expected matching password to verify")
	}
	if auth.CheckPassword(hash, "wrong-password") {
		t.Error("expected non-matching password to fail")
	}
}
