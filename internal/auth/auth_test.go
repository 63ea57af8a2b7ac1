package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() = true for wrong password")
	}
}

func testUser() *entity.User {
	return &entity.User{
		ID:       "u1",
		Username: "alice",
		FullName: "Alice A",
		Roles:    []workflow.Role{workflow.RoleRequester, workflow.RoleFinancial},
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Errorf("claims = %s/%s, want u1/alice", claims.UserID, claims.Username)
	}
	if len(claims.Roles) != 2 {
		t.Errorf("roles = %v, want 2 roles", claims.Roles)
	}

	actor := claims.Actor()
	if actor.ID != "u1" || actor.DisplayName != "Alice A" {
		t.Errorf("actor = %+v", actor)
	}
	if !actor.HasRole(workflow.RoleFinancial) {
		t.Error("actor lost the financial role")
	}
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
