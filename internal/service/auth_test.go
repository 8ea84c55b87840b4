package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/voip-user-api/internal/apperror"
	"github.com/sakif/voip-user-api/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *UserService) {
	t.Helper()

	repo := newMockRepo()
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	return NewAuthService(repo, tokens, passwords, testLogger()),
		NewUserService(repo, passwords, testLogger())
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	created := mustCreate(t, userSvc, validCreateInput())

	result, err := authSvc.Login(context.Background(), "johndoe", "securepass123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
	if result.Identity.ID != created.ID || result.Identity.Username != "johndoe" || result.Identity.Name != "John Doe" {
		t.Errorf("Login() identity = %+v", result.Identity)
	}
}

func TestLogin_IssuedTokenResolvesBack(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	mustCreate(t, userSvc, validCreateInput())

	result, err := authSvc.Login(context.Background(), "johndoe", "securepass123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	id, err := authSvc.ResolveSubject(context.Background(), result.Identity.Username)
	if err != nil {
		t.Fatalf("ResolveSubject() error = %v", err)
	}
	if id.Username != "johndoe" {
		t.Errorf("ResolveSubject() username = %q", id.Username)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	mustCreate(t, userSvc, validCreateInput())

	// Unknown username and wrong password must produce the same error kind
	// and the same message — the response may not leak which usernames
	// exist.
	_, errUnknown := authSvc.Login(context.Background(), "nobody", "securepass123")
	_, errWrongPw := authSvc.Login(context.Background(), "johndoe", "wrongpassword")

	for _, err := range []error{errUnknown, errWrongPw} {
		if !errors.Is(err, apperror.ErrInvalidCredentials) {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("Login() messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestResolveSubject_DeletedAccount(t *testing.T) {
	authSvc, userSvc := newTestAuthService(t)
	created := mustCreate(t, userSvc, validCreateInput())

	if err := userSvc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := authSvc.ResolveSubject(context.Background(), "johndoe"); err == nil {
		t.Error("ResolveSubject() succeeded for a deleted account")
	}
}
