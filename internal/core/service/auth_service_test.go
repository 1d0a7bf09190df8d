package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/session"
)

func newAuthFixture(users ...domain.User) (*AuthService, *stubIdentity, *stubUserRepo, *session.Store) {
	idp := newStubIdentity()
	repo := newStubUserRepo(users...)
	store := session.NewStore(repo, zerolog.Nop())
	return NewAuthService(idp, repo, store, zerolog.Nop()), idp, repo, store
}

func TestAuthService_Register_CreatesClientAndSignsIn(t *testing.T) {
	svc, _, repo, store := newAuthFixture()

	env := svc.Register(context.Background(), "ana@example.com", "secret1", "<b>Ana</b>")
	if !env.Success {
		t.Fatalf("Register failed: %s", env.Message)
	}
	if env.Message != "Registro exitoso" || env.Context != "registerUser" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Data.Token == "" || env.Data.User == nil {
		t.Fatalf("expected token and user, got %+v", env.Data)
	}
	if env.Data.User.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %q", env.Data.User.Role)
	}

	stored, err := repo.FindByID(context.Background(), env.Data.User.ID)
	if err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if stored.DisplayName != "Ana" {
		t.Fatalf("display name not sanitized: %q", stored.DisplayName)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one open session, got %d", store.Len())
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, idp, _, _ := newAuthFixture()
	idp.add("uid-1", "ana@example.com", "secret1")

	env := svc.Register(context.Background(), "ana@example.com", "secret1", "Ana")
	if env.Success {
		t.Fatalf("expected failure")
	}
	if !errors.Is(env.Err(), domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", env.Err())
	}
}

func TestAuthService_Register_ProfileFailureDiscardsIdentity(t *testing.T) {
	svc, idp, repo, _ := newAuthFixture()
	repo.err = errors.New("mongo down")

	env := svc.Register(context.Background(), "ana@example.com", "secret1", "Ana")
	if env.Success {
		t.Fatalf("expected failure")
	}
	if len(idp.discarded) != 1 || idp.discarded[0] != "uid-ana@example.com" {
		t.Fatalf("expected the new identity to be discarded, got %v", idp.discarded)
	}

	repo.err = nil
	if env := svc.Register(context.Background(), "ana@example.com", "secret1", "Ana"); !env.Success {
		t.Fatalf("email must be free again after the failed attempt: %+v", env)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, idp, _, _ := newAuthFixture(domain.User{ID: "uid-1", Email: "admin@example.com", Role: domain.RoleAdmin})
	idp.add("uid-1", "admin@example.com", "secret1")

	env := svc.Login(context.Background(), " admin@example.com ", "secret1")
	if !env.Success {
		t.Fatalf("Login failed: %s", env.Message)
	}
	if env.Message != "Inicio de sesión exitoso" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if !env.Data.User.IsAdmin() {
		t.Fatalf("expected admin user, got %+v", env.Data.User)
	}
	if !env.Data.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}
}

func TestAuthService_Login_MintsFreshTokenEachTime(t *testing.T) {
	svc, idp, _, _ := newAuthFixture(domain.User{ID: "uid-1", Email: "a@example.com", Role: domain.RoleClient})
	idp.add("uid-1", "a@example.com", "secret1")

	first := svc.Login(context.Background(), "a@example.com", "secret1")
	second := svc.Login(context.Background(), "a@example.com", "secret1")
	if !first.Success || !second.Success {
		t.Fatalf("logins failed: %s / %s", first.Message, second.Message)
	}
	if first.Data.Token == second.Data.Token {
		t.Fatalf("expected a fresh token per login")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, idp, _, _ := newAuthFixture(domain.User{ID: "uid-1", Email: "a@example.com", Role: domain.RoleClient})
	idp.add("uid-1", "a@example.com", "secret1")

	env := svc.Login(context.Background(), "a@example.com", "nope")
	if env.Success || !errors.Is(env.Err(), domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %+v", env)
	}
}

func TestAuthService_Login_SoftDeletedUserRefused(t *testing.T) {
	deletedAt := time.Now()
	u := domain.User{ID: "uid-1", Email: "a@example.com", Role: domain.RoleClient}
	u.Deleted = true
	u.DeletedAt = &deletedAt
	svc, idp, _, store := newAuthFixture(u)
	idp.add("uid-1", "a@example.com", "secret1")

	env := svc.Login(context.Background(), "a@example.com", "secret1")
	if env.Success || !errors.Is(env.Err(), domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %+v", env)
	}
	if len(idp.signedOut) != 1 {
		t.Fatalf("refused session must be revoked, got %d sign-outs", len(idp.signedOut))
	}
	if store.Len() != 0 {
		t.Fatalf("refused session must not stay open")
	}
}

func TestAuthService_Login_MissingProfile(t *testing.T) {
	svc, idp, _, _ := newAuthFixture()
	idp.add("uid-ghost", "ghost@example.com", "secret1")

	env := svc.Login(context.Background(), "ghost@example.com", "secret1")
	if env.Success || !errors.Is(env.Err(), domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %+v", env)
	}
}

func TestAuthService_LogoutAndMe(t *testing.T) {
	svc, idp, _, store := newAuthFixture(domain.User{ID: "uid-1", Email: "a@example.com", Role: domain.RoleClient})
	idp.add("uid-1", "a@example.com", "secret1")

	login := svc.Login(context.Background(), "a@example.com", "secret1")
	if !login.Success {
		t.Fatalf("login failed: %s", login.Message)
	}
	claims := ports.Claims{SessionID: idp.lastSession(), UID: "uid-1", Email: "a@example.com", ExpiresAt: login.Data.ExpiresAt}

	me := svc.Me(context.Background(), claims)
	if !me.Success || me.Data.ID != "uid-1" {
		t.Fatalf("Me failed: %+v", me)
	}

	out := svc.Logout(context.Background(), claims)
	if !out.Success || out.Message != "Sesión cerrada correctamente" {
		t.Fatalf("Logout failed: %+v", out)
	}
	if store.Len() != 0 {
		t.Fatalf("session still open after logout")
	}
	if len(idp.signedOut) != 1 || idp.signedOut[0].SessionID != claims.SessionID {
		t.Fatalf("token not revoked: %+v", idp.signedOut)
	}
}

func TestAuthService_Me_UnknownUser(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	env := svc.Me(context.Background(), ports.Claims{SessionID: "sid-x", UID: "nobody"})
	if env.Success || !errors.Is(env.Err(), domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %+v", env)
	}
}
