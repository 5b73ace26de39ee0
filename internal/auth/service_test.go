package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/helios-ris/helios-ris/internal/auth"
	"github.com/helios-ris/helios-ris/internal/shared"
	_ "github.com/helios-ris/helios-ris/testing"
)

type stubRepo struct {
	accounts map[string]*auth.Account
	sessions map[string]int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		accounts: make(map[string]*auth.Account),
		sessions: make(map[string]int64),
	}
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	account, ok := s.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (s *stubRepo) CreateSession(_ context.Context, id string, accountID int64, _ time.Time, _, _ string) error {
	s.sessions[id] = accountID
	return nil
}

func (s *stubRepo) DeleteSession(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func seedAccount(t *testing.T, repo *stubRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.accounts[email] = &auth.Account{
		ID:           1,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     active,
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newStubRepo()
	seedAccount(t, repo, "reader@helios.test", "correct-horse", true)
	svc := auth.NewService(repo)
	ctx := context.Background()

	account, err := svc.Authenticate(ctx, "reader@helios.test", "correct-horse")
	if err != nil {
		t.Fatalf("expected successful login: %v", err)
	}
	if account.ID != 1 {
		t.Fatalf("wrong account: %+v", account)
	}

	if _, err := svc.Authenticate(ctx, "reader@helios.test", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("wrong password must fail with invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@helios.test", "correct-horse"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("unknown account must not be distinguishable, got %v", err)
	}
}

func TestAuthenticateRejectsInactiveAccount(t *testing.T) {
	repo := newStubRepo()
	seedAccount(t, repo, "former@helios.test", "correct-horse", false)
	svc := auth.NewService(repo)

	_, err := svc.Authenticate(context.Background(), "former@helios.test", "correct-horse")
	if !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("inactive account must fail with invalid credentials, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := newStubRepo()
	svc := auth.NewService(repo)
	ctx := context.Background()

	if err := svc.RegisterSession(ctx, "sess-1", 1, time.Now().Add(time.Hour), "10.0.0.1", "test-agent"); err != nil {
		t.Fatalf("register session: %v", err)
	}
	if repo.sessions["sess-1"] != 1 {
		t.Fatalf("session not recorded")
	}
	if err := svc.RemoveSession(ctx, "sess-1"); err != nil {
		t.Fatalf("remove session: %v", err)
	}
	if _, ok := repo.sessions["sess-1"]; ok {
		t.Fatalf("session not removed")
	}
}
