package user

import (
	"context"
	"errors"
	"testing"

	"github.com/MikeMC777/cardstore/internal/auth"
)

type stubRepo struct {
	byEmail map[string]*User
	err     error
}

func (s *stubRepo) Create(_ context.Context, u *User) error {
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrAlreadyExist
	}
	u.ID = int64(len(s.byEmail) + 1)
	s.byEmail[u.Email] = u
	return nil
}

func (s *stubRepo) GetByID(context.Context, int64) (*User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{byEmail: map[string]*User{
		"kaiba@example.com": {ID: 10, Email: "kaiba@example.com", PasswordHash: hash, Roles: []string{"ADMIN", "CUSTOMER", "DUELIST"}},
	}}
	a := NewAuthenticator(repo)
	ctx := context.Background()

	p, err := a.Authenticate(ctx, "kaiba@example.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.UserID != 10 || !p.IsAdmin() || len(p.Roles) != 2 {
		t.Fatalf("principal=%+v", p)
	}

	for _, tc := range []struct{ email, pw string }{
		{"kaiba@example.com", "wrong"},
		{"yugi@example.com", "s3cret"},
		{"", ""},
	} {
		if _, err := a.Authenticate(ctx, tc.email, tc.pw); !errors.Is(err, auth.ErrBadCredentials) {
			t.Errorf("%q/%q: want ErrBadCredentials, got %v", tc.email, tc.pw, err)
		}
	}
}

func TestAuthenticate_RepoErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	a := NewAuthenticator(&stubRepo{err: boom})
	if _, err := a.Authenticate(context.Background(), "a@b.c", "x"); !errors.Is(err, boom) {
		t.Fatalf("want repo error, got %v", err)
	}
}

func TestEnsureUser(t *testing.T) {
	repo := &stubRepo{byEmail: map[string]*User{}}
	ctx := context.Background()

	if err := EnsureUser(ctx, repo, "admin@example.com", "pw", auth.RoleAdmin); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := EnsureUser(ctx, repo, "admin@example.com", "other"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	p, err := NewAuthenticator(repo).Authenticate(ctx, "admin@example.com", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !p.IsAdmin() {
		t.Fatalf("principal=%+v", p)
	}
}
