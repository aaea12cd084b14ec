package user

import (
	"context"
	"errors"

	"github.com/MikeMC777/cardstore/internal/auth"
)

// Authenticator checks email/password pairs against stored bcrypt hashes.
type Authenticator struct {
	repo Repository
}

func NewAuthenticator(repo Repository) *Authenticator {
	return &Authenticator{repo: repo}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (auth.Principal, error) {
	if email == "" || password == "" {
		return auth.Principal{}, auth.ErrBadCredentials
	}
	u, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Principal{}, auth.ErrBadCredentials
		}
		return auth.Principal{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return auth.Principal{}, auth.ErrBadCredentials
	}
	return Principal(u), nil
}

// Principal converts a stored user into the identity passed to services.
// Unknown role names are dropped.
func Principal(u *User) auth.Principal {
	p := auth.Principal{UserID: u.ID}
	for _, r := range u.Roles {
		switch auth.Role(r) {
		case auth.RoleAdmin, auth.RoleCustomer:
			p.Roles = append(p.Roles, auth.Role(r))
		}
	}
	return p
}

// Register stores a new account with a bcrypt hash of password.
// It returns ErrAlreadyExist when the email is taken.
func Register(ctx context.Context, repo Repository, email, password string, roles ...auth.Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{Email: email, PasswordHash: hash}
	for _, r := range roles {
		u.Roles = append(u.Roles, string(r))
	}
	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureUser creates the account if the email is not taken yet. An existing
// account is left untouched.
func EnsureUser(ctx context.Context, repo Repository, email, password string, roles ...auth.Role) error {
	if _, err := Register(ctx, repo, email, password, roles...); err != nil && !errors.Is(err, ErrAlreadyExist) {
		return err
	}
	return nil
}
