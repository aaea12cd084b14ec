package user

import "time"

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// RegisterRequest payload of account creation.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254" example:"yugi@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"kuriboh123"`
}

// Profile is the public view of an account.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Roles: u.Roles, CreatedAt: u.CreatedAt}
}
