package identity

import (
	"time"

	"github.com/google/uuid"
)

type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordReset proves ownership with the security answer given at registration.
type PasswordReset struct {
	Email       string `json:"email" validate:"required,email"`
	Answer      string `json:"answer" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ProfileUpdate leaves empty fields unchanged. Email cannot be changed.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}
