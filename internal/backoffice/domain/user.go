package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is a staff member's access level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

const minPasswordLength = 6

// User is a staff account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize trims text fields and fills defaults.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleEmployee
	}
}

// Validate ensures the account is well formed.
func (u User) Validate() error {
	v := &ValidationError{}
	if u.Name == "" {
		v.Add("name", "Name is required")
	}
	if u.Email == "" {
		v.Add("email", "Email is required")
	} else if !validEmail(u.Email) {
		v.Add("email", "Please provide a valid email")
	}
	if u.PasswordHash == "" {
		v.Add("password", "Password is required")
	}
	if !u.Role.Valid() {
		v.Add("role", "Role must be one of admin, manager, employee")
	}
	return v.Err()
}

// SetPassword hashes and stores a new password.
func (u *User) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
