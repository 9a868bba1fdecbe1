package domain_test

import (
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

func TestUserPassword(t *testing.T) {
	u := domain.User{Name: "Ana", Email: "ana@example.com"}

	if err := u.SetPassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := u.SetPassword("correct horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "correct horse" {
		t.Fatal("password stored in plain text")
	}
	if !u.CheckPassword("correct horse") {
		t.Error("expected matching password to check out")
	}
	if u.CheckPassword("wrong horse") {
		t.Error("expected mismatching password to fail")
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    domain.User
		wantErr bool
	}{
		{
			name:    "valid user",
			user:    domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleManager},
			wantErr: false,
		},
		{
			name:    "missing email",
			user:    domain.User{Name: "Ana", PasswordHash: "x", Role: domain.RoleAdmin},
			wantErr: true,
		},
		{
			name:    "bad email",
			user:    domain.User{Name: "Ana", Email: "ana.example.com", PasswordHash: "x", Role: domain.RoleAdmin},
			wantErr: true,
		},
		{
			name:    "missing password",
			user:    domain.User{Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin},
			wantErr: true,
		},
		{
			name:    "unknown role",
			user:    domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: "owner"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserNormalizeDefaultsRole(t *testing.T) {
	u := domain.User{Email: " Ana@Example.COM "}
	u.Normalize()

	if u.Email != "ana@example.com" {
		t.Errorf("expected lowercased email, got %q", u.Email)
	}
	if u.Role != domain.RoleEmployee {
		t.Errorf("expected default role employee, got %s", u.Role)
	}
}
