package app

import (
	"context"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// UserInput carries staff account fields. Password is hashed before it is stored.
type UserInput struct {
	Name     *string      `json:"name" yaml:"name"`
	Email    *string      `json:"email" yaml:"email"`
	Password *string      `json:"password" yaml:"password"`
	Role     *domain.Role `json:"role" yaml:"role"`
	IsActive *bool        `json:"isActive" yaml:"isActive"`
}

func (in UserInput) apply(u *domain.User) error {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password != nil {
		return u.SetPassword(*in.Password)
	}
	return nil
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	now := s.now()
	user := domain.User{ID: domain.NewID(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&user); err != nil {
		return nil, err
	}

	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := in.apply(user); err != nil {
		return nil, err
	}

	user.UpdatedAt = s.now()
	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Users().Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListUsers(ctx context.Context, filter ports.UserFilter) (ports.ListResult[domain.User], error) {
	return s.store.Users().List(ctx, filter)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.Users().Delete(ctx, strings.TrimSpace(id))
}
