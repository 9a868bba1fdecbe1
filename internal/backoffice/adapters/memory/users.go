package memory

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type userRepo struct {
	scope
}

func (r *userRepo) Create(_ context.Context, user domain.User) error {
	d, done := r.write()
	defer done()

	if err := emailTaken(d, user.Email, user.ID); err != nil {
		return err
	}
	d.users[user.ID] = user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	d, done := r.read()
	defer done()

	user, ok := d.users[id]
	if !ok {
		return nil, domain.NewNotFound("User", id)
	}
	return &user, nil
}

func (r *userRepo) List(_ context.Context, filter ports.UserFilter) (ports.ListResult[domain.User], error) {
	d, done := r.read()
	defer done()

	var matched []domain.User
	for _, user := range d.users {
		if filter.Match(user) {
			matched = append(matched, user)
		}
	}
	ports.SortNewestFirst(matched, func(u domain.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return ports.Paginate(matched, filter.Page), nil
}

func (r *userRepo) Update(_ context.Context, user domain.User) error {
	d, done := r.write()
	defer done()

	existing, ok := d.users[user.ID]
	if !ok {
		return domain.NewNotFound("User", user.ID)
	}
	if err := emailTaken(d, user.Email, user.ID); err != nil {
		return err
	}

	user.CreatedAt = existing.CreatedAt
	d.users[user.ID] = user
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	d, done := r.write()
	defer done()

	if _, ok := d.users[id]; !ok {
		return domain.NewNotFound("User", id)
	}
	delete(d.users, id)
	return nil
}

func emailTaken(d *dataset, email, exceptID string) error {
	for id, u := range d.users {
		if id != exceptID && u.Email == email {
			return &domain.ConflictError{Entity: "User", Field: "email", Value: email}
		}
	}
	return nil
}
