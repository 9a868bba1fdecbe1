package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type userDoc struct {
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	Role         string    `firestore:"role"`
	IsActive     bool      `firestore:"isActive"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (domain.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           snap.Ref.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

type userRepo struct {
	scope
}

func (r *userRepo) ref(id string) *firestore.DocumentRef {
	return r.col(usersCollection).Doc(id)
}

func (r *userRepo) Create(ctx context.Context, user domain.User) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		if err := emailTaken(ctx, sc, user.Email, user.ID); err != nil {
			return err
		}
		sc.create(r.ref(user.ID), user, toUserDoc(user))
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("User", id)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter ports.UserFilter) (ports.ListResult[domain.User], error) {
	q := r.col(usersCollection).Query
	if filter.Role != "" {
		q = q.Where("role", "==", string(filter.Role))
	}

	users, err := queryDocs(ctx, r.scope, usersCollection, q, decodeUser, filter.Match)
	if err != nil {
		return ports.ListResult[domain.User]{}, err
	}

	matched := users[:0]
	for _, u := range users {
		if filter.Match(u) {
			matched = append(matched, u)
		}
	}
	ports.SortNewestFirst(matched, func(u domain.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return ports.Paginate(matched, filter.Page), nil
}

func (r *userRepo) Update(ctx context.Context, user domain.User) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		existing, ok, err := getDoc(ctx, sc, r.ref(user.ID), decodeUser)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("User", user.ID)
		}
		if err := emailTaken(ctx, sc, user.Email, user.ID); err != nil {
			return err
		}

		user.CreatedAt = existing.CreatedAt
		sc.set(r.ref(user.ID), user, toUserDoc(user))
		return nil
	})
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		_, ok, err := getDoc(ctx, sc, r.ref(id), decodeUser)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("User", id)
		}
		sc.remove(r.ref(id))
		return nil
	})
}

func emailTaken(ctx context.Context, sc scope, email, exceptID string) error {
	q := sc.col(usersCollection).Where("email", "==", email).Limit(2)
	matches, err := queryDocs(ctx, sc, usersCollection, q, decodeUser, func(u domain.User) bool { return u.Email == email })
	if err != nil {
		return err
	}
	for _, u := range matches {
		if u.ID != exceptID && u.Email == email {
			return &domain.ConflictError{Entity: "User", Field: "email", Value: email}
		}
	}
	return nil
}
