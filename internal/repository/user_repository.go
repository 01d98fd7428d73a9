package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"
)

// UserRepository persists user accounts. Read methods return (nil, nil)
// for users that do not exist.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Update(ctx context.Context, userID string, patch map[string]any) error
	UpdateStats(ctx context.Context, userID string, expectedVersion int64, patch map[string]any) error
}

type userRepository struct {
	store store.Store
}

// NewUserRepository creates a UserRepository backed by the given store.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.Create(ctx, store.CollectionUsers, user.ID, user)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.store.Get(ctx, store.CollectionUsers, userID, &user)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) getByField(ctx context.Context, field, value string) (*domain.User, error) {
	var users []*domain.User
	q := store.Query{
		Filters: []store.Filter{store.Eq(field, value)},
		Limit:   1,
	}
	if err := r.store.Query(ctx, store.CollectionUsers, q, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getByField(ctx, "email", email)
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getByField(ctx, "googleId", googleID)
}

func (r *userRepository) Update(ctx context.Context, userID string, patch map[string]any) error {
	return r.store.Update(ctx, store.CollectionUsers, userID, patch)
}

// UpdateStats merges patch only while stats.version still equals
// expectedVersion; the patch must bump the version itself.
func (r *userRepository) UpdateStats(ctx context.Context, userID string, expectedVersion int64, patch map[string]any) error {
	guard := map[string]any{"stats.version": expectedVersion}
	return r.store.UpdateIf(ctx, store.CollectionUsers, userID, guard, patch)
}

var _ UserRepository = (*userRepository)(nil)
