package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"
)

// FavoriteRepository persists favorites at their composite key. Put is an
// idempotent overwrite, so repeated adds of the same pair collapse into a
// single document.
type FavoriteRepository interface {
	Put(ctx context.Context, favorite *domain.Favorite) error
	Get(ctx context.Context, key domain.PairKey) (*domain.Favorite, error)
	Delete(ctx context.Context, key domain.PairKey) error
	ByUser(ctx context.Context, userID string) ([]*domain.Favorite, error)
}

type favoriteRepository struct {
	store store.Store
}

// NewFavoriteRepository creates a FavoriteRepository backed by the given store.
func NewFavoriteRepository(s store.Store) FavoriteRepository {
	return &favoriteRepository{store: s}
}

func (r *favoriteRepository) Put(ctx context.Context, favorite *domain.Favorite) error {
	return r.store.Create(ctx, store.CollectionFavorites, favorite.ID, favorite)
}

func (r *favoriteRepository) Get(ctx context.Context, key domain.PairKey) (*domain.Favorite, error) {
	var favorite domain.Favorite
	err := r.store.Get(ctx, store.CollectionFavorites, key.String(), &favorite)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, key domain.PairKey) error {
	return r.store.Delete(ctx, store.CollectionFavorites, key.String())
}

func (r *favoriteRepository) ByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	var favorites []*domain.Favorite
	q := store.Query{
		Filters: []store.Filter{store.Eq("userId", userID)},
		OrderBy: &store.Order{Field: "addedAt", Desc: true},
		Hint:    store.IndexFavoritesByUser,
	}
	if err := r.store.Query(ctx, store.CollectionFavorites, q, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

var _ FavoriteRepository = (*favoriteRepository)(nil)
