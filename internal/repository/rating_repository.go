package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"
)

// RatingRepository persists ratings at their composite key. Put overwrites
// any prior rating by the same user for the same quiz.
type RatingRepository interface {
	Put(ctx context.Context, rating *domain.Rating) error
	Get(ctx context.Context, key domain.PairKey) (*domain.Rating, error)
	ByQuiz(ctx context.Context, quizID string) ([]*domain.Rating, error)
}

type ratingRepository struct {
	store store.Store
}

// NewRatingRepository creates a RatingRepository backed by the given store.
func NewRatingRepository(s store.Store) RatingRepository {
	return &ratingRepository{store: s}
}

func (r *ratingRepository) Put(ctx context.Context, rating *domain.Rating) error {
	return r.store.Create(ctx, store.CollectionRatings, rating.ID, rating)
}

func (r *ratingRepository) Get(ctx context.Context, key domain.PairKey) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.store.Get(ctx, store.CollectionRatings, key.String(), &rating)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ByQuiz(ctx context.Context, quizID string) ([]*domain.Rating, error) {
	var ratings []*domain.Rating
	q := store.Query{
		Filters: []store.Filter{store.Eq("quizId", quizID)},
		OrderBy: &store.Order{Field: "createdAt", Desc: true},
		Hint:    store.IndexRatingsByQuiz,
	}
	if err := r.store.Query(ctx, store.CollectionRatings, q, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

var _ RatingRepository = (*ratingRepository)(nil)
