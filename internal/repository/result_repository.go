package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"
)

// ResultRepository persists quiz results. Results are written once and
// never updated.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.QuizResult) error
	ByUser(ctx context.Context, userID string) ([]*domain.QuizResult, error)
	ByQuiz(ctx context.Context, quizID string) ([]*domain.QuizResult, error)
	ByUserAndQuiz(ctx context.Context, userID, quizID string) ([]*domain.QuizResult, error)
}

type resultRepository struct {
	store store.Store
}

// NewResultRepository creates a ResultRepository backed by the given store.
func NewResultRepository(s store.Store) ResultRepository {
	return &resultRepository{store: s}
}

func (r *resultRepository) Create(ctx context.Context, result *domain.QuizResult) error {
	return r.store.Create(ctx, store.CollectionResults, result.ID, result)
}

func (r *resultRepository) query(ctx context.Context, q store.Query) ([]*domain.QuizResult, error) {
	var results []*domain.QuizResult
	if err := r.store.Query(ctx, store.CollectionResults, q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) ByUser(ctx context.Context, userID string) ([]*domain.QuizResult, error) {
	return r.query(ctx, store.Query{
		Filters: []store.Filter{store.Eq("userId", userID)},
		OrderBy: &store.Order{Field: "completedAt", Desc: true},
		Hint:    store.IndexResultsByUser,
	})
}

func (r *resultRepository) ByQuiz(ctx context.Context, quizID string) ([]*domain.QuizResult, error) {
	return r.query(ctx, store.Query{
		Filters: []store.Filter{store.Eq("quizId", quizID)},
		OrderBy: &store.Order{Field: "completedAt", Desc: true},
		Hint:    store.IndexResultsByQuiz,
	})
}

func (r *resultRepository) ByUserAndQuiz(ctx context.Context, userID, quizID string) ([]*domain.QuizResult, error) {
	return r.query(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("userId", userID),
			store.Eq("quizId", quizID),
		},
		OrderBy: &store.Order{Field: "completedAt", Desc: true},
		Hint:    store.IndexResultsByUserQuiz,
	})
}

var _ ResultRepository = (*resultRepository)(nil)
