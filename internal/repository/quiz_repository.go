package repository

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"
)

// QuizRepository persists quizzes through the document-store gateway.
// Read methods return (nil, nil) for documents that do not exist; callers
// translate that into domain errors.
//
// The by-creator lookup is an explicit two-path strategy: ByCreatorIndexed
// runs the composite filtered-and-ordered query and fails with
// store.ErrIndexNotReady until the index is provisioned;
// ByCreatorUnindexed is the fallback, an equality-only query whose
// visibility filtering and ordering the caller applies in memory.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	GetByID(ctx context.Context, quizID string) (*domain.Quiz, error)
	Update(ctx context.Context, quizID string, patch map[string]any) error
	UpdateStats(ctx context.Context, quizID string, expectedVersion int64, patch map[string]any) error
	Delete(ctx context.Context, quizID string) error

	Public(ctx context.Context, limit int) ([]*domain.Quiz, error)
	ByCategory(ctx context.Context, category domain.QuizCategory, limit int) ([]*domain.Quiz, error)
	ByLevel(ctx context.Context, level domain.QuizLevel, limit int) ([]*domain.Quiz, error)
	Recommended(ctx context.Context, limit int) ([]*domain.Quiz, error)
	Popular(ctx context.Context, limit int) ([]*domain.Quiz, error)

	ByCreatorIndexed(ctx context.Context, creatorID string) ([]*domain.Quiz, error)
	ByCreatorUnindexed(ctx context.Context, creatorID string) ([]*domain.Quiz, error)
}

type quizRepository struct {
	store store.Store
}

// NewQuizRepository creates a QuizRepository backed by the given store.
func NewQuizRepository(s store.Store) QuizRepository {
	return &quizRepository{store: s}
}

func (r *quizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	return r.store.Create(ctx, store.CollectionQuizzes, quiz.QuizID, quiz)
}

func (r *quizRepository) GetByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.store.Get(ctx, store.CollectionQuizzes, quizID, &quiz)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) Update(ctx context.Context, quizID string, patch map[string]any) error {
	return r.store.Update(ctx, store.CollectionQuizzes, quizID, patch)
}

// UpdateStats merges patch only while stats.version still equals
// expectedVersion; the patch must bump the version itself.
func (r *quizRepository) UpdateStats(ctx context.Context, quizID string, expectedVersion int64, patch map[string]any) error {
	guard := map[string]any{"stats.version": expectedVersion}
	return r.store.UpdateIf(ctx, store.CollectionQuizzes, quizID, guard, patch)
}

func (r *quizRepository) Delete(ctx context.Context, quizID string) error {
	return r.store.Delete(ctx, store.CollectionQuizzes, quizID)
}

func (r *quizRepository) publicListing(ctx context.Context, q store.Query) ([]*domain.Quiz, error) {
	var quizzes []*domain.Quiz
	if err := r.store.Query(ctx, store.CollectionQuizzes, q, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) Public(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{store.Eq("isPublic", true)},
		OrderBy: &store.Order{Field: "createdAt", Desc: true},
		Limit:   limit,
	})
}

func (r *quizRepository) ByCategory(ctx context.Context, category domain.QuizCategory, limit int) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("isPublic", true),
			store.Eq("category", category),
		},
		OrderBy: &store.Order{Field: "createdAt", Desc: true},
		Limit:   limit,
	})
}

func (r *quizRepository) ByLevel(ctx context.Context, level domain.QuizLevel, limit int) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{
			store.Eq("isPublic", true),
			store.Eq("level", level),
		},
		OrderBy: &store.Order{Field: "createdAt", Desc: true},
		Limit:   limit,
	})
}

func (r *quizRepository) Recommended(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{store.Eq("isPublic", true)},
		OrderBy: &store.Order{Field: "stats.averageRating", Desc: true},
		Limit:   limit,
	})
}

func (r *quizRepository) Popular(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{store.Eq("isPublic", true)},
		OrderBy: &store.Order{Field: "stats.totalAttempts", Desc: true},
		Limit:   limit,
	})
}

func (r *quizRepository) ByCreatorIndexed(ctx context.Context, creatorID string) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{store.Eq("createdBy.userId", creatorID)},
		OrderBy: &store.Order{Field: "createdAt", Desc: true},
		Hint:    store.IndexQuizzesByCreator,
	})
}

func (r *quizRepository) ByCreatorUnindexed(ctx context.Context, creatorID string) ([]*domain.Quiz, error) {
	return r.publicListing(ctx, store.Query{
		Filters: []store.Filter{store.Eq("createdBy.userId", creatorID)},
	})
}

var _ QuizRepository = (*quizRepository)(nil)
