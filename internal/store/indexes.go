package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Composite index names. Repositories hint their primary query paths with
// these; until cmd/ensure_indexes has provisioned them the hinted queries
// fail with ErrIndexNotReady and callers take their fallback paths.
const (
	IndexQuizzesByCreator         = "quizzes_creator_created"
	IndexQuizzesPublicByCreated   = "quizzes_public_created"
	IndexQuizzesPublicByCategory  = "quizzes_public_category_created"
	IndexQuizzesPublicByLevel     = "quizzes_public_level_created"
	IndexQuizzesPublicByRating    = "quizzes_public_rating"
	IndexQuizzesPublicByAttempts  = "quizzes_public_attempts"
	IndexResultsByUser            = "results_user_completed"
	IndexResultsByQuiz            = "results_quiz_completed"
	IndexResultsByUserQuiz        = "results_user_quiz_completed"
	IndexFavoritesByUser          = "favorites_user_added"
	IndexRatingsByQuiz            = "ratings_quiz"
)

// IndexKey is one field of a composite index definition.
type IndexKey struct {
	Field string
	Desc  bool
}

// IndexSpec defines one composite index.
type IndexSpec struct {
	Collection string
	Name       string
	Keys       []IndexKey
}

// AllIndexes lists every composite index the hinted query paths rely on.
var AllIndexes = []IndexSpec{
	{CollectionQuizzes, IndexQuizzesByCreator, []IndexKey{{"createdBy.userId", false}, {"createdAt", true}}},
	{CollectionQuizzes, IndexQuizzesPublicByCreated, []IndexKey{{"isPublic", false}, {"createdAt", true}}},
	{CollectionQuizzes, IndexQuizzesPublicByCategory, []IndexKey{{"isPublic", false}, {"category", false}, {"createdAt", true}}},
	{CollectionQuizzes, IndexQuizzesPublicByLevel, []IndexKey{{"isPublic", false}, {"level", false}, {"createdAt", true}}},
	{CollectionQuizzes, IndexQuizzesPublicByRating, []IndexKey{{"isPublic", false}, {"stats.averageRating", true}}},
	{CollectionQuizzes, IndexQuizzesPublicByAttempts, []IndexKey{{"isPublic", false}, {"stats.totalAttempts", true}}},
	{CollectionResults, IndexResultsByUser, []IndexKey{{"userId", false}, {"completedAt", true}}},
	{CollectionResults, IndexResultsByQuiz, []IndexKey{{"quizId", false}, {"completedAt", true}}},
	{CollectionResults, IndexResultsByUserQuiz, []IndexKey{{"userId", false}, {"quizId", false}, {"completedAt", true}}},
	{CollectionFavorites, IndexFavoritesByUser, []IndexKey{{"userId", false}, {"addedAt", true}}},
	{CollectionRatings, IndexRatingsByQuiz, []IndexKey{{"quizId", false}}},
}

// EnsureIndexes provisions every composite index. Creation is idempotent;
// an index that already exists with the same definition is left alone.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, spec := range AllIndexes {
		keys := bson.D{}
		for _, k := range spec.Keys {
			direction := 1
			if k.Desc {
				direction = -1
			}
			keys = append(keys, bson.E{Key: k.Field, Value: direction})
		}
		model := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(spec.Name),
		}
		if _, err := s.db.Collection(spec.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s on %s: %w", spec.Name, spec.Collection, err)
		}
	}
	return nil
}
