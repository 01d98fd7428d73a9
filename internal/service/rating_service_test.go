package service

import (
	"context"
	"testing"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRatingService(t *testing.T) {
	ctx := context.Background()
	key := domain.NewPairKey("user1", "quiz1")

	ratedQuiz := &domain.Quiz{
		QuizID:   "quiz1",
		Title:    "Rateable",
		IsPublic: true,
	}

	t.Run("first rating has no previous value", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewRatingService(ratingRepo, quizRepo, stats)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ratedQuiz, nil)
		ratingRepo.On("Get", ctx, key).Return(nil, nil)
		ratingRepo.On("Put", ctx, mock.MatchedBy(func(r *domain.Rating) bool {
			return r.ID == key.String() && r.Rating == 4 && r.Comment == "nice"
		})).Return(nil)
		stats.On("RecordQuizRating", ctx, "quiz1", 4, (*int)(nil)).Return(nil)

		rating, err := svc.Rate(ctx, "user1", "quiz1", 4, "nice")
		assert.NoError(t, err)
		assert.Equal(t, 4, rating.Rating)
		stats.AssertExpectations(t)
	})

	t.Run("re-rating carries the prior value to the aggregator", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewRatingService(ratingRepo, quizRepo, stats)

		existing, err := domain.NewRating(key, 2, "")
		assert.NoError(t, err)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ratedQuiz, nil)
		ratingRepo.On("Get", ctx, key).Return(existing, nil)
		ratingRepo.On("Put", ctx, mock.Anything).Return(nil)
		stats.On("RecordQuizRating", ctx, "quiz1", 5, mock.MatchedBy(func(prev *int) bool {
			return prev != nil && *prev == 2
		})).Return(nil)

		_, err = svc.Rate(ctx, "user1", "quiz1", 5, "")
		assert.NoError(t, err)
		stats.AssertExpectations(t)
	})

	t.Run("out-of-range value is rejected before any write", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		quizRepo := new(MockQuizRepository)
		svc := NewRatingService(ratingRepo, quizRepo, new(MockStatsService))

		quizRepo.On("GetByID", ctx, "quiz1").Return(ratedQuiz, nil)
		ratingRepo.On("Get", ctx, key).Return(nil, nil)

		_, err := svc.Rate(ctx, "user1", "quiz1", 6, "")
		assert.Error(t, err)
		ratingRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("aggregate failure does not fail the rating", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewRatingService(ratingRepo, quizRepo, stats)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ratedQuiz, nil)
		ratingRepo.On("Get", ctx, key).Return(nil, nil)
		ratingRepo.On("Put", ctx, mock.Anything).Return(nil)
		stats.On("RecordQuizRating", ctx, "quiz1", 3, (*int)(nil)).Return(ErrStatsContention)

		rating, err := svc.Rate(ctx, "user1", "quiz1", 3, "")
		assert.NoError(t, err)
		assert.NotNil(t, rating)
	})

	t.Run("unknown quiz cannot be rated", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		quizRepo := new(MockQuizRepository)
		svc := NewRatingService(ratingRepo, quizRepo, new(MockStatsService))

		quizRepo.On("GetByID", ctx, "gone").Return(nil, nil)

		_, err := svc.Rate(ctx, "user1", "gone", 4, "")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
	})

	t.Run("unrated quiz yields nil without error", func(t *testing.T) {
		ratingRepo := new(MockRatingRepository)
		svc := NewRatingService(ratingRepo, new(MockQuizRepository), new(MockStatsService))

		ratingRepo.On("Get", ctx, key).Return(nil, nil)

		rating, err := svc.UserRating(ctx, "user1", "quiz1")
		assert.NoError(t, err)
		assert.Nil(t, rating)
	})
}
