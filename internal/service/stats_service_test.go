package service

import (
	"context"
	"testing"

	"quizdeck/internal/domain"
	"quizdeck/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func statsQuiz(stats domain.QuizStats) *domain.Quiz {
	return &domain.Quiz{
		QuizID:   "quiz1",
		Title:    "Stats quiz",
		Category: domain.CategoryGeneral,
		Level:    domain.LevelBasic,
		Stats:    stats,
	}
}

func TestRecordQuizCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("first completion seeds the mean", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{}), nil)
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(0), map[string]any{
			"stats.totalAttempts":    1,
			"stats.totalCompletions": 1,
			"stats.averageScore":     80.0,
			"stats.version":          int64(1),
		}).Return(nil)

		assert.NoError(t, svc.RecordQuizCompletion(ctx, "quiz1", 80))
		quizRepo.AssertExpectations(t)
	})

	t.Run("second completion folds into the running mean", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{
			TotalAttempts:    1,
			TotalCompletions: 1,
			AverageScore:     80,
			Version:          1,
		}), nil)
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(1), map[string]any{
			"stats.totalAttempts":    2,
			"stats.totalCompletions": 2,
			"stats.averageScore":     70.0,
			"stats.version":          int64(2),
		}).Return(nil)

		assert.NoError(t, svc.RecordQuizCompletion(ctx, "quiz1", 60))
		quizRepo.AssertExpectations(t)
	})

	t.Run("retries after a version conflict", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		// First read sees version 0, loses the race; second read sees the
		// concurrent writer's version 1 and lands.
		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{}), nil).Once()
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(0), mock.Anything).Return(store.ErrConflict).Once()
		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{
			TotalAttempts:    1,
			TotalCompletions: 1,
			AverageScore:     100,
			Version:          1,
		}), nil).Once()
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(1), mock.Anything).Return(nil).Once()

		assert.NoError(t, svc.RecordQuizCompletion(ctx, "quiz1", 50))
		quizRepo.AssertExpectations(t)
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{}), nil)
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(0), mock.Anything).Return(store.ErrConflict)

		err := svc.RecordQuizCompletion(ctx, "quiz1", 50)
		assert.ErrorIs(t, err, ErrStatsContention)
		quizRepo.AssertNumberOfCalls(t, "UpdateStats", maxStatsRetries)
	})

	t.Run("missing quiz fails without retry", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		quizRepo.On("GetByID", ctx, "gone").Return(nil, nil)

		err := svc.RecordQuizCompletion(ctx, "gone", 50)
		assert.Error(t, err)
		quizRepo.AssertNotCalled(t, "UpdateStats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRecordQuizRating(t *testing.T) {
	ctx := context.Background()

	t.Run("first rating grows the sample count", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{
			AverageRating: 4,
			TotalRatings:  1,
			Version:       3,
		}), nil)
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(3), map[string]any{
			"stats.averageRating": 3.0,
			"stats.totalRatings":  2,
			"stats.version":       int64(4),
		}).Return(nil)

		assert.NoError(t, svc.RecordQuizRating(ctx, "quiz1", 2, nil))
		quizRepo.AssertExpectations(t)
	})

	t.Run("re-rating replaces the prior sample", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		// Two ratings of 4 and 2 average 3; the 2 becomes a 4 and the mean
		// moves to 4 with the count unchanged.
		quizRepo.On("GetByID", ctx, "quiz1").Return(statsQuiz(domain.QuizStats{
			AverageRating: 3,
			TotalRatings:  2,
		}), nil)
		quizRepo.On("UpdateStats", ctx, "quiz1", int64(0), map[string]any{
			"stats.averageRating": 4.0,
			"stats.totalRatings":  2,
			"stats.version":       int64(1),
		}).Return(nil)

		previous := 2
		assert.NoError(t, svc.RecordQuizRating(ctx, "quiz1", 4, &previous))
		quizRepo.AssertExpectations(t)
	})
}

func TestUserCounters(t *testing.T) {
	ctx := context.Background()

	statsUser := func(stats domain.UserStats) *domain.User {
		return &domain.User{ID: "user1", Email: "u@example.com", Stats: stats}
	}

	t.Run("quiz taken advances counters", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		userRepo.On("GetByID", ctx, "user1").Return(statsUser(domain.UserStats{
			QuizzesTaken: 2,
			TotalScore:   150,
			Version:      5,
		}), nil)
		userRepo.On("UpdateStats", ctx, "user1", int64(5), map[string]any{
			"stats.quizzesTaken": 3,
			"stats.totalScore":   230,
			"stats.version":      int64(6),
		}).Return(nil)

		assert.NoError(t, svc.RecordQuizTaken(ctx, "user1", 80))
		userRepo.AssertExpectations(t)
	})

	t.Run("created counter never drops below zero", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		userRepo := new(MockUserRepository)
		svc := NewStatsService(quizRepo, userRepo)

		userRepo.On("GetByID", ctx, "user1").Return(statsUser(domain.UserStats{}), nil)
		userRepo.On("UpdateStats", ctx, "user1", int64(0), map[string]any{
			"stats.quizzesCreated": 0,
			"stats.version":        int64(1),
		}).Return(nil)

		assert.NoError(t, svc.DecrementQuizzesCreated(ctx, "user1"))
		userRepo.AssertExpectations(t)
	})
}
