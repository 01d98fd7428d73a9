package service

import (
	"context"
	"errors"
	"fmt"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/store"

	"go.uber.org/zap"
)

// maxStatsRetries bounds the optimistic-concurrency retry loop. Each
// attempt re-reads the document, so a handful is enough to ride out
// simultaneous completions of the same quiz.
const maxStatsRetries = 3

// ErrStatsContention is returned when every retry lost the version race.
var ErrStatsContention = errors.New("stats update lost the version race")

// StatsService applies the incremental aggregate updates that follow
// completions, ratings and authoring events. All updates are version
// guarded: the patch only lands if the stats block is unchanged since the
// read, otherwise the cycle retries with fresh state.
type StatsService interface {
	RecordQuizCompletion(ctx context.Context, quizID string, score int) error
	RecordQuizRating(ctx context.Context, quizID string, rating int, previousRating *int) error
	RecordQuizTaken(ctx context.Context, userID string, score int) error
	IncrementQuizzesCreated(ctx context.Context, userID string) error
	DecrementQuizzesCreated(ctx context.Context, userID string) error
}

type statsServiceImpl struct {
	quizRepo repository.QuizRepository
	userRepo repository.UserRepository
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(quizRepo repository.QuizRepository, userRepo repository.UserRepository) StatsService {
	return &statsServiceImpl{quizRepo: quizRepo, userRepo: userRepo}
}

// RecordQuizCompletion folds one completed attempt into the quiz
// aggregates: both counters advance and the average score absorbs the new
// sample through the running-mean formula.
func (s *statsServiceImpl) RecordQuizCompletion(ctx context.Context, quizID string, score int) error {
	return s.updateQuizStats(ctx, quizID, func(stats domain.QuizStats) map[string]any {
		return map[string]any{
			"stats.totalAttempts":    stats.TotalAttempts + 1,
			"stats.totalCompletions": stats.TotalCompletions + 1,
			"stats.averageScore":     domain.IncrementalMean(stats.AverageScore, stats.TotalCompletions, float64(score)),
			"stats.version":          stats.Version + 1,
		}
	})
}

// RecordQuizRating folds a rating into the quiz aggregates. A first-time
// rating grows the sample count; a re-rating replaces the user's previous
// sample in the mean without changing the count.
func (s *statsServiceImpl) RecordQuizRating(ctx context.Context, quizID string, rating int, previousRating *int) error {
	return s.updateQuizStats(ctx, quizID, func(stats domain.QuizStats) map[string]any {
		newAverage := stats.AverageRating
		newTotal := stats.TotalRatings
		if previousRating == nil {
			newAverage = domain.IncrementalMean(stats.AverageRating, stats.TotalRatings, float64(rating))
			newTotal = stats.TotalRatings + 1
		} else if stats.TotalRatings > 0 {
			newAverage = (stats.AverageRating*float64(stats.TotalRatings) -
				float64(*previousRating) + float64(rating)) / float64(stats.TotalRatings)
		}
		return map[string]any{
			"stats.averageRating": newAverage,
			"stats.totalRatings":  newTotal,
			"stats.version":       stats.Version + 1,
		}
	})
}

// RecordQuizTaken advances the taker's counters after a completion.
func (s *statsServiceImpl) RecordQuizTaken(ctx context.Context, userID string, score int) error {
	return s.updateUserStats(ctx, userID, func(stats domain.UserStats) map[string]any {
		return map[string]any{
			"stats.quizzesTaken": stats.QuizzesTaken + 1,
			"stats.totalScore":   stats.TotalScore + score,
			"stats.version":      stats.Version + 1,
		}
	})
}

// IncrementQuizzesCreated bumps the creator counter after authoring.
func (s *statsServiceImpl) IncrementQuizzesCreated(ctx context.Context, userID string) error {
	return s.adjustQuizzesCreated(ctx, userID, 1)
}

// DecrementQuizzesCreated lowers the creator counter after a deletion,
// never below zero.
func (s *statsServiceImpl) DecrementQuizzesCreated(ctx context.Context, userID string) error {
	return s.adjustQuizzesCreated(ctx, userID, -1)
}

func (s *statsServiceImpl) adjustQuizzesCreated(ctx context.Context, userID string, delta int) error {
	return s.updateUserStats(ctx, userID, func(stats domain.UserStats) map[string]any {
		next := stats.QuizzesCreated + delta
		if next < 0 {
			next = 0
		}
		return map[string]any{
			"stats.quizzesCreated": next,
			"stats.version":        stats.Version + 1,
		}
	})
}

func (s *statsServiceImpl) updateQuizStats(ctx context.Context, quizID string, build func(domain.QuizStats) map[string]any) error {
	appLogger := logger.Get()
	for attempt := 0; attempt < maxStatsRetries; attempt++ {
		quiz, err := s.quizRepo.GetByID(ctx, quizID)
		if err != nil {
			return fmt.Errorf("failed to load quiz for stats update: %w", err)
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(quizID)
		}

		err = s.quizRepo.UpdateStats(ctx, quizID, quiz.Stats.Version, build(quiz.Stats))
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("failed to update quiz stats: %w", err)
		}
		appLogger.Debug("Quiz stats version race, retrying",
			zap.String("quizID", quizID), zap.Int("attempt", attempt+1))
	}
	return ErrStatsContention
}

func (s *statsServiceImpl) updateUserStats(ctx context.Context, userID string, build func(domain.UserStats) map[string]any) error {
	appLogger := logger.Get()
	for attempt := 0; attempt < maxStatsRetries; attempt++ {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user for stats update: %w", err)
		}
		if user == nil {
			return domain.NewUserNotFoundError(userID)
		}

		err = s.userRepo.UpdateStats(ctx, userID, user.Stats.Version, build(user.Stats))
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("failed to update user stats: %w", err)
		}
		appLogger.Debug("User stats version race, retrying",
			zap.String("userID", userID), zap.Int("attempt", attempt+1))
	}
	return ErrStatsContention
}
