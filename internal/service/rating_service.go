package service

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"

	"go.uber.org/zap"
)

// RatingService manages quiz ratings. Re-rating overwrites the user's
// prior rating at the composite key (last write wins).
type RatingService interface {
	Rate(ctx context.Context, userID, quizID string, value int, comment string) (*domain.Rating, error)
	UserRating(ctx context.Context, userID, quizID string) (*domain.Rating, error)
	QuizRatings(ctx context.Context, quizID string) ([]*domain.Rating, error)
}

type ratingServiceImpl struct {
	ratingRepo repository.RatingRepository
	quizRepo   repository.QuizRepository
	stats      StatsService
}

// NewRatingService creates a new instance of RatingService.
func NewRatingService(ratingRepo repository.RatingRepository, quizRepo repository.QuizRepository, stats StatsService) RatingService {
	return &ratingServiceImpl{ratingRepo: ratingRepo, quizRepo: quizRepo, stats: stats}
}

// Rate stores the rating and then folds it into the quiz aggregates: a
// first-time rating grows the sample count, a re-rating replaces the prior
// sample in the mean. The aggregate update is best-effort.
func (s *ratingServiceImpl) Rate(ctx context.Context, userID, quizID string, value int, comment string) (*domain.Rating, error) {
	appLogger := logger.Get()

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	key := domain.NewPairKey(userID, quizID)
	previous, err := s.ratingRepo.Get(ctx, key)
	if err != nil {
		return nil, domain.NewInternalError("failed to load prior rating", err)
	}

	rating, err := domain.NewRating(key, value, comment)
	if err != nil {
		return nil, err
	}
	if err := s.ratingRepo.Put(ctx, rating); err != nil {
		return nil, domain.NewInternalError("failed to save rating", err)
	}

	var previousValue *int
	if previous != nil {
		previousValue = &previous.Rating
	}
	if err := s.stats.RecordQuizRating(ctx, quizID, value, previousValue); err != nil {
		appLogger.Warn("Failed to update rating aggregates",
			zap.String("quizID", quizID), zap.Error(err))
	}
	return rating, nil
}

// UserRating returns (nil, nil) when the user has not rated the quiz.
func (s *ratingServiceImpl) UserRating(ctx context.Context, userID, quizID string) (*domain.Rating, error) {
	rating, err := s.ratingRepo.Get(ctx, domain.NewPairKey(userID, quizID))
	if err != nil {
		return nil, domain.NewInternalError("failed to load rating", err)
	}
	return rating, nil
}

func (s *ratingServiceImpl) QuizRatings(ctx context.Context, quizID string) ([]*domain.Rating, error) {
	ratings, err := s.ratingRepo.ByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list ratings", err)
	}
	return ratings, nil
}
