package service

import (
	"context"
	"errors"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/store"
	"quizdeck/internal/util"

	"go.uber.org/zap"
)

// ResultService grades attempts and serves the attempt history.
type ResultService interface {
	Complete(ctx context.Context, userID, quizID string, req dto.CompleteQuizRequest) (*domain.QuizResult, error)
	UserResults(ctx context.Context, userID string) ([]*domain.QuizResult, error)
	QuizResults(ctx context.Context, quizID string) ([]*domain.QuizResult, error)
	UserQuizResults(ctx context.Context, userID, quizID string) ([]*domain.QuizResult, error)
	BestResult(ctx context.Context, userID, quizID string) (*domain.QuizResult, error)
}

type resultServiceImpl struct {
	resultRepo repository.ResultRepository
	quizRepo   repository.QuizRepository
	stats      StatsService
}

// NewResultService creates a new instance of ResultService.
func NewResultService(resultRepo repository.ResultRepository, quizRepo repository.QuizRepository, stats StatsService) ResultService {
	return &resultServiceImpl{
		resultRepo: resultRepo,
		quizRepo:   quizRepo,
		stats:      stats,
	}
}

// Complete grades the attempt and persists the immutable result. The
// aggregate updates that follow are best-effort: a failed stats update is
// logged and swallowed, never rolled into the caller's error.
func (s *resultServiceImpl) Complete(ctx context.Context, userID, quizID string, req dto.CompleteQuizRequest) (*domain.QuizResult, error) {
	appLogger := logger.Get()

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.IsPublic && !quiz.IsOwnedBy(userID) {
		return nil, domain.NewForbiddenError("quiz is private")
	}

	result := domain.Score(quiz, userID, req.Answers)
	result.ID = util.NewULID()
	result.TimeSpent = req.TimeSpent

	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, domain.NewInternalError("failed to save result", err)
	}

	if err := s.stats.RecordQuizCompletion(ctx, quizID, result.Score); err != nil {
		appLogger.Warn("Failed to update quiz stats after completion",
			zap.String("quizID", quizID), zap.Error(err))
	}
	if err := s.stats.RecordQuizTaken(ctx, userID, result.Score); err != nil {
		appLogger.Warn("Failed to update user stats after completion",
			zap.String("userID", userID), zap.Error(err))
	}

	appLogger.Info("Quiz completed",
		zap.String("quizID", quizID), zap.String("userID", userID), zap.Int("score", result.Score))
	return result, nil
}

// UserResults lists a user's history, newest first. While the history
// index is still being provisioned the screen degrades to an empty list
// instead of failing.
func (s *resultServiceImpl) UserResults(ctx context.Context, userID string) ([]*domain.QuizResult, error) {
	results, err := s.resultRepo.ByUser(ctx, userID)
	if errors.Is(err, store.ErrIndexNotReady) {
		logger.Get().Warn("History index not ready, returning empty history",
			zap.String("userID", userID))
		return []*domain.QuizResult{}, nil
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to list results", err)
	}
	return results, nil
}

func (s *resultServiceImpl) QuizResults(ctx context.Context, quizID string) ([]*domain.QuizResult, error) {
	results, err := s.resultRepo.ByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quiz results", err)
	}
	return results, nil
}

func (s *resultServiceImpl) UserQuizResults(ctx context.Context, userID, quizID string) ([]*domain.QuizResult, error) {
	results, err := s.resultRepo.ByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list attempts", err)
	}
	return results, nil
}

// BestResult picks the highest-scoring attempt client-side; (nil, nil)
// when the user has never taken the quiz.
func (s *resultServiceImpl) BestResult(ctx context.Context, userID, quizID string) (*domain.QuizResult, error) {
	results, err := s.UserQuizResults(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	var best *domain.QuizResult
	for _, result := range results {
		if best == nil || result.Score > best.Score {
			best = result
		}
	}
	return best, nil
}
