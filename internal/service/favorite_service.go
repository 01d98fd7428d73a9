package service

import (
	"context"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository"
)

// FavoriteService manages per-user favorite quizzes. Add and Remove are
// idempotent: repeating either leaves the same state behind.
type FavoriteService interface {
	Add(ctx context.Context, userID, quizID string) error
	Remove(ctx context.Context, userID, quizID string) error
	IsFavorite(ctx context.Context, userID, quizID string) (bool, error)
	UserFavorites(ctx context.Context, userID string) ([]*domain.Quiz, error)
}

type favoriteServiceImpl struct {
	favoriteRepo repository.FavoriteRepository
	quizRepo     repository.QuizRepository
}

// NewFavoriteService creates a new instance of FavoriteService.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, quizRepo repository.QuizRepository) FavoriteService {
	return &favoriteServiceImpl{favoriteRepo: favoriteRepo, quizRepo: quizRepo}
}

// Add favorites a quiz. The composite key makes a repeated add an
// overwrite of the same document, so no existence check is needed.
func (s *favoriteServiceImpl) Add(ctx context.Context, userID, quizID string) error {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}

	favorite := domain.NewFavorite(domain.NewPairKey(userID, quizID))
	if err := s.favoriteRepo.Put(ctx, favorite); err != nil {
		return domain.NewInternalError("failed to add favorite", err)
	}
	return nil
}

// Remove unfavorites a quiz; removing an absent favorite is a no-op.
func (s *favoriteServiceImpl) Remove(ctx context.Context, userID, quizID string) error {
	if err := s.favoriteRepo.Delete(ctx, domain.NewPairKey(userID, quizID)); err != nil {
		return domain.NewInternalError("failed to remove favorite", err)
	}
	return nil
}

// IsFavorite is a direct key lookup, never a query.
func (s *favoriteServiceImpl) IsFavorite(ctx context.Context, userID, quizID string) (bool, error) {
	favorite, err := s.favoriteRepo.Get(ctx, domain.NewPairKey(userID, quizID))
	if err != nil {
		return false, domain.NewInternalError("failed to check favorite", err)
	}
	return favorite != nil, nil
}

// UserFavorites resolves the user's favorites to quiz documents, keeping
// the most-recently-added ordering. Favorites whose quiz has since been
// deleted are skipped.
func (s *favoriteServiceImpl) UserFavorites(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	favorites, err := s.favoriteRepo.ByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list favorites", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(favorites))
	for _, favorite := range favorites {
		quiz, err := s.quizRepo.GetByID(ctx, favorite.QuizID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load favorited quiz", err)
		}
		if quiz != nil {
			quizzes = append(quizzes, quiz)
		}
	}
	return quizzes, nil
}
