// Package state keeps a per-user working set of quizzes, favorites and
// recent results so repeated screen loads do not refetch everything. It is
// the server-side analogue of a client view model: reads are cheap
// snapshots and mutations patch the caches optimistically.
package state

import (
	"context"
	"sync"

	"quizdeck/internal/domain"
	"quizdeck/internal/service"

	"golang.org/x/sync/errgroup"
)

// Session is one authenticated user's working set. All access is guarded
// by an RWMutex; the optimistic patch methods mirror what the persisted
// operation just did, and Reload re-derives everything from the source of
// truth.
type Session struct {
	userID string

	quizzes   service.QuizService
	favorites service.FavoriteService
	results   service.ResultService

	mu              sync.RWMutex
	publicQuizzes   []*domain.Quiz
	myQuizzes       []*domain.Quiz
	favoriteQuizzes []*domain.Quiz
	recentResults   []*domain.QuizResult
	favoriteIDs     map[string]bool
}

// NewSession creates an empty session for userID. Call Reload to populate it.
func NewSession(userID string, quizzes service.QuizService, favorites service.FavoriteService, results service.ResultService) *Session {
	return &Session{
		userID:      userID,
		quizzes:     quizzes,
		favorites:   favorites,
		results:     results,
		favoriteIDs: make(map[string]bool),
	}
}

// Reload fans out the four loads in parallel and swaps the caches in one
// step once every load succeeded. A failed load leaves the previous state
// untouched.
func (s *Session) Reload(ctx context.Context) error {
	var (
		public    []*domain.Quiz
		mine      []*domain.Quiz
		favorites []*domain.Quiz
		results   []*domain.QuizResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		public, err = s.quizzes.Public(gctx, 0)
		return err
	})
	g.Go(func() error {
		var err error
		mine, err = s.quizzes.ByCreator(gctx, s.userID, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		favorites, err = s.favorites.UserFavorites(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.results.UserResults(gctx, s.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	favoriteIDs := make(map[string]bool, len(favorites))
	for _, quiz := range favorites {
		favoriteIDs[quiz.QuizID] = true
	}

	s.mu.Lock()
	s.publicQuizzes = public
	s.myQuizzes = mine
	s.favoriteQuizzes = favorites
	s.recentResults = results
	s.favoriteIDs = favoriteIDs
	s.mu.Unlock()
	return nil
}

// UserID returns the session owner.
func (s *Session) UserID() string {
	return s.userID
}

// PublicQuizzes returns a snapshot of the cached public catalog.
func (s *Session) PublicQuizzes() []*domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyQuizzes(s.publicQuizzes)
}

// MyQuizzes returns a snapshot of the user's own quizzes.
func (s *Session) MyQuizzes() []*domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyQuizzes(s.myQuizzes)
}

// FavoriteQuizzes returns a snapshot of the user's favorites.
func (s *Session) FavoriteQuizzes() []*domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyQuizzes(s.favoriteQuizzes)
}

// RecentResults returns a snapshot of the user's attempt history.
func (s *Session) RecentResults() []*domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.QuizResult, len(s.recentResults))
	copy(out, s.recentResults)
	return out
}

// IsFavorite reports membership from the id set without touching the store.
func (s *Session) IsFavorite(quizID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteIDs[quizID]
}

// QuizCreated patches the caches after the user authored a quiz.
func (s *Session) QuizCreated(quiz *domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.myQuizzes = prepend(s.myQuizzes, quiz)
	if quiz.IsPublic {
		s.publicQuizzes = prepend(s.publicQuizzes, quiz)
	}
}

// QuizUpdated replaces the quiz wherever it is cached. A quiz that turned
// private drops off the public list.
func (s *Session) QuizUpdated(quiz *domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.myQuizzes = replace(s.myQuizzes, quiz)
	s.favoriteQuizzes = replace(s.favoriteQuizzes, quiz)
	s.publicQuizzes = remove(s.publicQuizzes, quiz.QuizID)
	if quiz.IsPublic {
		s.publicQuizzes = prepend(s.publicQuizzes, quiz)
	}
}

// QuizDeleted drops the quiz from every cache, including the favorite set.
func (s *Session) QuizDeleted(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.myQuizzes = remove(s.myQuizzes, quizID)
	s.publicQuizzes = remove(s.publicQuizzes, quizID)
	s.favoriteQuizzes = remove(s.favoriteQuizzes, quizID)
	delete(s.favoriteIDs, quizID)
}

// FavoriteAdded patches both the favorites list and the id set.
func (s *Session) FavoriteAdded(quiz *domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favoriteIDs[quiz.QuizID] {
		return
	}
	s.favoriteIDs[quiz.QuizID] = true
	s.favoriteQuizzes = prepend(s.favoriteQuizzes, quiz)
}

// FavoriteRemoved patches both the favorites list and the id set.
func (s *Session) FavoriteRemoved(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favoriteIDs, quizID)
	s.favoriteQuizzes = remove(s.favoriteQuizzes, quizID)
}

// ResultRecorded prepends the fresh result to the history cache.
func (s *Session) ResultRecorded(result *domain.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]*domain.QuizResult, 0, len(s.recentResults)+1)
	updated = append(updated, result)
	updated = append(updated, s.recentResults...)
	s.recentResults = updated
}

func copyQuizzes(in []*domain.Quiz) []*domain.Quiz {
	out := make([]*domain.Quiz, len(in))
	copy(out, in)
	return out
}

func prepend(quizzes []*domain.Quiz, quiz *domain.Quiz) []*domain.Quiz {
	out := make([]*domain.Quiz, 0, len(quizzes)+1)
	out = append(out, quiz)
	out = append(out, quizzes...)
	return out
}

func replace(quizzes []*domain.Quiz, quiz *domain.Quiz) []*domain.Quiz {
	for i, existing := range quizzes {
		if existing.QuizID == quiz.QuizID {
			quizzes[i] = quiz
			return quizzes
		}
	}
	return quizzes
}

func remove(quizzes []*domain.Quiz, quizID string) []*domain.Quiz {
	out := quizzes[:0]
	for _, quiz := range quizzes {
		if quiz.QuizID != quizID {
			out = append(out, quiz)
		}
	}
	return out
}
