package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCreator() *domain.User {
	return &domain.User{ID: "creator1", Email: "c@example.com", DisplayName: "Creator"}
}

func createRequest() dto.CreateQuizRequest {
	return dto.CreateQuizRequest{
		Title:    "My quiz",
		Category: "science",
		Level:    "basic",
		IsPublic: true,
		Questions: []dto.QuestionRequest{
			{
				Prompt:        "Is water wet?",
				Type:          "boolean",
				Options:       []string{"True", "False"},
				CorrectAnswer: 0,
			},
		},
	}
}

func TestQuizServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with fresh id and zeroed stats", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewQuizService(quizRepo, stats, nil, time.Minute)

		var created *domain.Quiz
		quizRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Quiz)
		}).Return(nil)
		stats.On("IncrementQuizzesCreated", ctx, "creator1").Return(nil)

		quiz, err := svc.Create(ctx, testCreator(), createRequest())
		assert.NoError(t, err)
		assert.NotEmpty(t, quiz.QuizID)
		assert.Equal(t, domain.QuizStats{}, quiz.Stats)
		assert.Equal(t, "creator1", quiz.CreatedBy.UserID)
		assert.NotEmpty(t, quiz.Questions[0].QuestionID)
		assert.Same(t, quiz, created)
		stats.AssertExpectations(t)
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewQuizService(quizRepo, stats, nil, time.Minute)

		req := createRequest()
		req.Category = "nonsense"
		_, err := svc.Create(ctx, testCreator(), req)
		assert.Error(t, err)
		quizRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects question with out-of-range answer", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewQuizService(quizRepo, stats, nil, time.Minute)

		req := createRequest()
		req.Questions[0].CorrectAnswer = 5
		_, err := svc.Create(ctx, testCreator(), req)
		assert.Error(t, err)
	})

	t.Run("stats failure does not fail the create", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewQuizService(quizRepo, stats, nil, time.Minute)

		quizRepo.On("Create", ctx, mock.Anything).Return(nil)
		stats.On("IncrementQuizzesCreated", ctx, "creator1").Return(ErrStatsContention)

		_, err := svc.Create(ctx, testCreator(), createRequest())
		assert.NoError(t, err)
	})
}

func TestQuizServiceOwnership(t *testing.T) {
	ctx := context.Background()

	ownedQuiz := func() *domain.Quiz {
		return &domain.Quiz{
			QuizID:   "quiz1",
			Title:    "Owned",
			Category: domain.CategoryScience,
			Level:    domain.LevelBasic,
			IsPublic: true,
			CreatedBy: domain.QuizCreator{
				UserID: "creator1",
			},
		}
	}

	t.Run("update by non-creator is forbidden", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ownedQuiz(), nil)

		title := "Hijacked"
		_, err := svc.Update(ctx, "quiz1", "intruder", dto.UpdateQuizRequest{Title: &title})
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
		quizRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete by non-creator is forbidden", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ownedQuiz(), nil)

		err := svc.Delete(ctx, "quiz1", "intruder")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)
		quizRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete by creator lowers the authored counter", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		stats := new(MockStatsService)
		svc := NewQuizService(quizRepo, stats, nil, time.Minute)

		quizRepo.On("GetByID", ctx, "quiz1").Return(ownedQuiz(), nil)
		quizRepo.On("Delete", ctx, "quiz1").Return(nil)
		stats.On("DecrementQuizzesCreated", ctx, "creator1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "quiz1", "creator1"))
		stats.AssertExpectations(t)
	})

	t.Run("private quiz hidden from non-creator", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quiz := ownedQuiz()
		quiz.IsPublic = false
		quizRepo.On("GetByID", ctx, "quiz1").Return(quiz, nil)

		_, err := svc.Get(ctx, "quiz1", "someone-else")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeForbidden, domainErr.Code)

		got, err := svc.Get(ctx, "quiz1", "creator1")
		assert.NoError(t, err)
		assert.Equal(t, quiz, got)
	})
}

func creatorQuizzes() []*domain.Quiz {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.Quiz{
		{QuizID: "q3", Title: "Newest", IsPublic: true, CreatedBy: domain.QuizCreator{UserID: "creator1"}, CreatedAt: base.Add(2 * time.Hour)},
		{QuizID: "q2", Title: "Private", IsPublic: false, CreatedBy: domain.QuizCreator{UserID: "creator1"}, CreatedAt: base.Add(time.Hour)},
		{QuizID: "q1", Title: "Oldest", IsPublic: true, CreatedBy: domain.QuizCreator{UserID: "creator1"}, CreatedAt: base},
	}
}

func TestQuizServiceByCreator(t *testing.T) {
	ctx := context.Background()

	t.Run("indexed path serves ordered results", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizRepo.On("ByCreatorIndexed", ctx, "creator1").Return(creatorQuizzes(), nil)

		quizzes, err := svc.ByCreator(ctx, "creator1", "creator1")
		assert.NoError(t, err)
		assert.Len(t, quizzes, 3)
		quizRepo.AssertNotCalled(t, "ByCreatorUnindexed", mock.Anything, mock.Anything)
	})

	t.Run("fallback returns the same set ordered newest first", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		shuffled := []*domain.Quiz{creatorQuizzes()[2], creatorQuizzes()[0], creatorQuizzes()[1]}
		quizRepo.On("ByCreatorIndexed", ctx, "creator1").
			Return(nil, fmt.Errorf("wrapped: %w", store.ErrIndexNotReady))
		quizRepo.On("ByCreatorUnindexed", ctx, "creator1").Return(shuffled, nil)

		quizzes, err := svc.ByCreator(ctx, "creator1", "creator1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"q3", "q2", "q1"}, quizIDs(quizzes))
	})

	t.Run("non-creator viewer only sees public quizzes", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizRepo.On("ByCreatorIndexed", ctx, "creator1").Return(creatorQuizzes(), nil)

		quizzes, err := svc.ByCreator(ctx, "creator1", "visitor")
		assert.NoError(t, err)
		assert.Equal(t, []string{"q3", "q1"}, quizIDs(quizzes))
	})
}

func quizIDs(quizzes []*domain.Quiz) []string {
	ids := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.QuizID)
	}
	return ids
}

func TestQuizServiceSearch(t *testing.T) {
	ctx := context.Background()

	catalog := []*domain.Quiz{
		{QuizID: "q1", Title: "World Capitals", IsPublic: true},
		{QuizID: "q2", Title: "Go Basics", IsPublic: true},
		{QuizID: "q3", Title: "Advanced Go Patterns", IsPublic: true},
	}

	t.Run("case-insensitive substring match", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizRepo.On("Public", ctx, searchFetchLimit).Return(catalog, nil)

		quizzes, err := svc.Search(ctx, "go")
		assert.NoError(t, err)
		assert.Equal(t, []string{"q2", "q3"}, quizIDs(quizzes))
	})

	t.Run("blank query returns nothing without querying", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		svc := NewQuizService(quizRepo, new(MockStatsService), nil, time.Minute)

		quizzes, err := svc.Search(ctx, "   ")
		assert.NoError(t, err)
		assert.Empty(t, quizzes)
		quizRepo.AssertNotCalled(t, "Public", mock.Anything, mock.Anything)
	})
}

func TestQuizServiceCatalogCache(t *testing.T) {
	ctx := context.Background()

	catalog := []*domain.Quiz{{QuizID: "q1", Title: "Cached", IsPublic: true}}

	t.Run("miss populates the cache", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		svc := NewQuizService(quizRepo, new(MockStatsService), cacheMock, time.Minute)

		cacheMock.On("Get", ctx, mock.Anything).Return("", domain.ErrCacheMiss)
		quizRepo.On("Public", ctx, defaultListLimit).Return(catalog, nil)
		cacheMock.On("Set", ctx, mock.Anything, mock.Anything, time.Minute).Return(nil)

		quizzes, err := svc.Public(ctx, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"q1"}, quizIDs(quizzes))
		cacheMock.AssertExpectations(t)
	})

	t.Run("hit skips the store", func(t *testing.T) {
		quizRepo := new(MockQuizRepository)
		cacheMock := new(MockCache)
		svc := NewQuizService(quizRepo, new(MockStatsService), cacheMock, time.Minute)

		payload, err := json.Marshal(catalog)
		assert.NoError(t, err)
		cacheMock.On("Get", ctx, mock.Anything).Return(string(payload), nil)

		quizzes, err := svc.Public(ctx, 0)
		assert.NoError(t, err)
		assert.Equal(t, []string{"q1"}, quizIDs(quizzes))
		quizRepo.AssertNotCalled(t, "Public", mock.Anything, mock.Anything)
	})
}
