package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"quizdeck/internal/cache"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/store"
	"quizdeck/internal/util"

	"go.uber.org/zap"
)

const (
	// defaultListLimit bounds catalog listings when the caller does not ask
	// for a specific page size.
	defaultListLimit = 50
	maxListLimit     = 100

	// searchFetchLimit caps how many public quizzes the substring search
	// scans. Title search is a client-side match over this window, a
	// deliberate simplification over a real text index.
	searchFetchLimit = 100

	cacheServiceQuiz = "quiz"
	cacheObjectList  = "list"
)

// QuizService covers authoring and the public catalog.
type QuizService interface {
	Create(ctx context.Context, creator *domain.User, req dto.CreateQuizRequest) (*domain.Quiz, error)
	Get(ctx context.Context, quizID, viewerID string) (*domain.Quiz, error)
	Update(ctx context.Context, quizID, callerID string, req dto.UpdateQuizRequest) (*domain.Quiz, error)
	Delete(ctx context.Context, quizID, callerID string) error

	Public(ctx context.Context, limit int) ([]*domain.Quiz, error)
	ByCategory(ctx context.Context, category domain.QuizCategory, limit int) ([]*domain.Quiz, error)
	ByLevel(ctx context.Context, level domain.QuizLevel, limit int) ([]*domain.Quiz, error)
	Recommended(ctx context.Context, limit int) ([]*domain.Quiz, error)
	Popular(ctx context.Context, limit int) ([]*domain.Quiz, error)
	Search(ctx context.Context, query string) ([]*domain.Quiz, error)
	ByCreator(ctx context.Context, creatorID, viewerID string) ([]*domain.Quiz, error)
}

type quizServiceImpl struct {
	quizRepo   repository.QuizRepository
	stats      StatsService
	cache      domain.Cache
	catalogTTL time.Duration
}

// NewQuizService creates a new instance of QuizService. cacheClient may be
// nil, in which case listings always hit the store.
func NewQuizService(quizRepo repository.QuizRepository, stats StatsService, cacheClient domain.Cache, catalogTTL time.Duration) QuizService {
	return &quizServiceImpl{
		quizRepo:   quizRepo,
		stats:      stats,
		cache:      cacheClient,
		catalogTTL: catalogTTL,
	}
}

// Create validates and persists a new quiz with a fresh id and zeroed
// stats, then bumps the creator's authored counter best-effort.
func (s *quizServiceImpl) Create(ctx context.Context, creator *domain.User, req dto.CreateQuizRequest) (*domain.Quiz, error) {
	appLogger := logger.Get()

	quiz, err := buildQuiz(creator, req)
	if err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to create quiz", err)
	}

	if err := s.stats.IncrementQuizzesCreated(ctx, creator.ID); err != nil {
		appLogger.Warn("Failed to bump quizzesCreated",
			zap.String("userID", creator.ID), zap.Error(err))
	}

	s.invalidateCatalog(ctx, quiz)
	appLogger.Info("Quiz created",
		zap.String("quizID", quiz.QuizID), zap.String("creatorID", creator.ID))
	return quiz, nil
}

// Get loads a quiz. Private quizzes are only visible to their creator.
func (s *quizServiceImpl) Get(ctx context.Context, quizID, viewerID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.IsPublic && !quiz.IsOwnedBy(viewerID) {
		return nil, domain.NewForbiddenError("quiz is private")
	}
	return quiz, nil
}

// Update merges the changed fields into an existing quiz. Only the creator
// may edit.
func (s *quizServiceImpl) Update(ctx context.Context, quizID, callerID string, req dto.UpdateQuizRequest) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.IsOwnedBy(callerID) {
		return nil, domain.NewForbiddenError("only the creator may edit a quiz")
	}

	patch, err := applyQuizUpdate(quiz, req)
	if err != nil {
		return nil, err
	}
	if err := quiz.Validate(); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	if len(patch) == 0 {
		return quiz, nil
	}

	quiz.UpdatedAt = time.Now()
	patch["updatedAt"] = quiz.UpdatedAt
	if err := s.quizRepo.Update(ctx, quizID, patch); err != nil {
		return nil, domain.NewInternalError("failed to update quiz", err)
	}

	s.invalidateCatalog(ctx, quiz)
	return quiz, nil
}

// Delete removes a quiz and lowers the creator's authored counter
// best-effort. Only the creator may delete.
func (s *quizServiceImpl) Delete(ctx context.Context, quizID, callerID string) error {
	appLogger := logger.Get()

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return domain.NewInternalError("failed to load quiz", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.IsOwnedBy(callerID) {
		return domain.NewForbiddenError("only the creator may delete a quiz")
	}

	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}

	if err := s.stats.DecrementQuizzesCreated(ctx, callerID); err != nil {
		appLogger.Warn("Failed to lower quizzesCreated",
			zap.String("userID", callerID), zap.Error(err))
	}

	s.invalidateCatalog(ctx, quiz)
	appLogger.Info("Quiz deleted", zap.String("quizID", quizID))
	return nil
}

func (s *quizServiceImpl) Public(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	limit = clampLimit(limit)
	key := cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "public", fmt.Sprintf("%d", limit))
	return s.listCached(ctx, key, func() ([]*domain.Quiz, error) {
		return s.quizRepo.Public(ctx, limit)
	})
}

func (s *quizServiceImpl) ByCategory(ctx context.Context, category domain.QuizCategory, limit int) ([]*domain.Quiz, error) {
	limit = clampLimit(limit)
	key := cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "category", string(category), fmt.Sprintf("%d", limit))
	return s.listCached(ctx, key, func() ([]*domain.Quiz, error) {
		return s.quizRepo.ByCategory(ctx, category, limit)
	})
}

func (s *quizServiceImpl) ByLevel(ctx context.Context, level domain.QuizLevel, limit int) ([]*domain.Quiz, error) {
	limit = clampLimit(limit)
	key := cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "level", string(level), fmt.Sprintf("%d", limit))
	return s.listCached(ctx, key, func() ([]*domain.Quiz, error) {
		return s.quizRepo.ByLevel(ctx, level, limit)
	})
}

func (s *quizServiceImpl) Recommended(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	limit = clampLimit(limit)
	key := cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "recommended", fmt.Sprintf("%d", limit))
	return s.listCached(ctx, key, func() ([]*domain.Quiz, error) {
		return s.quizRepo.Recommended(ctx, limit)
	})
}

func (s *quizServiceImpl) Popular(ctx context.Context, limit int) ([]*domain.Quiz, error) {
	limit = clampLimit(limit)
	key := cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "popular", fmt.Sprintf("%d", limit))
	return s.listCached(ctx, key, func() ([]*domain.Quiz, error) {
		return s.quizRepo.Popular(ctx, limit)
	})
}

// Search matches the query case-insensitively against public quiz titles.
// It scans a bounded window of recent public quizzes rather than a text
// index.
func (s *quizServiceImpl) Search(ctx context.Context, query string) ([]*domain.Quiz, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []*domain.Quiz{}, nil
	}

	quizzes, err := s.quizRepo.Public(ctx, searchFetchLimit)
	if err != nil {
		return nil, domain.NewInternalError("failed to search quizzes", err)
	}

	matched := make([]*domain.Quiz, 0)
	for _, quiz := range quizzes {
		if strings.Contains(strings.ToLower(quiz.Title), needle) {
			matched = append(matched, quiz)
		}
	}
	return matched, nil
}

// ByCreator lists a creator's quizzes, newest first. The indexed path uses
// the composite hint; if the index has not been provisioned yet the
// equality-only fallback runs and filtering plus ordering happen in memory.
// Private quizzes are stripped unless the viewer is the creator.
func (s *quizServiceImpl) ByCreator(ctx context.Context, creatorID, viewerID string) ([]*domain.Quiz, error) {
	appLogger := logger.Get()

	quizzes, err := s.quizRepo.ByCreatorIndexed(ctx, creatorID)
	if errors.Is(err, store.ErrIndexNotReady) {
		appLogger.Warn("Creator index not ready, using unindexed fallback",
			zap.String("creatorID", creatorID))
		quizzes, err = s.quizRepo.ByCreatorUnindexed(ctx, creatorID)
		if err == nil {
			sort.Slice(quizzes, func(i, j int) bool {
				return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
			})
		}
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes by creator", err)
	}

	if creatorID == viewerID {
		return quizzes, nil
	}
	visible := make([]*domain.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		if quiz.IsPublic {
			visible = append(visible, quiz)
		}
	}
	return visible, nil
}

func (s *quizServiceImpl) listCached(ctx context.Context, key string, fetch func() ([]*domain.Quiz, error)) ([]*domain.Quiz, error) {
	appLogger := logger.Get()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var quizzes []*domain.Quiz
			if err := json.Unmarshal([]byte(cached), &quizzes); err == nil {
				return quizzes, nil
			}
			appLogger.Warn("Corrupt catalog cache entry, refetching", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			appLogger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	quizzes, err := fetch()
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(quizzes); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.catalogTTL); err != nil {
				appLogger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return quizzes, nil
}

// invalidateCatalog drops every listing the quiz could have appeared on.
// Limit-parameterized variants are dropped for the default window only;
// other windows age out via TTL.
func (s *quizServiceImpl) invalidateCatalog(ctx context.Context, quiz *domain.Quiz) {
	if s.cache == nil {
		return
	}
	appLogger := logger.Get()

	limits := []int{defaultListLimit, maxListLimit, searchFetchLimit}
	keys := make([]string, 0, 5*len(limits))
	for _, limit := range limits {
		suffix := fmt.Sprintf("%d", limit)
		keys = append(keys,
			cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "public", suffix),
			cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "recommended", suffix),
			cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "popular", suffix),
			cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "category", string(quiz.Category), suffix),
			cache.GenerateCacheKey(cacheServiceQuiz, cacheObjectList, "level", string(quiz.Level), suffix),
		)
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			appLogger.Warn("Catalog cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func buildQuiz(creator *domain.User, req dto.CreateQuizRequest) (*domain.Quiz, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quiz := &domain.Quiz{
		QuizID:      util.NewULID(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    category,
		Level:       level,
		IsPublic:    req.IsPublic,
		Questions:   buildQuestions(req.Questions),
		Settings: domain.QuizSettings{
			ShuffleQuestions:   req.Settings.ShuffleQuestions,
			ShuffleOptions:     req.Settings.ShuffleOptions,
			ShowCorrectAnswers: req.Settings.ShowCorrectAnswers,
			AllowRetake:        req.Settings.AllowRetake,
			TimeLimit:          req.Settings.TimeLimit,
		},
		Stats: domain.QuizStats{},
		CreatedBy: domain.QuizCreator{
			UserID:      creator.ID,
			DisplayName: creator.DisplayName,
			PhotoURL:    creator.PhotoURL,
		},
		ImageURL:  req.ImageURL,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return quiz, nil
}

func buildQuestions(reqs []dto.QuestionRequest) []domain.Question {
	questions := make([]domain.Question, 0, len(reqs))
	for _, q := range reqs {
		id := q.QuestionID
		if id == "" {
			id = util.NewULID()
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		questions = append(questions, domain.Question{
			QuestionID:    id,
			Prompt:        q.Prompt,
			Type:          domain.QuestionType(q.Type),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
			Explanation:   q.Explanation,
			ImageURL:      q.ImageURL,
		})
	}
	return questions
}

// applyQuizUpdate mutates quiz in place and returns the field patch to
// persist.
func applyQuizUpdate(quiz *domain.Quiz, req dto.UpdateQuizRequest) (map[string]any, error) {
	patch := make(map[string]any)

	if req.Title != nil {
		quiz.Title = strings.TrimSpace(*req.Title)
		patch["title"] = quiz.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
		patch["description"] = quiz.Description
	}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		quiz.Category = category
		patch["category"] = category
	}
	if req.Level != nil {
		level, err := domain.ParseLevel(*req.Level)
		if err != nil {
			return nil, err
		}
		quiz.Level = level
		patch["level"] = level
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
		patch["isPublic"] = quiz.IsPublic
	}
	if req.Questions != nil {
		quiz.Questions = buildQuestions(req.Questions)
		patch["questions"] = quiz.Questions
	}
	if req.Settings != nil {
		quiz.Settings = domain.QuizSettings{
			ShuffleQuestions:   req.Settings.ShuffleQuestions,
			ShuffleOptions:     req.Settings.ShuffleOptions,
			ShowCorrectAnswers: req.Settings.ShowCorrectAnswers,
			AllowRetake:        req.Settings.AllowRetake,
			TimeLimit:          req.Settings.TimeLimit,
		}
		patch["settings"] = quiz.Settings
	}
	if req.ImageURL != nil {
		quiz.ImageURL = *req.ImageURL
		patch["imageUrl"] = quiz.ImageURL
	}
	if req.Tags != nil {
		quiz.Tags = req.Tags
		patch["tags"] = quiz.Tags
	}
	return patch, nil
}
