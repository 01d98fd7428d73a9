// Command seed_demo_data loads a demo account and a handful of public
// quizzes so a fresh environment has something to browse.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"
	"quizdeck/internal/store"
	"quizdeck/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const seedFilePath = "configs/seed_data/demo_quizzes.json"

type seedQuestion struct {
	Prompt        string   `json:"prompt"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type seedQuiz struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Level       string         `json:"level"`
	Tags        []string       `json:"tags,omitempty"`
	Questions   []seedQuestion `json:"questions"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx := context.Background()
	mongoStore, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		l.Fatal("Failed to connect to the document store", zap.Error(err))
	}
	defer mongoStore.Close(ctx)

	userRepo := repository.NewUserRepository(mongoStore)
	quizRepo := repository.NewQuizRepository(mongoStore)

	l.Info("Loading seed data", zap.String("path", seedFilePath))
	raw, err := os.ReadFile(seedFilePath)
	if err != nil {
		l.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}
	var seeds []seedQuiz
	if err := json.Unmarshal(raw, &seeds); err != nil {
		l.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	demoUser, err := ensureDemoUser(ctx, userRepo)
	if err != nil {
		l.Fatal("Failed to create demo user", zap.Error(err))
	}

	seeded := 0
	for _, seed := range seeds {
		quiz, err := buildSeedQuiz(demoUser, seed)
		if err != nil {
			l.Error("Skipping invalid seed quiz", zap.String("title", seed.Title), zap.Error(err))
			continue
		}
		if err := quizRepo.Create(ctx, quiz); err != nil {
			l.Error("Failed to seed quiz", zap.String("title", seed.Title), zap.Error(err))
			continue
		}
		seeded++
	}
	l.Info("Demo data seeding completed", zap.Int("quizzes", seeded))
}

func ensureDemoUser(ctx context.Context, userRepo repository.UserRepository) (*domain.User, error) {
	const demoEmail = "demo@quizdeck.dev"

	existing, err := userRepo.GetByEmail(ctx, demoEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(util.NewULID(), demoEmail, "QuizDeck Demo")
	user.PasswordHash = string(hash)
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func buildSeedQuiz(creator *domain.User, seed seedQuiz) (*domain.Quiz, error) {
	category, err := domain.ParseCategory(seed.Category)
	if err != nil {
		return nil, err
	}
	level, err := domain.ParseLevel(seed.Level)
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(seed.Questions))
	for _, q := range seed.Questions {
		questions = append(questions, domain.Question{
			QuestionID:    util.NewULID(),
			Prompt:        q.Prompt,
			Type:          domain.QuestionType(q.Type),
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        1,
			Explanation:   q.Explanation,
		})
	}

	now := time.Now()
	quiz := &domain.Quiz{
		QuizID:      util.NewULID(),
		Title:       seed.Title,
		Description: seed.Description,
		Category:    category,
		Level:       level,
		IsPublic:    true,
		Questions:   questions,
		Settings: domain.QuizSettings{
			ShowCorrectAnswers: true,
			AllowRetake:        true,
		},
		CreatedBy: domain.QuizCreator{
			UserID:      creator.ID,
			DisplayName: creator.DisplayName,
		},
		Tags:      seed.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return quiz, nil
}
