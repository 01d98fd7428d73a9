package dto

import (
	"time"

	"quizdeck/internal/domain"
)

// QuestionRequest is one question inside a create or update request.
type QuestionRequest struct {
	QuestionID    string   `json:"question_id,omitempty"`
	Prompt        string   `json:"prompt" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Options       []string `json:"options" validate:"required"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// QuizSettingsRequest mirrors domain.QuizSettings on the wire.
type QuizSettingsRequest struct {
	ShuffleQuestions   bool `json:"shuffle_questions"`
	ShuffleOptions     bool `json:"shuffle_options"`
	ShowCorrectAnswers bool `json:"show_correct_answers"`
	AllowRetake        bool `json:"allow_retake"`
	TimeLimit          int  `json:"time_limit,omitempty"`
}

// CreateQuizRequest represents the request body for authoring a quiz.
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category" validate:"required"`
	Level       string              `json:"level" validate:"required"`
	IsPublic    bool                `json:"is_public"`
	Questions   []QuestionRequest   `json:"questions" validate:"required"`
	Settings    QuizSettingsRequest `json:"settings"`
	ImageURL    string              `json:"image_url,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
}

// UpdateQuizRequest carries the editable quiz fields; nil means unchanged.
// @Description Request body for updating a quiz
type UpdateQuizRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Category    *string              `json:"category,omitempty"`
	Level       *string              `json:"level,omitempty"`
	IsPublic    *bool                `json:"is_public,omitempty"`
	Questions   []QuestionRequest    `json:"questions,omitempty"`
	Settings    *QuizSettingsRequest `json:"settings,omitempty"`
	ImageURL    *string              `json:"image_url,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
}

// QuizResponse represents a quiz in the API response.
// @Description Quiz information
type QuizResponse struct {
	QuizID      string              `json:"quiz_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category"`
	Level       string              `json:"level"`
	IsPublic    bool                `json:"is_public"`
	Questions   []domain.Question   `json:"questions"`
	Settings    domain.QuizSettings `json:"settings"`
	Stats       domain.QuizStats    `json:"stats"`
	CreatedBy   domain.QuizCreator  `json:"created_by"`
	ImageURL    string              `json:"image_url,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// QuizSummaryResponse is the list-item shape used by browse and search;
// it omits question bodies.
type QuizSummaryResponse struct {
	QuizID        string             `json:"quiz_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Category      string             `json:"category"`
	Level         string             `json:"level"`
	QuestionCount int                `json:"question_count"`
	Stats         domain.QuizStats   `json:"stats"`
	CreatedBy     domain.QuizCreator `json:"created_by"`
	ImageURL      string             `json:"image_url,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// QuizListResponse wraps a listing.
type QuizListResponse struct {
	Quizzes []QuizSummaryResponse `json:"quizzes"`
	Count   int                   `json:"count"`
}

// NewQuizResponse maps a domain quiz onto the API shape.
func NewQuizResponse(quiz *domain.Quiz) QuizResponse {
	return QuizResponse{
		QuizID:      quiz.QuizID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Category:    string(quiz.Category),
		Level:       string(quiz.Level),
		IsPublic:    quiz.IsPublic,
		Questions:   quiz.Questions,
		Settings:    quiz.Settings,
		Stats:       quiz.Stats,
		CreatedBy:   quiz.CreatedBy,
		ImageURL:    quiz.ImageURL,
		Tags:        quiz.Tags,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
}

// NewQuizSummaryResponse maps a domain quiz onto the list-item shape.
func NewQuizSummaryResponse(quiz *domain.Quiz) QuizSummaryResponse {
	return QuizSummaryResponse{
		QuizID:        quiz.QuizID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		Category:      string(quiz.Category),
		Level:         string(quiz.Level),
		QuestionCount: len(quiz.Questions),
		Stats:         quiz.Stats,
		CreatedBy:     quiz.CreatedBy,
		ImageURL:      quiz.ImageURL,
		Tags:          quiz.Tags,
		CreatedAt:     quiz.CreatedAt,
	}
}

// NewQuizListResponse maps a slice of domain quizzes onto a listing.
func NewQuizListResponse(quizzes []*domain.Quiz) QuizListResponse {
	items := make([]QuizSummaryResponse, 0, len(quizzes))
	for _, q := range quizzes {
		items = append(items, NewQuizSummaryResponse(q))
	}
	return QuizListResponse{Quizzes: items, Count: len(items)}
}
