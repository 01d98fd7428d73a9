package dto

import (
	"time"

	"quizdeck/internal/domain"
)

// CompleteQuizRequest represents a finished attempt: the taker's selected
// option per question id. Unanswered questions are simply absent.
// @Description Request body for submitting a completed quiz attempt
type CompleteQuizRequest struct {
	Answers   map[string]int `json:"answers" validate:"required"`
	TimeSpent int            `json:"time_spent,omitempty"`
}

// QuizResultResponse represents one graded attempt in the API response.
// @Description Graded quiz attempt
type QuizResultResponse struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user_id"`
	QuizID           string                `json:"quiz_id"`
	QuizTitle        string                `json:"quiz_title"`
	Score            int                   `json:"score"`
	TotalQuestions   int                   `json:"total_questions"`
	CorrectAnswers   int                   `json:"correct_answers"`
	IncorrectAnswers int                   `json:"incorrect_answers"`
	TimeSpent        int                   `json:"time_spent"`
	Answers          []domain.AnswerRecord `json:"answers"`
	CompletedAt      time.Time             `json:"completed_at"`
}

// QuizResultListResponse wraps a result listing.
type QuizResultListResponse struct {
	Results []QuizResultResponse `json:"results"`
	Count   int                  `json:"count"`
}

// NewQuizResultResponse maps a domain result onto the API shape.
func NewQuizResultResponse(result *domain.QuizResult) QuizResultResponse {
	return QuizResultResponse{
		ID:               result.ID,
		UserID:           result.UserID,
		QuizID:           result.QuizID,
		QuizTitle:        result.QuizTitle,
		Score:            result.Score,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectAnswers,
		IncorrectAnswers: result.IncorrectAnswers,
		TimeSpent:        result.TimeSpent,
		Answers:          result.Answers,
		CompletedAt:      result.CompletedAt,
	}
}

// NewQuizResultListResponse maps a slice of domain results onto a listing.
func NewQuizResultListResponse(results []*domain.QuizResult) QuizResultListResponse {
	items := make([]QuizResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, NewQuizResultResponse(r))
	}
	return QuizResultListResponse{Results: items, Count: len(items)}
}
