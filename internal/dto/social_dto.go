package dto

import (
	"time"

	"quizdeck/internal/domain"
)

// RateQuizRequest represents the request body for rating a quiz.
// @Description Request body for rating a quiz
type RateQuizRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse represents one user's rating of a quiz.
type RatingResponse struct {
	UserID    string    `json:"user_id"`
	QuizID    string    `json:"quiz_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingListResponse wraps a rating listing.
type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Count   int              `json:"count"`
}

// FavoriteStatusResponse reports whether the caller has favorited a quiz.
type FavoriteStatusResponse struct {
	QuizID     string `json:"quiz_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// NewRatingResponse maps a domain rating onto the API shape.
func NewRatingResponse(rating *domain.Rating) RatingResponse {
	return RatingResponse{
		UserID:    rating.UserID,
		QuizID:    rating.QuizID,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
	}
}

// NewRatingListResponse maps a slice of domain ratings onto a listing.
func NewRatingListResponse(ratings []*domain.Rating) RatingListResponse {
	items := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, NewRatingResponse(r))
	}
	return RatingListResponse{Ratings: items, Count: len(items)}
}
