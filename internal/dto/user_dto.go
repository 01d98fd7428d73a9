package dto

import (
	"time"

	"quizdeck/internal/domain"
)

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Stats       UserStatsBlock `json:"stats"`
}

// UserStatsBlock mirrors the per-user counters for API responses.
type UserStatsBlock struct {
	QuizzesCreated int      `json:"quizzes_created"`
	QuizzesTaken   int      `json:"quizzes_taken"`
	TotalScore     int      `json:"total_score"`
	Level          int      `json:"level"`
	Achievements   []string `json:"achievements"`
}

// UpdateProfileRequest carries the mutable profile fields. Email is
// immutable and deliberately absent.
// @Description Request body for updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// NewUserProfileResponse maps a domain user onto the API shape.
func NewUserProfileResponse(user *domain.User) UserProfileResponse {
	achievements := user.Stats.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return UserProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   user.CreatedAt,
		Stats: UserStatsBlock{
			QuizzesCreated: user.Stats.QuizzesCreated,
			QuizzesTaken:   user.Stats.QuizzesTaken,
			TotalScore:     user.Stats.TotalScore,
			Level:          user.Stats.Level,
			Achievements:   achievements,
		},
	}
}
