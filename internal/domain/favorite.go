package domain

import (
	"fmt"
	"strings"
	"time"
)

// PairKey is the composite identity for per-user-per-quiz records
// (favorites and ratings). The deterministic "userID_quizID" form makes
// add/rate idempotent upserts and existence checks a direct key lookup.
type PairKey struct {
	UserID string
	QuizID string
}

func NewPairKey(userID, quizID string) PairKey {
	return PairKey{UserID: userID, QuizID: quizID}
}

// String renders the stored document id.
func (k PairKey) String() string {
	return k.UserID + "_" + k.QuizID
}

// ParsePairKey splits a stored document id back into its references.
func ParsePairKey(s string) (PairKey, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return PairKey{}, NewInvalidInputError(fmt.Sprintf("malformed composite key: %s", s))
	}
	return PairKey{UserID: parts[0], QuizID: parts[1]}, nil
}

// Favorite marks a quiz as favorited by a user.
type Favorite struct {
	ID      string    `bson:"_id" json:"id"`
	UserID  string    `bson:"userId" json:"userId"`
	QuizID  string    `bson:"quizId" json:"quizId"`
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`
}

// NewFavorite builds a favorite at its composite key.
func NewFavorite(key PairKey) *Favorite {
	return &Favorite{
		ID:      key.String(),
		UserID:  key.UserID,
		QuizID:  key.QuizID,
		AddedAt: time.Now(),
	}
}

// Rating is one user's 1-5 rating of a quiz; re-rating overwrites
// (last-write-wins at the composite key).
type Rating struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	QuizID    string    `bson:"quizId" json:"quizId"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewRating builds a rating at its composite key.
func NewRating(key PairKey, value int, comment string) (*Rating, error) {
	if value < 1 || value > 5 {
		return nil, NewInvalidInputError(fmt.Sprintf("rating must be between 1 and 5, got %d", value))
	}
	return &Rating{
		ID:        key.String(),
		UserID:    key.UserID,
		QuizID:    key.QuizID,
		Rating:    value,
		Comment:   comment,
		CreatedAt: time.Now(),
	}, nil
}
