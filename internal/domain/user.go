package domain

import "time"

// UserStats holds the per-user counters. They are adjusted in +1/-1 steps
// (and totalScore accumulation) through dedicated operations only; bulk
// overwrite happens at initialization and never afterwards. Version guards
// the read-modify-write cycle.
type UserStats struct {
	QuizzesCreated int      `bson:"quizzesCreated" json:"quizzesCreated"`
	QuizzesTaken   int      `bson:"quizzesTaken" json:"quizzesTaken"`
	TotalScore     int      `bson:"totalScore" json:"totalScore"`
	Level          int      `bson:"level" json:"level"`
	Achievements   []string `bson:"achievements" json:"achievements"`
	Version        int64    `bson:"version" json:"-"`
}

// User is an application account. The identity is the auth provider's user
// id; Email is immutable after creation.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	DisplayName  string    `bson:"displayName" json:"displayName"`
	PhotoURL     string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	GoogleID     string    `bson:"googleId,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	Stats        UserStats `bson:"stats" json:"stats"`
}

// NewUser creates an account with zeroed stats.
func NewUser(id, email, displayName string) *User {
	return &User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
		Stats: UserStats{
			Level:        1,
			Achievements: []string{},
		},
	}
}
