package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuizCategory is the enumerated tag a quiz is filed under.
type QuizCategory string

const (
	CategoryMathematics QuizCategory = "mathematics"
	CategoryScience     QuizCategory = "science"
	CategoryHistory     QuizCategory = "history"
	CategoryLanguage    QuizCategory = "language"
	CategoryProgramming QuizCategory = "programming"
	CategorySports      QuizCategory = "sports"
	CategoryGeneral     QuizCategory = "general"
	CategoryLanguages   QuizCategory = "languages"
	CategoryOther       QuizCategory = "other"
)

var allCategories = map[QuizCategory]bool{
	CategoryMathematics: true,
	CategoryScience:     true,
	CategoryHistory:     true,
	CategoryLanguage:    true,
	CategoryProgramming: true,
	CategorySports:      true,
	CategoryGeneral:     true,
	CategoryLanguages:   true,
	CategoryOther:       true,
}

// ParseCategory validates a category string.
func ParseCategory(s string) (QuizCategory, error) {
	c := QuizCategory(strings.ToLower(s))
	if !allCategories[c] {
		return "", NewInvalidInputError(fmt.Sprintf("invalid category: %s", s))
	}
	return c, nil
}

// QuizLevel is the enumerated difficulty of a quiz.
type QuizLevel string

const (
	LevelBasic        QuizLevel = "basic"
	LevelIntermediate QuizLevel = "intermediate"
	LevelAdvanced     QuizLevel = "advanced"
)

// ParseLevel validates a level string.
func ParseLevel(s string) (QuizLevel, error) {
	switch l := QuizLevel(strings.ToLower(s)); l {
	case LevelBasic, LevelIntermediate, LevelAdvanced:
		return l, nil
	default:
		return "", NewInvalidInputError(fmt.Sprintf("invalid level: %s", s))
	}
}

// QuestionType distinguishes multiple-choice from true/false prompts.
type QuestionType string

const (
	QuestionMultiple QuestionType = "multiple"
	QuestionBoolean  QuestionType = "boolean"
)

// Question is one prompt inside a quiz. QuestionID is unique within its
// quiz only, not globally.
type Question struct {
	QuestionID    string       `bson:"questionId" json:"questionId"`
	Prompt        string       `bson:"prompt" json:"prompt"`
	Type          QuestionType `bson:"type" json:"type"`
	Options       []string     `bson:"options" json:"options"`
	CorrectAnswer int          `bson:"correctAnswer" json:"correctAnswer"`
	Points        int          `bson:"points" json:"points"`
	Explanation   string       `bson:"explanation,omitempty" json:"explanation,omitempty"`
	ImageURL      string       `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// Validate checks the question invariants: at least two options and a
// correct-answer index within [0, len(options)).
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return NewValidationError("prompt", "prompt is required")
	}
	if q.Type != QuestionMultiple && q.Type != QuestionBoolean {
		return NewValidationError("type", fmt.Sprintf("invalid question type: %s", q.Type))
	}
	if len(q.Options) < 2 {
		return NewValidationError("options", "at least two options are required")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return NewValidationError("correctAnswer",
			fmt.Sprintf("correct answer index %d out of range [0, %d)", q.CorrectAnswer, len(q.Options)))
	}
	return nil
}

// QuizSettings controls how a quiz is presented to a taker.
type QuizSettings struct {
	ShuffleQuestions   bool `bson:"shuffleQuestions" json:"shuffleQuestions"`
	ShuffleOptions     bool `bson:"shuffleOptions" json:"shuffleOptions"`
	ShowCorrectAnswers bool `bson:"showCorrectAnswers" json:"showCorrectAnswers"`
	AllowRetake        bool `bson:"allowRetake" json:"allowRetake"`
	TimeLimit          int  `bson:"timeLimit,omitempty" json:"timeLimit,omitempty"` // seconds, 0 = none
}

// QuizStats holds the running aggregates for a quiz. AverageScore and
// AverageRating are running means over TotalCompletions/TotalRatings and
// must only change through the incremental-update formula. Version guards
// the read-modify-write cycle.
type QuizStats struct {
	TotalAttempts    int     `bson:"totalAttempts" json:"totalAttempts"`
	TotalCompletions int     `bson:"totalCompletions" json:"totalCompletions"`
	AverageScore     float64 `bson:"averageScore" json:"averageScore"`
	AverageRating    float64 `bson:"averageRating" json:"averageRating"`
	TotalRatings     int     `bson:"totalRatings" json:"totalRatings"`
	Version          int64   `bson:"version" json:"-"`
}

// QuizCreator is the denormalized creator reference stored on a quiz.
type QuizCreator struct {
	UserID      string `bson:"userId" json:"userId"`
	DisplayName string `bson:"displayName" json:"displayName"`
	PhotoURL    string `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
}

// Quiz is a named, ordered collection of questions with visibility,
// settings and running stats.
type Quiz struct {
	QuizID      string       `bson:"_id" json:"quizId"`
	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Category    QuizCategory `bson:"category" json:"category"`
	Level       QuizLevel    `bson:"level" json:"level"`
	IsPublic    bool         `bson:"isPublic" json:"isPublic"`
	Questions   []Question   `bson:"questions" json:"questions"`
	Settings    QuizSettings `bson:"settings" json:"settings"`
	Stats       QuizStats    `bson:"stats" json:"stats"`
	CreatedBy   QuizCreator  `bson:"createdBy" json:"createdBy"`
	ImageURL    string       `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Tags        []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// Validate validates the quiz and every question in it.
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if _, err := ParseCategory(string(q.Category)); err != nil {
		return NewValidationError("category", fmt.Sprintf("invalid category: %s", q.Category))
	}
	if _, err := ParseLevel(string(q.Level)); err != nil {
		return NewValidationError("level", fmt.Sprintf("invalid level: %s", q.Level))
	}
	seen := make(map[string]bool, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.QuestionID == "" {
			return NewValidationError("questions", fmt.Sprintf("question %d is missing an id", i))
		}
		if seen[question.QuestionID] {
			return NewValidationError("questions", fmt.Sprintf("duplicate question id: %s", question.QuestionID))
		}
		seen[question.QuestionID] = true
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsOwnedBy reports whether userID created the quiz.
func (q *Quiz) IsOwnedBy(userID string) bool {
	return q.CreatedBy.UserID == userID
}
