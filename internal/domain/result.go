package domain

import "time"

// AnswerRecord is the per-question breakdown stored on a result.
// SelectedOption is -1 for unanswered questions. TimeSpent is recorded but
// currently always zero; per-question timing has no wire-up yet.
type AnswerRecord struct {
	QuestionID     string `bson:"questionId" json:"questionId"`
	SelectedOption int    `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool   `bson:"isCorrect" json:"isCorrect"`
	TimeSpent      int    `bson:"timeSpent" json:"timeSpent"`
}

// QuizResult is the immutable record of one completed attempt. It is
// written exactly once; no update path exists.
type QuizResult struct {
	ID               string         `bson:"_id" json:"id"`
	UserID           string         `bson:"userId" json:"userId"`
	QuizID           string         `bson:"quizId" json:"quizId"`
	QuizTitle        string         `bson:"quizTitle" json:"quizTitle"`
	Score            int            `bson:"score" json:"score"` // percentage, 0-100
	TotalQuestions   int            `bson:"totalQuestions" json:"totalQuestions"`
	CorrectAnswers   int            `bson:"correctAnswers" json:"correctAnswers"`
	IncorrectAnswers int            `bson:"incorrectAnswers" json:"incorrectAnswers"`
	TimeSpent        int            `bson:"timeSpent" json:"timeSpent"`
	Answers          []AnswerRecord `bson:"answers" json:"answers"`
	CompletedAt      time.Time      `bson:"completedAt" json:"completedAt"`
}
