package domain

import (
	"math"
	"time"
)

// Score grades one attempt at a quiz. answers maps questionId to the
// selected option index; the map may be sparse — unanswered questions are
// simply absent. Every question in the quiz is graded: an absent or
// mismatched selection counts as incorrect, so CorrectAnswers +
// IncorrectAnswers always equals TotalQuestions. A quiz with zero
// questions scores 0.
//
// The computation is pure: persisting the returned result is the caller's
// responsibility.
func Score(quiz *Quiz, userID string, answers map[string]int) *QuizResult {
	total := len(quiz.Questions)
	records := make([]AnswerRecord, 0, total)

	correct := 0
	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		selected, answered := answers[question.QuestionID]
		if !answered {
			selected = -1
		}
		isCorrect := answered && selected == question.CorrectAnswer
		if isCorrect {
			correct++
		}
		records = append(records, AnswerRecord{
			QuestionID:     question.QuestionID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
			TimeSpent:      0, // per-question timing is not wired up yet
		})
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &QuizResult{
		UserID:           userID,
		QuizID:           quiz.QuizID,
		QuizTitle:        quiz.Title,
		Score:            score,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
		Answers:          records,
		CompletedAt:      time.Now(),
	}
}

// IncrementalMean folds one new sample into a running mean:
// newMean = (oldMean*oldCount + sample) / (oldCount + 1).
// This keeps aggregate updates O(1) in the number of historical samples.
func IncrementalMean(oldMean float64, oldCount int, sample float64) float64 {
	return (oldMean*float64(oldCount) + sample) / float64(oldCount+1)
}
