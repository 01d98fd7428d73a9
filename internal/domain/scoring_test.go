package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoringQuiz(n int) *Quiz {
	quiz := &Quiz{
		QuizID:   "quiz1",
		Title:    "Scoring",
		Category: CategoryGeneral,
		Level:    LevelBasic,
	}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, Question{
			QuestionID:    string(rune('a' + i)),
			Prompt:        "prompt",
			Type:          QuestionMultiple,
			Options:       []string{"one", "two", "three"},
			CorrectAnswer: 1,
			Points:        1,
		})
	}
	return quiz
}

func TestScore(t *testing.T) {
	t.Run("three of five correct scores 60", func(t *testing.T) {
		quiz := scoringQuiz(5)
		answers := map[string]int{
			"a": 1, // correct
			"b": 1, // correct
			"c": 0, // wrong
			"d": 1, // correct
			// e unanswered
		}

		result := Score(quiz, "user1", answers)
		// 3 correct of 5 is 60; the wrong pick and the unanswered question
		// both count as incorrect.
		assert.Equal(t, 60, result.Score)
		assert.Equal(t, 3, result.CorrectAnswers)
		assert.Equal(t, 2, result.IncorrectAnswers)
		assert.Equal(t, 5, result.TotalQuestions)
	})

	t.Run("zero questions scores zero", func(t *testing.T) {
		result := Score(scoringQuiz(0), "user1", map[string]int{})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 0, result.TotalQuestions)
		assert.Empty(t, result.Answers)
	})

	t.Run("correct plus incorrect always equals total", func(t *testing.T) {
		quiz := scoringQuiz(4)
		for _, answers := range []map[string]int{
			{},
			{"a": 1},
			{"a": 1, "b": 0, "c": 1, "d": 2},
		} {
			result := Score(quiz, "user1", answers)
			assert.Equal(t, result.TotalQuestions, result.CorrectAnswers+result.IncorrectAnswers)
		}
	})

	t.Run("unanswered questions record selection -1", func(t *testing.T) {
		quiz := scoringQuiz(2)
		result := Score(quiz, "user1", map[string]int{"a": 1})

		assert.Len(t, result.Answers, 2)
		assert.Equal(t, 1, result.Answers[0].SelectedOption)
		assert.True(t, result.Answers[0].IsCorrect)
		assert.Equal(t, -1, result.Answers[1].SelectedOption)
		assert.False(t, result.Answers[1].IsCorrect)
	})

	t.Run("score is rounded to nearest percent", func(t *testing.T) {
		quiz := scoringQuiz(3)
		result := Score(quiz, "user1", map[string]int{"a": 1})
		// 1/3 rounds to 33
		assert.Equal(t, 33, result.Score)

		result = Score(quiz, "user1", map[string]int{"a": 1, "b": 1})
		// 2/3 rounds to 67
		assert.Equal(t, 67, result.Score)
	})
}

func TestIncrementalMean(t *testing.T) {
	t.Run("sequence of samples", func(t *testing.T) {
		mean := 0.0
		mean = IncrementalMean(mean, 0, 80)
		assert.InDelta(t, 80.0, mean, 1e-9)
		mean = IncrementalMean(mean, 1, 60)
		assert.InDelta(t, 70.0, mean, 1e-9)
		mean = IncrementalMean(mean, 2, 100)
		assert.InDelta(t, 80.0, mean, 1e-9)
	})

	t.Run("matches arithmetic mean", func(t *testing.T) {
		samples := []float64{12, 99, 43, 70, 55, 0, 100, 31}
		mean := 0.0
		sum := 0.0
		for i, s := range samples {
			mean = IncrementalMean(mean, i, s)
			sum += s
		}
		assert.InDelta(t, sum/float64(len(samples)), mean, 1e-9)
	})
}
