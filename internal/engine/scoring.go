package engine

import (
	"math"
	"slices"
	"strings"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// Score aggregates quiz points over the visible questions.
//
// Only questions with a positive weight count toward the maximum. In
// completion mode any non-empty answer earns the full weight. In correctness
// mode a question with a correct answer earns its weight only when the answer
// matches; questions without one fall back to completion. The percentage is
// rounded and is 0 when nothing is weighted.
func Score(visible []models.Question, answers models.Answers, mode models.ScoringMode) models.ScoreResult {
	var result models.ScoreResult
	for i := range visible {
		q := &visible[i]
		if !q.Contributes() {
			continue
		}
		result.Max += q.Score
		if earnsCredit(q, answers[q.Key()], mode) {
			result.Total += q.Score
		}
	}
	if result.Max > 0 {
		result.Percentage = int(math.Round(100 * result.Total / result.Max))
	}
	return result
}

func earnsCredit(q *models.Question, answer models.AnswerValue, mode models.ScoringMode) bool {
	if answer.IsEmpty() {
		return false
	}
	if mode != models.ScoringModeCorrectness || q.Type == models.QuestionTypeFile {
		return true
	}
	if q.CorrectAnswer == nil || q.CorrectAnswer.IsEmpty() {
		return true
	}
	return AnswersMatch(*q.CorrectAnswer, answer)
}

// AnswersMatch compares an answer to the expected one. Text is compared
// trimmed and case-insensitively, checkbox selections as sets, rankings in
// order and matrices by their selected cells.
func AnswersMatch(expected, got models.AnswerValue) bool {
	switch expected.Kind {
	case models.AnswerKindText, models.AnswerKindChoice:
		return got.IsScalar() && strings.EqualFold(strings.TrimSpace(expected.Text), strings.TrimSpace(got.Text))
	case models.AnswerKindRating:
		return got.Kind == models.AnswerKindRating && expected.Rating == got.Rating
	case models.AnswerKindRanking:
		return got.Kind == models.AnswerKindRanking && slices.Equal(expected.Choices, got.Choices)
	case models.AnswerKindChoices:
		if got.Kind != models.AnswerKindChoices {
			return false
		}
		want := slices.Clone(expected.Choices)
		have := slices.Clone(got.Choices)
		slices.Sort(want)
		slices.Sort(have)
		return slices.Equal(slices.Compact(want), slices.Compact(have))
	case models.AnswerKindMatrix:
		return got.Kind == models.AnswerKindMatrix && slices.Equal(expected.SelectedCells(), got.SelectedCells())
	}
	return false
}
