package engine

import (
	"testing"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

func weighted(order int, qType models.QuestionType, score float64) models.Question {
	q := question(order, qType)
	q.Score = score
	return q
}

func TestScore_Completion(t *testing.T) {
	a := weighted(0, models.QuestionTypeText, 10)
	b := weighted(1, models.QuestionTypeText, 20)
	c := weighted(2, models.QuestionTypeText, 0)

	tests := []struct {
		name    string
		answers models.Answers
		want    models.ScoreResult
	}{
		{"One of two answered", models.Answers{a.Key(): models.TextAnswer("x")}, models.ScoreResult{Total: 10, Max: 30, Percentage: 33}},
		{"Both answered", models.Answers{a.Key(): models.TextAnswer("x"), b.Key(): models.TextAnswer("y")}, models.ScoreResult{Total: 30, Max: 30, Percentage: 100}},
		{"Unweighted answer ignored", models.Answers{c.Key(): models.TextAnswer("x")}, models.ScoreResult{Total: 0, Max: 30, Percentage: 0}},
		{"Empty answer earns nothing", models.Answers{b.Key(): models.TextAnswer("")}, models.ScoreResult{Total: 0, Max: 30, Percentage: 0}},
		{"Second answered rounds up", models.Answers{b.Key(): models.TextAnswer("y")}, models.ScoreResult{Total: 20, Max: 30, Percentage: 67}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score([]models.Question{a, b, c}, tt.answers, models.ScoringModeCompletion)
			if got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScore_NoWeightsIsZero(t *testing.T) {
	a := weighted(0, models.QuestionTypeText, 0)
	got := Score([]models.Question{a}, models.Answers{a.Key(): models.TextAnswer("x")}, "")

	if got != (models.ScoreResult{}) {
		t.Errorf("Score() = %+v, want zero result", got)
	}
}

func TestScore_Correctness(t *testing.T) {
	capital := weighted(0, models.QuestionTypeMultipleChoice, 10)
	paris := models.ChoiceAnswer("Paris")
	capital.CorrectAnswer = &paris

	colors := weighted(1, models.QuestionTypeCheckbox, 10)
	primaries := models.ChoicesAnswer("Red", "Blue")
	colors.CorrectAnswer = &primaries

	free := weighted(2, models.QuestionTypeText, 10)

	qs := []models.Question{capital, colors, free}

	tests := []struct {
		name    string
		answers models.Answers
		want    models.ScoreResult
	}{
		{
			"All correct, sets in any order",
			models.Answers{
				capital.Key(): models.ChoiceAnswer("paris"),
				colors.Key():  models.ChoicesAnswer("Blue", "Red"),
				free.Key():    models.TextAnswer("anything"),
			},
			models.ScoreResult{Total: 30, Max: 30, Percentage: 100},
		},
		{
			"Wrong choice earns nothing",
			models.Answers{
				capital.Key(): models.ChoiceAnswer("Rome"),
				colors.Key():  models.ChoicesAnswer("Red"),
			},
			models.ScoreResult{Total: 0, Max: 30, Percentage: 0},
		},
		{
			"No correct answer falls back to completion",
			models.Answers{free.Key(): models.TextAnswer("x")},
			models.ScoreResult{Total: 10, Max: 30, Percentage: 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(qs, tt.answers, models.ScoringModeCorrectness)
			if got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScore_CompletionIgnoresCorrectAnswer(t *testing.T) {
	q := weighted(0, models.QuestionTypeMultipleChoice, 5)
	correct := models.ChoiceAnswer("Yes")
	q.CorrectAnswer = &correct

	got := Score([]models.Question{q}, models.Answers{q.Key(): models.ChoiceAnswer("No")}, models.ScoringModeCompletion)
	if got.Total != 5 {
		t.Errorf("Score() total = %v, want 5 in completion mode", got.Total)
	}
}

func TestAnswersMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected models.AnswerValue
		got      models.AnswerValue
		want     bool
	}{
		{"Text trimmed case-insensitive", models.TextAnswer("Paris"), models.TextAnswer("  paris "), true},
		{"Rating", models.RatingAnswer(4), models.RatingAnswer(4), true},
		{"Rating differs", models.RatingAnswer(4), models.RatingAnswer(3), false},
		{"Ranking order matters", models.RankingAnswer("A", "B"), models.RankingAnswer("B", "A"), false},
		{"Checkbox set", models.ChoicesAnswer("A", "B"), models.ChoicesAnswer("B", "A"), true},
		{"Checkbox subset", models.ChoicesAnswer("A", "B"), models.ChoicesAnswer("A"), false},
		{"Matrix cells", models.MatrixAnswer(map[string]bool{"0-1": true}), models.MatrixAnswer(map[string]bool{"0-1": true, "1-0": false}), true},
		{"Kind mismatch", models.RatingAnswer(4), models.TextAnswer("4"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnswersMatch(tt.expected, tt.got); got != tt.want {
				t.Errorf("AnswersMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}
