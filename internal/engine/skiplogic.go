package engine

import (
	"strings"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// IsVisible resolves a question's visibility from its skip-logic rules.
//
// A question without rules is visible. Otherwise rules are evaluated in
// declaration order and the first matching rule decides: show makes the
// question visible, hide and skip_to hide it. When no rule matches the
// question is hidden. Rules whose source question is not part of all are
// ignored.
func IsVisible(q *models.Question, all []models.Question, answers models.Answers) bool {
	return isVisible(q, questionKeys(all), answers)
}

// VisibleQuestions returns the visible subset of all, keeping its order.
// Every answer change can flip any later question, so callers recompute the
// whole set rather than patching it.
func VisibleQuestions(all []models.Question, answers models.Answers) []models.Question {
	keys := questionKeys(all)
	visible := make([]models.Question, 0, len(all))
	for i := range all {
		if isVisible(&all[i], keys, answers) {
			visible = append(visible, all[i])
		}
	}
	return visible
}

// VisibleIDs returns the ids of the visible questions in order
func VisibleIDs(all []models.Question, answers models.Answers) []string {
	visible := VisibleQuestions(all, answers)
	ids := make([]string, len(visible))
	for i := range visible {
		ids[i] = visible[i].Key()
	}
	return ids
}

func questionKeys(all []models.Question) map[string]struct{} {
	keys := make(map[string]struct{}, len(all))
	for i := range all {
		keys[all[i].Key()] = struct{}{}
	}
	return keys
}

func isVisible(q *models.Question, keys map[string]struct{}, answers models.Answers) bool {
	if !q.HasSkipLogic() {
		return true
	}
	for _, rule := range q.SkipLogic.Rules {
		if _, ok := keys[rule.QuestionID]; !ok {
			continue
		}
		if RuleMatches(rule, answers[rule.QuestionID]) {
			return rule.Action == models.ActionShow
		}
	}
	return false
}

// RuleMatches evaluates one rule's condition against the source answer
func RuleMatches(rule models.SkipLogicRule, source models.AnswerValue) bool {
	switch rule.Condition {
	case models.ConditionEquals:
		return answerEquals(source, rule.Value)
	case models.ConditionNotEquals:
		return !answerEquals(source, rule.Value)
	case models.ConditionContains:
		return answerContains(source, rule.Value)
	case models.ConditionNotContains:
		return !answerContains(source, rule.Value)
	case models.ConditionGreaterThan:
		a, b, ok := numericPair(source, rule.Value)
		return ok && a > b
	case models.ConditionLessThan:
		a, b, ok := numericPair(source, rule.Value)
		return ok && a < b
	case models.ConditionIsEmpty:
		return source.IsBlank()
	case models.ConditionIsNotEmpty:
		return !source.IsBlank()
	}
	return false
}

// answerEquals is strict string equality for scalars and membership for lists
func answerEquals(source models.AnswerValue, value string) bool {
	switch source.Kind {
	case "":
		return false
	case models.AnswerKindText, models.AnswerKindChoice, models.AnswerKindRating:
		return source.String() == value
	}
	for _, item := range source.Strings() {
		if item == value {
			return true
		}
	}
	return false
}

func answerContains(source models.AnswerValue, value string) bool {
	return strings.Contains(strings.ToLower(source.String()), strings.ToLower(value))
}

func numericPair(source models.AnswerValue, value string) (float64, float64, bool) {
	a, ok := source.Float()
	if !ok {
		return 0, 0, false
	}
	b, ok := models.TextAnswer(value).Float()
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}
