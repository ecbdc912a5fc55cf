package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType represents the type of question
// #IMPLEMENTATION_DECISION: Stored and serialized in the lowercase form the take page uses
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeCheckbox       QuestionType = "checkbox"
	QuestionTypeDropdown       QuestionType = "dropdown"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeRanking        QuestionType = "ranking"
	QuestionTypeMatrix         QuestionType = "matrix"
	QuestionTypeFile           QuestionType = "file"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeTime           QuestionType = "time"
)

// MaxRating is the number of stars a rating question offers
const MaxRating = 5

// IsValid checks if the QuestionType is a valid value
func (qt QuestionType) IsValid() bool {
	switch qt {
	case QuestionTypeText, QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeDropdown,
		QuestionTypeRating, QuestionTypeRanking, QuestionTypeMatrix, QuestionTypeFile,
		QuestionTypeDate, QuestionTypeTime:
		return true
	}
	return false
}

// RequiresOptions returns true if this question type requires options
func (qt QuestionType) RequiresOptions() bool {
	switch qt {
	case QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeDropdown,
		QuestionTypeRanking, QuestionTypeMatrix:
		return true
	}
	return false
}

// IsChoiceType returns true if answers are picked from the option list
func (qt QuestionType) IsChoiceType() bool {
	return qt == QuestionTypeMultipleChoice || qt == QuestionTypeCheckbox || qt == QuestionTypeDropdown
}

// ValidationFormat is a named format check
type ValidationFormat string

const (
	ValidationFormatEmail ValidationFormat = "email"
	ValidationFormatURL   ValidationFormat = "url"
)

// ValidationRules is the optional constraint bag of a question.
// Nil pointers and empty strings mean the constraint is absent.
type ValidationRules struct {
	MinLength *int             `bson:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int             `bson:"max_length,omitempty" json:"max_length,omitempty"`
	Pattern   string           `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Message   string           `bson:"message,omitempty" json:"message,omitempty"`
	Min       *float64         `bson:"min,omitempty" json:"min,omitempty"`
	Max       *float64         `bson:"max,omitempty" json:"max,omitempty"`
	Type      ValidationFormat `bson:"type,omitempty" json:"type,omitempty"`
}

// Validate checks that the rule bag can be evaluated
func (r ValidationRules) Validate() error {
	if r.MinLength != nil && *r.MinLength < 0 {
		return fmt.Errorf("%w: min_length must not be negative", ErrInvalidInput)
	}
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		return fmt.Errorf("%w: min_length exceeds max_length", ErrInvalidInput)
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: min exceeds max", ErrInvalidInput)
	}
	if r.Pattern != "" {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("%w: pattern does not compile: %v", ErrInvalidInput, err)
		}
	}
	switch r.Type {
	case "", ValidationFormatEmail, ValidationFormatURL:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidInput, r.Type)
	}
	return nil
}

// SkipCondition is the comparison a skip-logic rule applies to its source answer
type SkipCondition string

const (
	ConditionEquals      SkipCondition = "equals"
	ConditionNotEquals   SkipCondition = "not_equals"
	ConditionContains    SkipCondition = "contains"
	ConditionNotContains SkipCondition = "not_contains"
	ConditionGreaterThan SkipCondition = "greater_than"
	ConditionLessThan    SkipCondition = "less_than"
	ConditionIsEmpty     SkipCondition = "is_empty"
	ConditionIsNotEmpty  SkipCondition = "is_not_empty"
)

// IsValid checks if the SkipCondition is a valid value
func (c SkipCondition) IsValid() bool {
	switch c {
	case ConditionEquals, ConditionNotEquals, ConditionContains, ConditionNotContains,
		ConditionGreaterThan, ConditionLessThan, ConditionIsEmpty, ConditionIsNotEmpty:
		return true
	}
	return false
}

// NeedsValue returns false for the emptiness checks
func (c SkipCondition) NeedsValue() bool {
	return c != ConditionIsEmpty && c != ConditionIsNotEmpty
}

// SkipAction is what a matching rule does to its question
type SkipAction string

const (
	ActionShow   SkipAction = "show"
	ActionHide   SkipAction = "hide"
	ActionSkipTo SkipAction = "skip_to"
)

// IsValid checks if the SkipAction is a valid value
func (a SkipAction) IsValid() bool {
	return a == ActionShow || a == ActionHide || a == ActionSkipTo
}

// SkipLogicRule conditionally shows or hides the owning question
// #BUSINESS_RULE: skip_to behaves like hide for visibility; the target is navigation metadata
type SkipLogicRule struct {
	QuestionID       string        `bson:"question_id" json:"question_id"`
	Condition        SkipCondition `bson:"condition" json:"condition"`
	Value            string        `bson:"value,omitempty" json:"value,omitempty"`
	Action           SkipAction    `bson:"action" json:"action"`
	TargetQuestionID string        `bson:"target_question_id,omitempty" json:"target_question_id,omitempty"`
}

// SkipLogic holds the ordered rule set; declaration order is evaluation order
type SkipLogic struct {
	Rules []SkipLogicRule `bson:"rules" json:"rules"`
}

// Question represents an individual survey question
// #DATA_ASSUMPTION: OrderIndex is unique within a survey and orders presentation
// #DATA_ASSUMPTION: Score > 0 makes the question count toward quiz scoring
// #CARDINALITY_ASSUMPTION: Survey 1:N Questions
type Question struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID `bson:"survey_id" json:"survey_id"`

	// Content
	Text     string       `bson:"question_text" json:"question_text"`
	Type     QuestionType `bson:"question_type" json:"question_type"`
	Options  []string     `bson:"options" json:"options"`
	HelpText string       `bson:"help_text,omitempty" json:"help_text,omitempty"`

	// Behavior
	Required   bool            `bson:"is_required" json:"is_required"`
	Validation ValidationRules `bson:"validation_rules" json:"validation_rules"`
	SkipLogic  SkipLogic       `bson:"skip_logic" json:"skip_logic"`
	OrderIndex int             `bson:"order_index" json:"order_index"`

	// Scoring
	Score         float64      `bson:"score,omitempty" json:"score,omitempty"`
	CorrectAnswer *AnswerValue `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`

	// Audit fields
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for questions
func (Question) CollectionName() string {
	return "survey_questions"
}

// BeforeCreate sets default values before inserting a new question
func (q *Question) BeforeCreate() {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	q.CreatedAt = now
	q.UpdatedAt = now

	if q.Options == nil {
		q.Options = []string{}
	}
	if q.SkipLogic.Rules == nil {
		q.SkipLogic.Rules = []SkipLogicRule{}
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (q *Question) BeforeUpdate() {
	q.UpdatedAt = time.Now().UTC()
}

// Key returns the id used in answer sets and skip-logic rules
func (q *Question) Key() string {
	return q.ID.Hex()
}

// HasSkipLogic returns true if the question carries any rule
func (q *Question) HasSkipLogic() bool {
	return len(q.SkipLogic.Rules) > 0
}

// Contributes returns true if the question counts toward quiz scoring
func (q *Question) Contributes() bool {
	return q.Score > 0
}

// matrixParts joins the options with commas and splits once on the first |
func (q *Question) matrixParts() (string, string, bool) {
	joined := strings.Join(q.Options, ",")
	return strings.Cut(joined, "|")
}

func splitLabels(s string) []string {
	labels := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// MatrixRows returns the row labels of a matrix question
func (q *Question) MatrixRows() []string {
	rows, _, _ := q.matrixParts()
	return splitLabels(rows)
}

// MatrixColumns returns the column labels of a matrix question
func (q *Question) MatrixColumns() []string {
	_, cols, ok := q.matrixParts()
	if !ok {
		return []string{}
	}
	cols, _, _ = strings.Cut(cols, "|")
	return splitLabels(cols)
}

// HasOption returns true if the option is offered
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// ValidateDefinition checks the question as authored, independent of its siblings
func (q *Question) ValidateDefinition() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidInput)
	}
	if !q.Type.IsValid() {
		return ErrInvalidQuestionType
	}
	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return ErrMissingQuestionOptions
	}
	if q.Type == QuestionTypeMatrix && (len(q.MatrixRows()) == 0 || len(q.MatrixColumns()) == 0) {
		return ErrInvalidMatrixOptions
	}
	if q.Score < 0 {
		return ErrInvalidScoreWeight
	}
	if q.OrderIndex < 0 {
		return fmt.Errorf("%w: order_index must not be negative", ErrInvalidInput)
	}
	if err := q.Validation.Validate(); err != nil {
		return err
	}
	if q.CorrectAnswer != nil {
		conformed, err := q.CorrectAnswer.ConformTo(q.Type)
		if err != nil {
			return err
		}
		*q.CorrectAnswer = conformed
	}
	return nil
}

// ValidateSkipLogic checks the rule set against the other questions of the survey.
// Sources must precede the question and skip_to targets must follow it.
func (q *Question) ValidateSkipLogic(all []Question) error {
	byID := make(map[string]*Question, len(all))
	for i := range all {
		byID[all[i].Key()] = &all[i]
	}

	for i, rule := range q.SkipLogic.Rules {
		if !rule.Condition.IsValid() {
			return fmt.Errorf("%w: rule %d has unknown condition %q", ErrInvalidSkipLogic, i+1, rule.Condition)
		}
		if !rule.Action.IsValid() {
			return fmt.Errorf("%w: rule %d has unknown action %q", ErrInvalidSkipLogic, i+1, rule.Action)
		}
		if rule.Condition.NeedsValue() && rule.Value == "" {
			return fmt.Errorf("%w: rule %d needs a comparison value", ErrInvalidSkipLogic, i+1)
		}

		source, ok := byID[rule.QuestionID]
		if !ok {
			return fmt.Errorf("%w: rule %d references unknown question", ErrInvalidSkipLogic, i+1)
		}
		if source.OrderIndex >= q.OrderIndex {
			return fmt.Errorf("%w: rule %d must reference an earlier question", ErrInvalidSkipLogic, i+1)
		}

		if rule.Action == ActionSkipTo {
			target, ok := byID[rule.TargetQuestionID]
			if !ok {
				return fmt.Errorf("%w: rule %d skip target not found", ErrInvalidSkipLogic, i+1)
			}
			if target.OrderIndex <= q.OrderIndex {
				return fmt.Errorf("%w: rule %d must skip to a later question", ErrInvalidSkipLogic, i+1)
			}
		}
	}
	return nil
}

// AcceptsAnswer checks the answer shape and its membership in the offered options.
// Constraint rules are not checked here.
func (q *Question) AcceptsAnswer(v AnswerValue) error {
	if v.Kind != AnswerKindFor(q.Type) {
		return fmt.Errorf("%w: %s answer for %s question", ErrInvalidAnswerFormat, v.Kind, q.Type)
	}
	if v.IsEmpty() {
		return nil
	}

	switch q.Type {
	case QuestionTypeMultipleChoice, QuestionTypeDropdown:
		if len(q.Options) > 0 && !q.HasOption(v.Text) {
			return fmt.Errorf("%w: %q is not an option", ErrInvalidAnswerFormat, v.Text)
		}
	case QuestionTypeCheckbox:
		seen := make(map[string]bool, len(v.Choices))
		for _, c := range v.Choices {
			if !q.HasOption(c) || seen[c] {
				return fmt.Errorf("%w: %q is not a selectable option", ErrInvalidAnswerFormat, c)
			}
			seen[c] = true
		}
	case QuestionTypeRanking:
		if !isPermutation(v.Choices, q.Options) {
			return fmt.Errorf("%w: ranking must order every option exactly once", ErrInvalidAnswerFormat)
		}
	case QuestionTypeRating:
		if v.Rating < 0 || v.Rating > MaxRating {
			return fmt.Errorf("%w: rating must be between 1 and %d", ErrInvalidAnswerFormat, MaxRating)
		}
	case QuestionTypeMatrix:
		rows, cols := len(q.MatrixRows()), len(q.MatrixColumns())
		for key := range v.Matrix {
			if !validMatrixKey(key, rows, cols) {
				return fmt.Errorf("%w: unknown matrix cell %q", ErrInvalidAnswerFormat, key)
			}
		}
	case QuestionTypeDate:
		if _, err := time.Parse("2006-01-02", v.Text); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidAnswerFormat)
		}
	case QuestionTypeTime:
		if _, err := time.Parse("15:04", v.Text); err != nil {
			if _, err := time.Parse("15:04:05", v.Text); err != nil {
				return fmt.Errorf("%w: time must be HH:MM", ErrInvalidAnswerFormat)
			}
		}
	}
	return nil
}

func isPermutation(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	counts := make(map[string]int, len(want))
	for _, w := range want {
		counts[w]++
	}
	for _, g := range got {
		counts[g]--
		if counts[g] < 0 {
			return false
		}
	}
	return true
}

func validMatrixKey(key string, rows, cols int) bool {
	r, c, ok := strings.Cut(key, "-")
	if !ok {
		return false
	}
	ri, err := strconv.Atoi(r)
	if err != nil || ri < 0 || ri >= rows {
		return false
	}
	ci, err := strconv.Atoi(c)
	return err == nil && ci >= 0 && ci < cols
}
