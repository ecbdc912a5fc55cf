package models

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func newQuestion(order int) Question {
	return Question{ID: primitive.NewObjectID(), OrderIndex: order}
}

func TestQuestionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		qt       QuestionType
		expected bool
	}{
		{"Text", QuestionTypeText, true},
		{"Matrix", QuestionTypeMatrix, true},
		{"Time", QuestionTypeTime, true},
		{"Uppercase rejected", QuestionType("TEXT"), false},
		{"Unknown", QuestionType("slider"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.qt.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestQuestion_Matrix(t *testing.T) {
	tests := []struct {
		name     string
		options  []string
		wantRows []string
		wantCols []string
	}{
		{"Split across options", []string{"Speed", "Price|Bad", "Good"}, []string{"Speed", "Price"}, []string{"Bad", "Good"}},
		{"Single option", []string{"A,B|X,Y,Z"}, []string{"A", "B"}, []string{"X", "Y", "Z"}},
		{"Trims labels", []string{" A ", " B | X "}, []string{"A", "B"}, []string{"X"}},
		{"No separator", []string{"A", "B"}, []string{"A", "B"}, []string{}},
		{"Extra separators ignored", []string{"A|X|Y"}, []string{"A"}, []string{"X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Type: QuestionTypeMatrix, Options: tt.options}
			if got := q.MatrixRows(); !reflect.DeepEqual(got, tt.wantRows) {
				t.Errorf("MatrixRows() = %v, want %v", got, tt.wantRows)
			}
			if got := q.MatrixColumns(); !reflect.DeepEqual(got, tt.wantCols) {
				t.Errorf("MatrixColumns() = %v, want %v", got, tt.wantCols)
			}
		})
	}
}

func TestQuestion_ValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr error
	}{
		{"Valid text", Question{Text: "Name?", Type: QuestionTypeText}, nil},
		{"Missing text", Question{Type: QuestionTypeText}, ErrInvalidInput},
		{"Unknown type", Question{Text: "Q", Type: "slider"}, ErrInvalidQuestionType},
		{"Choice without options", Question{Text: "Q", Type: QuestionTypeCheckbox}, ErrMissingQuestionOptions},
		{"Matrix without columns", Question{Text: "Q", Type: QuestionTypeMatrix, Options: []string{"A", "B"}}, ErrInvalidMatrixOptions},
		{"Negative score", Question{Text: "Q", Type: QuestionTypeText, Score: -1}, ErrInvalidScoreWeight},
		{"Bad pattern", Question{Text: "Q", Type: QuestionTypeText, Validation: ValidationRules{Pattern: "("}}, ErrInvalidInput},
		{"Inverted bounds", Question{Text: "Q", Type: QuestionTypeText, Validation: ValidationRules{Min: floatPtr(5), Max: floatPtr(1)}}, ErrInvalidInput},
		{"Inverted lengths", Question{Text: "Q", Type: QuestionTypeText, Validation: ValidationRules{MinLength: intPtr(5), MaxLength: intPtr(1)}}, ErrInvalidInput},
		{"Unknown format", Question{Text: "Q", Type: QuestionTypeText, Validation: ValidationRules{Type: "phone"}}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.ValidateDefinition()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("ValidateDefinition() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDefinition() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuestion_ValidateDefinition_ConformsCorrectAnswer(t *testing.T) {
	correct := TextAnswer("Paris")
	q := Question{Text: "Capital?", Type: QuestionTypeMultipleChoice, Options: []string{"Paris", "Rome"}, CorrectAnswer: &correct}

	if err := q.ValidateDefinition(); err != nil {
		t.Fatalf("ValidateDefinition() error = %v", err)
	}
	if q.CorrectAnswer.Kind != AnswerKindChoice {
		t.Errorf("CorrectAnswer.Kind = %v, want %v", q.CorrectAnswer.Kind, AnswerKindChoice)
	}
}

func TestQuestion_ValidateSkipLogic(t *testing.T) {
	a := newQuestion(0)
	b := newQuestion(1)
	c := newQuestion(2)
	all := []Question{a, b, c}

	tests := []struct {
		name    string
		rule    SkipLogicRule
		owner   Question
		wantErr bool
	}{
		{"Earlier source", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionEquals, Value: "Yes", Action: ActionShow}, b, false},
		{"Emptiness needs no value", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionIsEmpty, Action: ActionHide}, b, false},
		{"Skip to later", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionEquals, Value: "No", Action: ActionSkipTo, TargetQuestionID: c.Key()}, b, false},
		{"Self source", SkipLogicRule{QuestionID: b.Key(), Condition: ConditionEquals, Value: "x", Action: ActionShow}, b, true},
		{"Later source", SkipLogicRule{QuestionID: c.Key(), Condition: ConditionEquals, Value: "x", Action: ActionShow}, b, true},
		{"Unknown source", SkipLogicRule{QuestionID: primitive.NewObjectID().Hex(), Condition: ConditionEquals, Value: "x", Action: ActionShow}, b, true},
		{"Skip to earlier", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionEquals, Value: "x", Action: ActionSkipTo, TargetQuestionID: a.Key()}, b, true},
		{"Missing value", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionContains, Action: ActionShow}, b, true},
		{"Unknown condition", SkipLogicRule{QuestionID: a.Key(), Condition: "matches", Value: "x", Action: ActionShow}, b, true},
		{"Unknown action", SkipLogicRule{QuestionID: a.Key(), Condition: ConditionEquals, Value: "x", Action: "jump"}, b, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.owner
			q.SkipLogic = SkipLogic{Rules: []SkipLogicRule{tt.rule}}
			err := q.ValidateSkipLogic(all)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSkipLogic() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSkipLogic) {
				t.Errorf("ValidateSkipLogic() error = %v, want ErrInvalidSkipLogic", err)
			}
		})
	}
}

func TestQuestion_AcceptsAnswer(t *testing.T) {
	choice := Question{Type: QuestionTypeMultipleChoice, Options: []string{"Yes", "No"}}
	checkbox := Question{Type: QuestionTypeCheckbox, Options: []string{"A", "B", "C"}}
	ranking := Question{Type: QuestionTypeRanking, Options: []string{"A", "B", "C"}}
	matrix := Question{Type: QuestionTypeMatrix, Options: []string{"R1,R2|C1,C2,C3"}}

	tests := []struct {
		name    string
		q       Question
		value   AnswerValue
		wantErr bool
	}{
		{"Choice in options", choice, ChoiceAnswer("Yes"), false},
		{"Choice not offered", choice, ChoiceAnswer("Maybe"), true},
		{"Wrong kind", choice, ChoicesAnswer("Yes"), true},
		{"Empty choice", choice, AnswerValue{Kind: AnswerKindChoice}, false},
		{"Checkbox subset", checkbox, ChoicesAnswer("A", "C"), false},
		{"Checkbox duplicate", checkbox, ChoicesAnswer("A", "A"), true},
		{"Checkbox unknown", checkbox, ChoicesAnswer("D"), true},
		{"Ranking permutation", ranking, RankingAnswer("C", "A", "B"), false},
		{"Ranking partial", ranking, RankingAnswer("C", "A"), true},
		{"Ranking repeats", ranking, RankingAnswer("A", "A", "B"), true},
		{"Rating in range", Question{Type: QuestionTypeRating}, RatingAnswer(5), false},
		{"Rating too high", Question{Type: QuestionTypeRating}, RatingAnswer(6), true},
		{"Matrix cell", matrix, MatrixAnswer(map[string]bool{"1-2": true}), false},
		{"Matrix row out of range", matrix, MatrixAnswer(map[string]bool{"2-0": true}), true},
		{"Matrix malformed key", matrix, MatrixAnswer(map[string]bool{"R1-C1": true}), true},
		{"Date", Question{Type: QuestionTypeDate}, TextAnswer("2024-02-29"), false},
		{"Bad date", Question{Type: QuestionTypeDate}, TextAnswer("29/02/2024"), true},
		{"Time", Question{Type: QuestionTypeTime}, TextAnswer("09:30"), false},
		{"Time with seconds", Question{Type: QuestionTypeTime}, TextAnswer("09:30:15"), false},
		{"Bad time", Question{Type: QuestionTypeTime}, TextAnswer("9.30"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.AcceptsAnswer(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AcceptsAnswer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAnswerFormat) {
				t.Errorf("AcceptsAnswer() error = %v, want ErrInvalidAnswerFormat", err)
			}
		})
	}
}

func TestQuestion_BeforeCreate(t *testing.T) {
	q := Question{Text: "Q", Type: QuestionTypeText}
	q.BeforeCreate()

	if q.ID.IsZero() {
		t.Error("BeforeCreate() did not assign an ID")
	}
	if q.Options == nil || q.SkipLogic.Rules == nil {
		t.Error("BeforeCreate() left nil slices")
	}
	if q.CreatedAt.IsZero() || !q.CreatedAt.Equal(q.UpdatedAt) {
		t.Error("BeforeCreate() did not set timestamps")
	}
}
