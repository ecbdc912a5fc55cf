package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnswerKind tags the payload carried by an AnswerValue
type AnswerKind string

const (
	AnswerKindText    AnswerKind = "text"
	AnswerKindChoice  AnswerKind = "choice"
	AnswerKindChoices AnswerKind = "choices"
	AnswerKindRating  AnswerKind = "rating"
	AnswerKindRanking AnswerKind = "ranking"
	AnswerKindMatrix  AnswerKind = "matrix"
	AnswerKindFiles   AnswerKind = "files"
)

// FileDescriptor describes an uploaded file attached to a file question.
// Data holds the optional data URL of the content; storage is out of scope here.
type FileDescriptor struct {
	Name string `bson:"name" json:"name"`
	Size int64  `bson:"size" json:"size"`
	Type string `bson:"type" json:"type"`
	Data string `bson:"data,omitempty" json:"data,omitempty"`
}

// AnswerValue is a tagged union over every answer shape a question type accepts.
// The zero value is an absent answer.
// #IMPLEMENTATION_DECISION: Stored in MongoDB as a tagged subdocument, rendered in JSON as the bare value
type AnswerValue struct {
	Kind    AnswerKind       `bson:"kind"`
	Text    string           `bson:"text,omitempty"`
	Choices []string         `bson:"choices,omitempty"`
	Rating  int              `bson:"rating,omitempty"`
	Matrix  map[string]bool  `bson:"matrix,omitempty"`
	Files   []FileDescriptor `bson:"files,omitempty"`
}

// TextAnswer builds an answer for text, dropdown, date and time questions
func TextAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerKindText, Text: s}
}

// ChoiceAnswer builds an answer for multiple_choice questions
func ChoiceAnswer(option string) AnswerValue {
	return AnswerValue{Kind: AnswerKindChoice, Text: option}
}

// ChoicesAnswer builds an answer for checkbox questions
func ChoicesAnswer(options ...string) AnswerValue {
	return AnswerValue{Kind: AnswerKindChoices, Choices: append([]string{}, options...)}
}

// RatingAnswer builds an answer for rating questions
func RatingAnswer(r int) AnswerValue {
	return AnswerValue{Kind: AnswerKindRating, Rating: r}
}

// RankingAnswer builds an answer for ranking questions
func RankingAnswer(order ...string) AnswerValue {
	return AnswerValue{Kind: AnswerKindRanking, Choices: append([]string{}, order...)}
}

// MatrixAnswer builds an answer for matrix questions keyed by "row-col" indices
func MatrixAnswer(cells map[string]bool) AnswerValue {
	m := make(map[string]bool, len(cells))
	for k, v := range cells {
		m[k] = v
	}
	return AnswerValue{Kind: AnswerKindMatrix, Matrix: m}
}

// FilesAnswer builds an answer for file questions
func FilesAnswer(files ...FileDescriptor) AnswerValue {
	return AnswerValue{Kind: AnswerKindFiles, Files: append([]FileDescriptor{}, files...)}
}

// AnswerKindFor returns the answer kind accepted by a question type
func AnswerKindFor(qt QuestionType) AnswerKind {
	switch qt {
	case QuestionTypeMultipleChoice:
		return AnswerKindChoice
	case QuestionTypeCheckbox:
		return AnswerKindChoices
	case QuestionTypeRating:
		return AnswerKindRating
	case QuestionTypeRanking:
		return AnswerKindRanking
	case QuestionTypeMatrix:
		return AnswerKindMatrix
	case QuestionTypeFile:
		return AnswerKindFiles
	default:
		return AnswerKindText
	}
}

// IsScalar returns true for single-string answers
func (v AnswerValue) IsScalar() bool {
	return v.Kind == AnswerKindText || v.Kind == AnswerKindChoice
}

// IsSequence returns true for answers rendered as a list of strings
func (v AnswerValue) IsSequence() bool {
	return v.Kind == AnswerKindChoices || v.Kind == AnswerKindRanking
}

// IsEmpty reports an absent answer, an empty string, an empty sequence,
// a matrix with no selected cell or an unset rating
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case AnswerKindText, AnswerKindChoice:
		return v.Text == ""
	case AnswerKindChoices, AnswerKindRanking:
		return len(v.Choices) == 0
	case AnswerKindRating:
		return v.Rating == 0
	case AnswerKindMatrix:
		return len(v.SelectedCells()) == 0
	case AnswerKindFiles:
		return len(v.Files) == 0
	}
	return true
}

// IsBlank is IsEmpty that also treats whitespace-only strings as empty
func (v AnswerValue) IsBlank() bool {
	if v.IsEmpty() {
		return true
	}
	return v.IsScalar() && strings.TrimSpace(v.Text) == ""
}

// SelectedCells returns the matrix keys set to true, sorted
func (v AnswerValue) SelectedCells() []string {
	cells := make([]string, 0, len(v.Matrix))
	for k, selected := range v.Matrix {
		if selected {
			cells = append(cells, k)
		}
	}
	sort.Strings(cells)
	return cells
}

// Strings returns the answer as a list: the selections of a sequence,
// the selected matrix cells, the file names, or the scalar itself
func (v AnswerValue) Strings() []string {
	switch v.Kind {
	case AnswerKindChoices, AnswerKindRanking:
		return append([]string{}, v.Choices...)
	case AnswerKindMatrix:
		return v.SelectedCells()
	case AnswerKindFiles:
		names := make([]string, 0, len(v.Files))
		for _, f := range v.Files {
			names = append(names, f.Name)
		}
		return names
	}
	if v.IsEmpty() {
		return nil
	}
	return []string{v.String()}
}

// String renders the answer as a single string; lists are joined with one space
func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerKindText, AnswerKindChoice:
		return v.Text
	case AnswerKindRating:
		if v.Rating == 0 {
			return ""
		}
		return strconv.Itoa(v.Rating)
	case AnswerKindChoices, AnswerKindRanking, AnswerKindMatrix, AnswerKindFiles:
		return strings.Join(v.Strings(), " ")
	}
	return ""
}

// Float parses the answer as a number. Empty and non-numeric answers return false.
func (v AnswerValue) Float() (float64, bool) {
	if v.Kind == AnswerKindRating {
		if v.Rating == 0 {
			return 0, false
		}
		return float64(v.Rating), true
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ConformTo returns the value re-tagged for the given question type.
// An empty value of any shape becomes an empty answer of the target kind.
func (v AnswerValue) ConformTo(qt QuestionType) (AnswerValue, error) {
	target := AnswerKindFor(qt)
	if v.IsEmpty() {
		return AnswerValue{Kind: target}, nil
	}
	if v.Kind == target {
		return v, nil
	}
	switch {
	case v.IsScalar() && (target == AnswerKindText || target == AnswerKindChoice):
		return AnswerValue{Kind: target, Text: v.Text}, nil
	case v.Kind == AnswerKindRating && target == AnswerKindText:
		return TextAnswer(v.String()), nil
	case v.IsScalar() && target == AnswerKindRating:
		return parseRating(v.Text)
	case v.IsSequence() && (target == AnswerKindChoices || target == AnswerKindRanking):
		return AnswerValue{Kind: target, Choices: append([]string{}, v.Choices...)}, nil
	}
	return AnswerValue{}, fmt.Errorf("%w: %s answer for %s question", ErrInvalidAnswerFormat, v.Kind, strings.ToLower(string(qt)))
}

// parseRating reads a whole-number rating from its text form
func parseRating(s string) (AnswerValue, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return AnswerValue{}, fmt.Errorf("%w: rating must be a number", ErrInvalidAnswerFormat)
	}
	if n != math.Trunc(n) {
		return AnswerValue{}, fmt.Errorf("%w: rating must be a whole number", ErrInvalidAnswerFormat)
	}
	return RatingAnswer(int(n)), nil
}

// DecodeAnswer parses a raw JSON answer for a question of the given type
func DecodeAnswer(qt QuestionType, raw json.RawMessage) (AnswerValue, error) {
	var v AnswerValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return AnswerValue{}, err
	}
	return v.ConformTo(qt)
}

// MarshalJSON renders the bare answer value
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerKindText, AnswerKindChoice:
		return json.Marshal(v.Text)
	case AnswerKindChoices, AnswerKindRanking:
		if v.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Choices)
	case AnswerKindRating:
		if v.Rating == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(v.Rating)
	case AnswerKindMatrix:
		if v.Matrix == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Matrix)
	case AnswerKindFiles:
		if v.Files == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Files)
	}
	return []byte("null"), nil
}

// UnmarshalJSON infers the kind from the JSON shape. A bare number keeps
// its literal text until ConformTo or DecodeAnswer binds it to a question
// type, so 0 stays "0" for a text question and becomes a rating only for
// a rating question.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = AnswerValue{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err == nil {
			*v = ChoicesAnswer(items...)
			return nil
		}
		var files []FileDescriptor
		if err := json.Unmarshal(data, &files); err != nil {
			return fmt.Errorf("%w: unsupported list element", ErrInvalidAnswerFormat)
		}
		*v = FilesAnswer(files...)
		return nil
	case '{':
		var cells map[string]bool
		if err := json.Unmarshal(data, &cells); err != nil {
			return fmt.Errorf("%w: matrix cells must be booleans", ErrInvalidAnswerFormat)
		}
		*v = MatrixAnswer(cells)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: unsupported value", ErrInvalidAnswerFormat)
	}
	*v = TextAnswer(n.String())
	return nil
}

// Answers maps question ids to answers for one respondent
type Answers map[string]AnswerValue

// Clone returns a shallow copy of the answer set
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Answer is one stored answer of a completed response
// #CARDINALITY_ASSUMPTION: Response 1:N Answers - one answer per answered question
type Answer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResponseID  primitive.ObjectID `bson:"response_id" json:"response_id"`
	SurveyID    primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	QuestionID  primitive.ObjectID `bson:"question_id" json:"question_id"`
	AnswerValue AnswerValue        `bson:"answer_value" json:"answer_value"`
}

// CollectionName returns the MongoDB collection name for answers
func (Answer) CollectionName() string {
	return "response_answers"
}

// BeforeCreate assigns the id
func (a *Answer) BeforeCreate() {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
}
