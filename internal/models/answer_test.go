package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestAnswerValue_IsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected bool
	}{
		{"Absent", AnswerValue{}, true},
		{"Empty text", TextAnswer(""), true},
		{"Whitespace text", TextAnswer("  "), false},
		{"Text", TextAnswer("hello"), false},
		{"Empty checkbox", ChoicesAnswer(), true},
		{"Checkbox", ChoicesAnswer("A"), false},
		{"Unset rating", RatingAnswer(0), true},
		{"Rating", RatingAnswer(3), false},
		{"Matrix without selection", MatrixAnswer(map[string]bool{"0-0": false}), true},
		{"Matrix", MatrixAnswer(map[string]bool{"0-1": true}), false},
		{"No files", FilesAnswer(), true},
		{"Files", FilesAnswer(FileDescriptor{Name: "a.pdf"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsEmpty(); got != tt.expected {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAnswerValue_IsBlank(t *testing.T) {
	if !TextAnswer(" \t ").IsBlank() {
		t.Error("IsBlank() = false for whitespace-only text, want true")
	}
	if ChoiceAnswer("Yes").IsBlank() {
		t.Error("IsBlank() = true for a selected choice, want false")
	}
}

func TestAnswerValue_String(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected string
	}{
		{"Text", TextAnswer("Hello"), "Hello"},
		{"Checkbox joined with space", ChoicesAnswer("Blue", "Red"), "Blue Red"},
		{"Rating", RatingAnswer(4), "4"},
		{"Matrix cells sorted", MatrixAnswer(map[string]bool{"1-0": true, "0-2": true, "0-1": false}), "0-2 1-0"},
		{"File names", FilesAnswer(FileDescriptor{Name: "a.png"}, FileDescriptor{Name: "b.pdf"}), "a.png b.pdf"},
		{"Absent", AnswerValue{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAnswerValue_Float(t *testing.T) {
	tests := []struct {
		name   string
		value  AnswerValue
		want   float64
		wantOK bool
	}{
		{"Numeric text", TextAnswer(" 42.5 "), 42.5, true},
		{"Rating", RatingAnswer(3), 3, true},
		{"Non-numeric", TextAnswer("abc"), 0, false},
		{"Empty", TextAnswer(""), 0, false},
		{"NaN literal", TextAnswer("NaN"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Float() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeAnswer(t *testing.T) {
	tests := []struct {
		name    string
		qType   QuestionType
		raw     string
		want    AnswerValue
		wantErr bool
	}{
		{"Text", QuestionTypeText, `"hello"`, TextAnswer("hello"), false},
		{"Multiple choice", QuestionTypeMultipleChoice, `"Yes"`, ChoiceAnswer("Yes"), false},
		{"Checkbox", QuestionTypeCheckbox, `["A","B"]`, ChoicesAnswer("A", "B"), false},
		{"Ranking", QuestionTypeRanking, `["B","A"]`, RankingAnswer("B", "A"), false},
		{"Rating", QuestionTypeRating, `4`, RatingAnswer(4), false},
		{"Matrix", QuestionTypeMatrix, `{"0-1":true}`, MatrixAnswer(map[string]bool{"0-1": true}), false},
		{"Files", QuestionTypeFile, `[{"name":"a.pdf","size":10,"type":"application/pdf"}]`,
			FilesAnswer(FileDescriptor{Name: "a.pdf", Size: 10, Type: "application/pdf"}), false},
		{"Null becomes empty", QuestionTypeCheckbox, `null`, AnswerValue{Kind: AnswerKindChoices}, false},
		{"Empty string for rating", QuestionTypeRating, `""`, AnswerValue{Kind: AnswerKindRating}, false},
		{"Number for text", QuestionTypeText, `7`, TextAnswer("7"), false},
		{"Zero for text keeps its text", QuestionTypeText, `0`, TextAnswer("0"), false},
		{"Decimal for text keeps its text", QuestionTypeText, `2.50`, TextAnswer("2.50"), false},
		{"Zero for multiple choice", QuestionTypeMultipleChoice, `0`, ChoiceAnswer("0"), false},
		{"Zero rating is unset", QuestionTypeRating, `0`, AnswerValue{Kind: AnswerKindRating}, false},
		{"Whole decimal rating", QuestionTypeRating, `4.0`, RatingAnswer(4), false},
		{"Numeric string for rating", QuestionTypeRating, `"3"`, RatingAnswer(3), false},
		{"Word for rating", QuestionTypeRating, `"great"`, AnswerValue{}, true},
		{"List for text", QuestionTypeText, `["A"]`, AnswerValue{}, true},
		{"Fractional rating", QuestionTypeRating, `3.5`, AnswerValue{}, true},
		{"Boolean", QuestionTypeText, `true`, AnswerValue{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAnswer(tt.qType, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeAnswer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAnswerFormat) {
					t.Errorf("DecodeAnswer() error = %v, want ErrInvalidAnswerFormat", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeAnswer() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestAnswerValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected string
	}{
		{"Text", TextAnswer("hi"), `"hi"`},
		{"Checkbox", ChoicesAnswer("A", "B"), `["A","B"]`},
		{"Empty checkbox", AnswerValue{Kind: AnswerKindChoices}, `[]`},
		{"Rating", RatingAnswer(5), `5`},
		{"Matrix", MatrixAnswer(map[string]bool{"0-0": true}), `{"0-0":true}`},
		{"Absent", AnswerValue{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAnswers_Clone(t *testing.T) {
	original := Answers{"q1": TextAnswer("a")}
	clone := original.Clone()
	clone["q2"] = TextAnswer("b")

	if _, ok := original["q2"]; ok {
		t.Error("Clone() shares storage with the original")
	}
}
