package model

import (
	"fmt"
	"time"
)

// QuestionType is the closed set of question kinds a form may contain.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeLongText       QuestionType = "long_text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeCheckbox       QuestionType = "checkbox"
	QuestionTypeDropdown       QuestionType = "dropdown"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeFileUpload     QuestionType = "file_upload"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeEmail          QuestionType = "email"
	QuestionTypeNumber         QuestionType = "number"
)

// ParseQuestionType validates a persisted/request question type string.
// Records enter the core through this boundary; everything past it can
// trust the enum.
func ParseQuestionType(s string) (QuestionType, error) {
	switch t := QuestionType(s); t {
	case QuestionTypeText, QuestionTypeLongText, QuestionTypeMultipleChoice,
		QuestionTypeCheckbox, QuestionTypeDropdown, QuestionTypeRating,
		QuestionTypeFileUpload, QuestionTypeDate, QuestionTypeEmail,
		QuestionTypeNumber:
		return t, nil
	default:
		return "", fmt.Errorf("unknown question type %q", s)
	}
}

// HasOptions reports whether the type tallies answers into an option map.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeDropdown:
		return true
	}
	return false
}

// IsFreeText reports whether the type collects raw text responses.
func (t QuestionType) IsFreeText() bool {
	switch t {
	case QuestionTypeText, QuestionTypeLongText, QuestionTypeEmail, QuestionTypeNumber:
		return true
	}
	return false
}

// Question belongs to exactly one section. Its type is immutable once
// answers exist against it.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Position int          `json:"position" bson:"position"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"`
}

// Section owns an ordered sequence of questions.
type Section struct {
	ID        string     `json:"id" bson:"id"`
	Title     string     `json:"title" bson:"title"`
	Position  int        `json:"position" bson:"position"`
	Questions []Question `json:"questions" bson:"questions"`
}

// Form owns an ordered sequence of sections and has exactly one owner.
type Form struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	OwnerID     string    `json:"ownerId" bson:"ownerId"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Published   bool      `json:"published" bson:"published"`
	Sections    []Section `json:"sections" bson:"sections"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FlatQuestions concatenates each section's questions in section order
// then question order.
func (f *Form) FlatQuestions() []Question {
	var out []Question
	for _, sec := range f.Sections {
		out = append(out, sec.Questions...)
	}
	return out
}

// RequiredQuestionCount counts questions with Required set across all
// sections.
func (f *Form) RequiredQuestionCount() int {
	n := 0
	for _, q := range f.FlatQuestions() {
		if q.Required {
			n++
		}
	}
	return n
}
