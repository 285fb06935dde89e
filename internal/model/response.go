package model

import "time"

// Answer references exactly one question and carries two alternate
// payloads: Value holds the structured submission (a scalar, a list of
// scalars, or nil) and Text holds the free-text fallback. Which one is
// authoritative depends on the question type; the analytics normalizer
// checks Value first, then Text, and treats both absent as unanswered.
type Answer struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	Text       string      `json:"text,omitempty" bson:"text,omitempty"`
	Value      interface{} `json:"value,omitempty" bson:"value,omitempty"`
}

// Response belongs to exactly one form. UserID is empty for anonymous
// submissions. SubmittedAt may be the zero time for dirty historical rows;
// such responses still count toward totals but are excluded from every
// time bucket.
type Response struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	FormID      string    `json:"formId" bson:"formId"`
	UserID      string    `json:"userId,omitempty" bson:"userId,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
	Answers     []Answer  `json:"answers" bson:"answers"`
}

// AnswersByQuestion indexes the response's answers by question id.
func (r *Response) AnswersByQuestion() map[string]Answer {
	out := make(map[string]Answer, len(r.Answers))
	for _, a := range r.Answers {
		out[a.QuestionID] = a
	}
	return out
}
