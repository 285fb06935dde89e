package analytics

import (
	"strconv"

	"formpulse/internal/model"
)

// AggregateQuestion computes the aggregate for one question over its full
// answer set. The result is always structurally complete: option maps and
// text collections are present (possibly empty) for their question types,
// never nil.
func AggregateQuestion(q model.Question, answers []model.Answer) model.QuestionAnalytics {
	qa := model.QuestionAnalytics{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		QuestionType: q.Type,
	}

	switch {
	case q.Type.HasOptions():
		qa.Answers = make(map[string]int)
		for _, a := range answers {
			nv := Normalize(a, q.Type)
			switch nv.Kind {
			case ValueEmpty:
				continue
			case ValueOptionList:
				// Each selected element increments its own counter.
				for _, opt := range nv.Options {
					qa.Answers[opt]++
				}
			case ValueOption:
				qa.Answers[nv.Option]++
			case ValueText:
				qa.Answers[nv.Text]++
			}
			qa.TotalResponses++
		}

	case q.Type == model.QuestionTypeRating:
		qa.Answers = make(map[string]int)
		sum, valid := 0, 0
		for _, a := range answers {
			nv := Normalize(a, q.Type)
			if nv.Kind == ValueEmpty {
				continue
			}
			qa.TotalResponses++
			if n, ok := ratingOf(nv); ok {
				qa.Answers[strconv.Itoa(n)]++
				sum += n
				valid++
			}
		}
		if valid > 0 {
			avg := float64(sum) / float64(valid)
			qa.AverageRating = &avg
		}

	case q.Type.IsFreeText():
		qa.Responses = []string{}
		for _, a := range answers {
			nv := Normalize(a, q.Type)
			switch nv.Kind {
			case ValueEmpty:
				continue
			case ValueText:
				qa.Responses = append(qa.Responses, nv.Text)
			case ValueOption:
				qa.Responses = append(qa.Responses, nv.Option)
			case ValueOptionList:
				qa.Responses = append(qa.Responses, nv.Options...)
			}
			qa.TotalResponses++
		}

	default:
		// file_upload, date: only a count is meaningful.
		for _, a := range answers {
			if Normalize(a, q.Type).Kind != ValueEmpty {
				qa.TotalResponses++
			}
		}
		qa.Answers = map[string]int{"total_responses": qa.TotalResponses}
	}

	return qa
}

// ratingOf extracts an integer rating from a normalized value. Structured
// scalars arrive as options and are parsed here; text that already failed
// the rating parse never tallies.
func ratingOf(nv NormalizedValue) (int, bool) {
	switch nv.Kind {
	case ValueRating:
		return nv.Rating, true
	case ValueOption:
		n, err := strconv.Atoi(nv.Option)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
