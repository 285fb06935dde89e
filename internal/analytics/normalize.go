package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"formpulse/internal/model"
)

// ValueKind tags a normalized answer payload.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueOption
	ValueOptionList
	ValueRating
	ValueText
)

// NormalizedValue is the canonical form of a raw answer payload, decided
// once at normalization time. Exactly one payload field is meaningful for
// the given Kind.
type NormalizedValue struct {
	Kind    ValueKind
	Option  string
	Options []string
	Rating  int
	Text    string
}

// Normalize extracts the canonical representation of one raw answer for a
// question of the given type. Malformed or missing data never fails: it
// degrades to ValueEmpty (excluded from every aggregate) or, for rating
// text that does not parse, to a non-empty ValueText that counts toward
// the question's response total but not its rating statistics. Historical
// answer rows are dirty; leniency here is load-bearing.
func Normalize(a model.Answer, qt model.QuestionType) NormalizedValue {
	// Structured value wins over free text.
	if list, ok := asList(a.Value); ok {
		opts := make([]string, 0, len(list))
		for _, v := range list {
			opts = append(opts, stringify(v))
		}
		return NormalizedValue{Kind: ValueOptionList, Options: opts}
	}
	if a.Value != nil {
		return NormalizedValue{Kind: ValueOption, Option: stringify(a.Value)}
	}

	if a.Text != "" {
		if qt == model.QuestionTypeRating {
			n, err := strconv.Atoi(strings.TrimSpace(a.Text))
			if err != nil {
				// Unparsable rating text: answered, but silently
				// excluded from rating tallies.
				return NormalizedValue{Kind: ValueText, Text: a.Text}
			}
			return NormalizedValue{Kind: ValueRating, Rating: n}
		}
		if qt.HasOptions() {
			return NormalizedValue{Kind: ValueOption, Option: a.Text}
		}
		return NormalizedValue{Kind: ValueText, Text: a.Text}
	}

	return NormalizedValue{Kind: ValueEmpty}
}

// asList unwraps the structured payload when it holds a list of scalars.
// Mongo decodes arrays as primitive.A; JSON request bodies as []interface{}.
func asList(v interface{}) ([]interface{}, bool) {
	switch l := v.(type) {
	case []interface{}:
		return l, true
	case primitive.A:
		return l, true
	case []string:
		out := make([]interface{}, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// stringify coerces a structured scalar to the option label used for
// tallying. Numbers render without a decimal point when integral so that
// 5 and 5.0 land in the same bucket.
func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
