package survey

import (
	"fmt"
	"math"
	"strings"

	"exhibitsurvey/internal/model"
)

// CheckValue verifies that v is an acceptable answer to q: the right variant
// and within the question's domain.
func CheckValue(q *model.Question, v model.Value) error {
	want, ok := model.ValueKindFor(q.Kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAnswerable, q.Key)
	}
	if v.Kind() != want {
		return fmt.Errorf("%w: %s expects %s, got %q", ErrWrongVariant, q.Key, want, v.Kind())
	}

	switch q.Kind {
	case model.KindText, model.KindBoolean:
		return nil
	case model.KindMultiSelect:
		items, _ := v.AsList()
		seen := make(map[string]struct{}, len(items))
		for _, id := range items {
			if !q.HasOption(id) {
				return fmt.Errorf("%w: %s has no option %q", ErrOutOfRange, q.Key, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s selects %q twice", ErrOutOfRange, q.Key, id)
			}
			seen[id] = struct{}{}
		}
		return nil
	case model.KindRating:
		n, _ := v.AsNumber()
		if n != math.Trunc(n) || q.Scale == nil || !q.Scale.Contains(int(n)) {
			return fmt.Errorf("%w: %s rating %v", ErrOutOfRange, q.Key, n)
		}
		return nil
	case model.KindSingleChoice:
		s, _ := v.AsString()
		if !q.HasChoice(s) {
			return fmt.Errorf("%w: %s has no choice %q", ErrOutOfRange, q.Key, s)
		}
		return nil
	case model.KindInfo:
		return fmt.Errorf("%w: %s", ErrNotAnswerable, q.Key)
	}
	return fmt.Errorf("%w: %s", ErrWrongVariant, q.Key)
}

// IsEmpty reports whether v counts as unanswered for q. A value of the wrong
// variant is empty. Text is empty when blank after trimming, a multi-select
// when nothing is selected; the remaining kinds are empty only when absent.
// Info questions are never empty since they are never answered.
func IsEmpty(q *model.Question, v model.Value) bool {
	switch q.Kind {
	case model.KindText:
		s, ok := v.AsString()
		return !ok || strings.TrimSpace(s) == ""
	case model.KindMultiSelect:
		items, ok := v.AsList()
		return !ok || len(items) == 0
	case model.KindRating:
		_, ok := v.AsNumber()
		return !ok
	case model.KindBoolean:
		_, ok := v.AsBool()
		return !ok
	case model.KindSingleChoice:
		s, ok := v.AsString()
		return !ok || strings.TrimSpace(s) == ""
	case model.KindInfo:
		return false
	}
	return true
}

// Missing returns the keys of required questions whose answers are empty, in
// definition order.
func Missing(def *model.Survey, responses model.Responses) []string {
	var missing []string
	for i := range def.Questions {
		q := &def.Questions[i]
		if !q.IsRequired() {
			continue
		}
		if IsEmpty(q, responses[q.Key]) {
			missing = append(missing, q.Key)
		}
	}
	return missing
}

// Serialize flattens responses into the wire row cells, in definition order.
// Info questions are skipped; unanswered questions yield "".
func Serialize(def *model.Survey, responses model.Responses) []model.Pair {
	pairs := make([]model.Pair, 0, len(def.Questions))
	for i := range def.Questions {
		q := &def.Questions[i]
		if q.Kind == model.KindInfo {
			continue
		}
		pairs = append(pairs, model.Pair{Key: q.Key, Value: responses[q.Key].Flatten()})
	}
	return pairs
}
