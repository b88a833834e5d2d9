package render

import (
	"errors"
	"fmt"
	"strconv"

	"exhibitsurvey/internal/model"
)

// Action is what the user did on a view
type Action string

const (
	ActionInput  Action = "input"  // Edited text, sent on every keystroke
	ActionToggle Action = "toggle" // Flipped one checkbox
	ActionSelect Action = "select" // Picked one point or radio item
)

var (
	ErrNoInteraction = errors.New("question is display only")
	ErrWrongAction   = errors.New("action does not apply to this question")
	ErrBadSelection  = errors.New("selection is not valid")
)

// Interaction is one user event on a view. Value is the edited text, the
// toggled option ID, or the selected choice ID.
type Interaction struct {
	Action Action `json:"action"`
	Value  string `json:"value"`
}

// Apply turns an interaction on q's view into the question's next value. It
// emits exactly one value per interaction; domain checks (option exists,
// rating in range) are left to the engine.
func Apply(q *model.Question, current model.Value, in Interaction) (model.Value, error) {
	switch q.Kind {
	case model.KindText:
		if in.Action != ActionInput {
			return model.Value{}, wrongAction(q, in)
		}
		return model.StringValue(in.Value), nil
	case model.KindMultiSelect:
		if in.Action != ActionToggle {
			return model.Value{}, wrongAction(q, in)
		}
		selected, _ := current.AsList()
		return model.ListValue(Toggle(selected, in.Value)), nil
	case model.KindRating:
		if in.Action != ActionSelect {
			return model.Value{}, wrongAction(q, in)
		}
		n, err := strconv.Atoi(in.Value)
		if err != nil {
			return model.Value{}, fmt.Errorf("%w: %q", ErrBadSelection, in.Value)
		}
		return model.NumberValue(float64(n)), nil
	case model.KindBoolean:
		if in.Action != ActionSelect {
			return model.Value{}, wrongAction(q, in)
		}
		b, err := strconv.ParseBool(in.Value)
		if err != nil {
			return model.Value{}, fmt.Errorf("%w: %q", ErrBadSelection, in.Value)
		}
		return model.BoolValue(b), nil
	case model.KindSingleChoice:
		if in.Action != ActionSelect {
			return model.Value{}, wrongAction(q, in)
		}
		return model.StringValue(in.Value), nil
	case model.KindInfo:
		return model.Value{}, ErrNoInteraction
	}
	return model.Value{}, wrongAction(q, in)
}

// Toggle removes id from selected when present, otherwise appends it. The
// input slice is not modified.
func Toggle(selected []string, id string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

func wrongAction(q *model.Question, in Interaction) error {
	return fmt.Errorf("%w: %s on %s question %s", ErrWrongAction, in.Action, q.Kind, q.Key)
}
