package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exhibitsurvey/internal/model"
)

func TestToggle(t *testing.T) {
	in := []string{"A", "C"}

	added := Toggle(in, "B")
	assert.Equal(t, []string{"A", "C", "B"}, added)
	assert.Equal(t, []string{"A", "C"}, in)

	assert.ElementsMatch(t, in, Toggle(added, "B"))
	assert.Equal(t, []string{"C"}, Toggle(in, "A"))
	assert.Equal(t, []string{"A"}, Toggle(nil, "A"))
}

func TestApplyPerKind(t *testing.T) {
	rating := &model.Question{Key: "score", Kind: model.KindRating, Scale: &model.Scale{Min: 1, Max: 5}}
	boolean := &model.Question{Key: "again", Kind: model.KindBoolean}
	choice := &model.Question{Key: "gender", Kind: model.KindSingleChoice}
	text := &model.Question{Key: "note", Kind: model.KindText}

	v, err := Apply(text, model.Value{}, Interaction{Action: ActionInput, Value: "hello"})
	require.NoError(t, err)
	assert.True(t, model.StringValue("hello").Equal(v))

	v, err = Apply(moodQuestion, model.ListValue([]string{"Joy"}), Interaction{Action: ActionToggle, Value: "Awe"})
	require.NoError(t, err)
	assert.True(t, model.ListValue([]string{"Joy", "Awe"}).Equal(v))

	v, err = Apply(moodQuestion, v, Interaction{Action: ActionToggle, Value: "Joy"})
	require.NoError(t, err)
	assert.True(t, model.ListValue([]string{"Awe"}).Equal(v))

	v, err = Apply(rating, model.NumberValue(3), Interaction{Action: ActionSelect, Value: "5"})
	require.NoError(t, err)
	assert.True(t, model.NumberValue(5).Equal(v))

	v, err = Apply(boolean, model.Value{}, Interaction{Action: ActionSelect, Value: "false"})
	require.NoError(t, err)
	assert.True(t, model.BoolValue(false).Equal(v))

	v, err = Apply(choice, model.Value{}, Interaction{Action: ActionSelect, Value: "male"})
	require.NoError(t, err)
	assert.True(t, model.StringValue("male").Equal(v))
}

func TestApplyErrors(t *testing.T) {
	rating := &model.Question{Key: "score", Kind: model.KindRating}
	info := &model.Question{Key: "intro", Kind: model.KindInfo}

	_, err := Apply(rating, model.Value{}, Interaction{Action: ActionSelect, Value: "three"})
	assert.ErrorIs(t, err, ErrBadSelection)

	_, err = Apply(rating, model.Value{}, Interaction{Action: ActionInput, Value: "3"})
	assert.ErrorIs(t, err, ErrWrongAction)

	_, err = Apply(moodQuestion, model.Value{}, Interaction{Action: ActionSelect, Value: "Joy"})
	assert.ErrorIs(t, err, ErrWrongAction)

	_, err = Apply(info, model.Value{}, Interaction{Action: ActionInput})
	assert.ErrorIs(t, err, ErrNoInteraction)
}
