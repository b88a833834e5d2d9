package survey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"exhibitsurvey/internal/model"
)

func TestCheckValue(t *testing.T) {
	def := everyKind()
	q := func(key string) *model.Question {
		got, ok := def.Question(key)
		if !ok {
			t.Fatalf("no question %q", key)
		}
		return got
	}

	tests := []struct {
		name string
		key  string
		v    model.Value
		want error
	}{
		{"text", "note", model.StringValue("hi"), nil},
		{"blank text is a valid value", "note", model.StringValue("  "), nil},
		{"text wants string", "note", model.NumberValue(1), ErrWrongVariant},
		{"options by id", "mood", model.ListValue([]string{"Joy", "Awe"}), nil},
		{"unknown option", "mood", model.ListValue([]string{"Rage"}), ErrOutOfRange},
		{"duplicate option", "mood", model.ListValue([]string{"Joy", "Joy"}), ErrOutOfRange},
		{"mood wants list", "mood", model.StringValue("Joy"), ErrWrongVariant},
		{"rating in range", "score", model.NumberValue(5), nil},
		{"rating below min", "score", model.NumberValue(0), ErrOutOfRange},
		{"rating above max", "score", model.NumberValue(6), ErrOutOfRange},
		{"rating must be integral", "score", model.NumberValue(2.5), ErrOutOfRange},
		{"boolean", "again", model.BoolValue(false), nil},
		{"boolean wants bool", "again", model.StringValue("true"), ErrWrongVariant},
		{"choice", "gender", model.StringValue("female"), nil},
		{"unknown choice", "gender", model.StringValue("other"), ErrOutOfRange},
		{"info takes nothing", "intro", model.StringValue("x"), ErrNotAnswerable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(q(tt.key), tt.v)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIsEmptyPerKind(t *testing.T) {
	def := everyKind()
	empty := func(key string, v model.Value) bool {
		q, _ := def.Question(key)
		return IsEmpty(q, v)
	}

	assert.True(t, empty("note", model.Value{}))
	assert.True(t, empty("note", model.StringValue(" \t")))
	assert.False(t, empty("note", model.StringValue("x")))

	assert.True(t, empty("mood", model.ListValue(nil)))
	assert.False(t, empty("mood", model.ListValue([]string{"Joy"})))

	assert.True(t, empty("score", model.Value{}))
	assert.False(t, empty("score", model.NumberValue(1)))

	// false is an answer
	assert.True(t, empty("again", model.Value{}))
	assert.False(t, empty("again", model.BoolValue(false)))

	assert.True(t, empty("gender", model.StringValue("")))
	assert.False(t, empty("gender", model.StringValue("male")))

	assert.False(t, empty("intro", model.Value{}))

	// A value of the wrong variant never counts as an answer
	assert.True(t, empty("score", model.StringValue("3")))
}

func TestMissingSkipsInfoAndOptional(t *testing.T) {
	def := everyKind()
	def.Questions[1].Required = model.Bool(false) // note

	got := Missing(def, model.Responses{"score": model.NumberValue(2)})
	assert.Equal(t, []string{"mood", "again", "gender"}, got)
}

func TestSerializeFollowsDefinitionOrder(t *testing.T) {
	def := everyKind()
	responses := model.Responses{
		"gender": model.StringValue("male"),
		"mood":   model.ListValue([]string{"Awe", "Joy"}),
		"again":  model.BoolValue(true),
		"score":  model.NumberValue(4),
	}

	want := []model.Pair{
		{Key: "note", Value: ""},
		{Key: "mood", Value: "Awe, Joy"},
		{Key: "score", Value: "4"},
		{Key: "again", Value: "true"},
		{Key: "gender", Value: "male"},
	}
	first := Serialize(def, responses)
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, Serialize(def, responses.Clone())); diff != "" {
		t.Errorf("Serialize() not deterministic (-first +second):\n%s", diff)
	}
}
