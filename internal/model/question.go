package model

// QuestionKind defines the type of question
type QuestionKind string

const (
	KindText         QuestionKind = "text"         // Free text, answered with a string
	KindMultiSelect  QuestionKind = "multiSelect"  // Toggleable options, answered with a list of option IDs
	KindRating       QuestionKind = "rating"       // Integer scale, answered with a number
	KindBoolean      QuestionKind = "boolean"      // Yes/No, answered with a bool
	KindSingleChoice QuestionKind = "singleChoice" // Exclusive choice, answered with the choice value
	KindInfo         QuestionKind = "info"         // Display only, never answered
)

// Kinds lists every question kind in definition order
var Kinds = []QuestionKind{KindText, KindMultiSelect, KindRating, KindBoolean, KindSingleChoice, KindInfo}

// Valid reports whether k is one of the known kinds
func (k QuestionKind) Valid() bool {
	switch k {
	case KindText, KindMultiSelect, KindRating, KindBoolean, KindSingleChoice, KindInfo:
		return true
	}
	return false
}

// Option is a multi-select option. ID is the stored identity; Label is display only.
type Option struct {
	ID    string    `json:"id" yaml:"id"`
	Label Localized `json:"label" yaml:"label"`
}

// Choice is a single-choice option
type Choice struct {
	Value string    `json:"value" yaml:"value"`
	Label Localized `json:"label" yaml:"label"`
}

// Scale bounds a rating question, inclusive on both ends
type Scale struct {
	Min      int       `json:"min" yaml:"min"`
	Max      int       `json:"max" yaml:"max"`
	LabelMin Localized `json:"labelMin" yaml:"labelMin"`
	LabelMax Localized `json:"labelMax" yaml:"labelMax"`
}

// Contains reports whether n lies within the scale
func (s Scale) Contains(n int) bool {
	return n >= s.Min && n <= s.Max
}

// Question is one step of a survey. Which of the kind-specific fields are
// meaningful is decided by Kind.
type Question struct {
	Key    string       `json:"key" yaml:"key"`
	Kind   QuestionKind `json:"kind" yaml:"kind"`
	Prompt Localized    `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	Message     Localized `json:"message,omitempty" yaml:"message,omitempty"`         // info only
	Placeholder Localized `json:"placeholder,omitempty" yaml:"placeholder,omitempty"` // text only
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`         // multiSelect only
	Choices     []Choice  `json:"choices,omitempty" yaml:"choices,omitempty"`         // singleChoice only
	Scale       *Scale    `json:"scale,omitempty" yaml:"scale,omitempty"`             // rating only

	// Required is nil when the definition leaves it implicit
	Required *bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// IsRequired resolves the required flag: info is never required, everything
// else is required unless explicitly turned off.
func (q *Question) IsRequired() bool {
	if q.Kind == KindInfo {
		return false
	}
	if q.Required == nil {
		return true
	}
	return *q.Required
}

// HasOption reports whether id is one of the multi-select options
func (q *Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// HasChoice reports whether value is one of the single-choice values
func (q *Question) HasChoice(value string) bool {
	for _, c := range q.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// ValueKindFor returns the response variant a question kind is answered with.
// ok is false for info questions.
func ValueKindFor(k QuestionKind) (vk ValueKind, ok bool) {
	switch k {
	case KindText, KindSingleChoice:
		return ValueString, true
	case KindMultiSelect:
		return ValueList, true
	case KindRating:
		return ValueNumber, true
	case KindBoolean:
		return ValueBool, true
	case KindInfo:
		return "", false
	}
	return "", false
}

// Bool returns a pointer to b, for literal Required flags
func Bool(b bool) *bool {
	return &b
}
