// Package render maps a question and its current answer to a view the web
// client draws, and maps interactions on that view back to a new answer.
// Both directions are pure functions; the survey engine owns all state.
package render

import (
	"fmt"

	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
)

// Control names the input widget a view needs
type Control string

const (
	ControlTextarea   Control = "textarea"
	ControlCheckboxes Control = "checkboxes"
	ControlScale      Control = "scale"
	ControlRadio      Control = "radio"
	ControlNone       Control = "none"
)

// RequiredMarker decides how required questions are flagged
type RequiredMarker string

const (
	MarkerNone     RequiredMarker = "none"
	MarkerAsterisk RequiredMarker = "asterisk"
)

// Options is everything besides the question and value that a view depends on
type Options struct {
	Locale model.Locale
	Mode   model.DisplayMode
	Marker RequiredMarker
	Number int // 1-based question number, 0 hides the "Q{n}." heading
}

// Text is a label in the display locale. Secondary carries the other locale
// in dual-locale mode.
type Text struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// Choice is one selectable item of a checkbox, scale or radio control
type Choice struct {
	ID       string `json:"id"`
	Label    Text   `json:"label"`
	Selected bool   `json:"selected"`
}

// View is the displayable representation of one question
type View struct {
	Key         string             `json:"key"`
	Kind        model.QuestionKind `json:"kind"`
	Control     Control            `json:"control"`
	Heading     string             `json:"heading,omitempty"`
	Prompt      Text               `json:"prompt"`
	Body        *Text              `json:"body,omitempty"`
	Placeholder *Text              `json:"placeholder,omitempty"`
	Value       string             `json:"value,omitempty"`
	Choices     []Choice           `json:"choices,omitempty"`
	MinLabel    *Text              `json:"minLabel,omitempty"`
	MaxLabel    *Text              `json:"maxLabel,omitempty"`
	Required    bool               `json:"required"`
	Marker      string             `json:"marker,omitempty"`
	Locale      model.Locale       `json:"locale"`
	Toggle      string             `json:"toggle,omitempty"` // Locale toggle label, single-locale mode only
}

// Render builds the view of q showing v
func Render(q *model.Question, v model.Value, opts Options) View {
	loc := opts.Locale
	if !loc.Valid() {
		loc = model.LocaleEN
	}
	text := func(l model.Localized) Text {
		t := Text{Primary: l.In(loc)}
		if opts.Mode == model.DisplayDual {
			t.Secondary = l.In(loc.Other())
		}
		return t
	}

	view := View{
		Key:      q.Key,
		Kind:     q.Kind,
		Required: q.IsRequired(),
		Locale:   loc,
	}
	if opts.Number > 0 {
		view.Heading = fmt.Sprintf("Q%d.", opts.Number)
	}
	if view.Required && opts.Marker == MarkerAsterisk {
		view.Marker = "*"
	}
	if opts.Mode != model.DisplayDual {
		view.Toggle = i18n.In(i18n.MsgToggle, loc)
	}

	switch q.Kind {
	case model.KindText:
		view.Control = ControlTextarea
		view.Prompt = text(q.Prompt)
		ph := text(q.Placeholder)
		view.Placeholder = &ph
		view.Value, _ = v.AsString()
	case model.KindMultiSelect:
		view.Control = ControlCheckboxes
		view.Prompt = text(q.Prompt)
		selected, _ := v.AsList()
		for _, o := range q.Options {
			view.Choices = append(view.Choices, Choice{
				ID:       o.ID,
				Label:    text(o.Label),
				Selected: contains(selected, o.ID),
			})
		}
	case model.KindRating:
		view.Control = ControlScale
		view.Prompt = text(q.Prompt)
		current, answered := v.AsNumber()
		if q.Scale != nil {
			minL, maxL := text(q.Scale.LabelMin), text(q.Scale.LabelMax)
			view.MinLabel, view.MaxLabel = &minL, &maxL
			for n := q.Scale.Min; n <= q.Scale.Max; n++ {
				id := fmt.Sprint(n)
				view.Choices = append(view.Choices, Choice{
					ID:       id,
					Label:    Text{Primary: id},
					Selected: answered && current == float64(n),
				})
			}
		}
		if answered {
			view.Value = v.Flatten()
		}
	case model.KindBoolean:
		view.Control = ControlRadio
		view.Prompt = text(q.Prompt)
		b, answered := v.AsBool()
		view.Choices = []Choice{
			{ID: "true", Label: text(i18n.Text(i18n.MsgYes)), Selected: answered && b},
			{ID: "false", Label: text(i18n.Text(i18n.MsgNo)), Selected: answered && !b},
		}
	case model.KindSingleChoice:
		view.Control = ControlRadio
		view.Prompt = text(q.Prompt)
		current, _ := v.AsString()
		for _, c := range q.Choices {
			view.Choices = append(view.Choices, Choice{
				ID:       c.Value,
				Label:    text(c.Label),
				Selected: c.Value == current,
			})
		}
	case model.KindInfo:
		view.Control = ControlNone
		view.Heading = ""
		body := text(q.Message)
		view.Body = &body
	}
	return view
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
