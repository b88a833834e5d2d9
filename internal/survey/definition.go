package survey

import (
	"fmt"
	"strings"

	"exhibitsurvey/internal/model"
)

// maxScalePoints bounds a rating scale; each point renders as its own control
const maxScalePoints = 21

// Normalize fills defaults left implicit by a definition file: single-locale
// display, English default locale, and option IDs taken from the English
// label.
func Normalize(def *model.Survey) {
	def.Type = strings.TrimSpace(def.Type)
	if def.DisplayMode == "" {
		def.DisplayMode = model.DisplaySingle
	}
	if def.DefaultLocale == "" {
		def.DefaultLocale = model.LocaleEN
	}
	if def.RequiredMarker == "" {
		def.RequiredMarker = "none"
	}
	for i := range def.Questions {
		q := &def.Questions[i]
		q.Key = strings.TrimSpace(q.Key)
		for j := range q.Options {
			if strings.TrimSpace(q.Options[j].ID) == "" {
				q.Options[j].ID = q.Options[j].Label.EN
			}
		}
	}
}

// ValidateDefinition checks a survey definition and reports every problem at
// once. An inverted rating scale is rejected here rather than at answer time.
func ValidateDefinition(def *model.Survey) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if def.Type == "" {
		add("type", "is required")
	}
	switch def.DisplayMode {
	case model.DisplaySingle, model.DisplayDual:
	default:
		add("displayMode", fmt.Sprintf("unsupported mode %q", def.DisplayMode))
	}
	switch def.RequiredMarker {
	case "none", "asterisk":
	default:
		add("requiredMarker", fmt.Sprintf("unsupported marker %q", def.RequiredMarker))
	}
	if !def.DefaultLocale.Valid() {
		add("defaultLocale", fmt.Sprintf("unsupported locale %q", def.DefaultLocale))
	}
	if len(def.Questions) == 0 {
		add("questions", "at least one question is required")
	}

	keys := map[string]struct{}{}
	for i := range def.Questions {
		q := &def.Questions[i]
		prefix := fmt.Sprintf("questions[%d]", i)
		if q.Key == "" {
			add(prefix+".key", "is required")
		} else if _, dup := keys[q.Key]; dup {
			add(prefix+".key", fmt.Sprintf("duplicate key %q", q.Key))
		} else {
			keys[q.Key] = struct{}{}
		}
		if !q.Kind.Valid() {
			add(prefix+".kind", fmt.Sprintf("unsupported kind %q", q.Kind))
			continue
		}
		if q.Kind == model.KindInfo {
			if q.Message.IsZero() {
				add(prefix+".message", "is required for info questions")
			}
			if q.Required != nil && *q.Required {
				add(prefix+".required", "info questions cannot be required")
			}
			continue
		}
		if q.Prompt.EN == "" || q.Prompt.ZH == "" {
			add(prefix+".prompt", "both locales are required")
		}
		validateKindFields(q, prefix, add)
	}

	if len(issues) > 0 {
		return &ValidationError{Survey: def.Type, Issues: issues}
	}
	return nil
}

func validateKindFields(q *model.Question, prefix string, add func(string, string)) {
	switch q.Kind {
	case model.KindText:
	case model.KindBoolean:
	case model.KindMultiSelect:
		if len(q.Options) == 0 {
			add(prefix+".options", "at least one option is required")
		}
		seen := map[string]struct{}{}
		for j, o := range q.Options {
			if o.ID == "" {
				add(fmt.Sprintf("%s.options[%d].id", prefix, j), "is required")
				continue
			}
			if _, dup := seen[o.ID]; dup {
				add(fmt.Sprintf("%s.options[%d].id", prefix, j), fmt.Sprintf("duplicate option %q", o.ID))
			}
			seen[o.ID] = struct{}{}
		}
	case model.KindRating:
		if q.Scale == nil {
			add(prefix+".scale", "is required for rating questions")
		} else if q.Scale.Min > q.Scale.Max {
			add(prefix+".scale", fmt.Sprintf("min %d is greater than max %d", q.Scale.Min, q.Scale.Max))
		} else if int64(q.Scale.Max)-int64(q.Scale.Min)+1 > maxScalePoints {
			add(prefix+".scale", fmt.Sprintf("%d..%d has more than %d points", q.Scale.Min, q.Scale.Max, maxScalePoints))
		}
	case model.KindSingleChoice:
		if len(q.Choices) == 0 {
			add(prefix+".choices", "at least one choice is required")
		}
		seen := map[string]struct{}{}
		for j, c := range q.Choices {
			if strings.TrimSpace(c.Value) == "" {
				add(fmt.Sprintf("%s.choices[%d].value", prefix, j), "is required")
				continue
			}
			if _, dup := seen[c.Value]; dup {
				add(fmt.Sprintf("%s.choices[%d].value", prefix, j), fmt.Sprintf("duplicate choice %q", c.Value))
			}
			seen[c.Value] = struct{}{}
		}
	case model.KindInfo:
	}
}
