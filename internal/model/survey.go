package model

import "time"

// DisplayMode selects how bilingual labels are shown, per survey
type DisplayMode string

const (
	DisplaySingle DisplayMode = "single" // One locale, switched with the locale toggle
	DisplayDual   DisplayMode = "dual"   // Both locales at once
)

// Survey is a static survey definition, loaded once and never mutated
type Survey struct {
	Type          string      `json:"type" yaml:"type"` // Discriminator, also names the target store
	Title         Localized   `json:"title" yaml:"title"`
	DisplayMode   DisplayMode `json:"displayMode" yaml:"displayMode"`
	DefaultLocale Locale      `json:"defaultLocale" yaml:"defaultLocale"`

	// RequiredMarker is how required questions are flagged: "none" or "asterisk"
	RequiredMarker string     `json:"requiredMarker" yaml:"requiredMarker"`
	Questions      []Question `json:"questions" yaml:"questions"`
}

// Question looks up a question by key
func (s *Survey) Question(key string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].Key == key {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// SurveySummary is the listing entry for a survey
type SurveySummary struct {
	Type      string    `json:"type"`
	Title     Localized `json:"title"`
	Questions int       `json:"questions"`
}

// Pair is one (key, flattened value) cell of a submission row
type Pair struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}

// Row is what the submission collaborator appends: one completed survey
type Row struct {
	SurveyType  string    `json:"surveyType"`
	SubmittedAt time.Time `json:"submittedAt"`
	Pairs       []Pair    `json:"pairs"`
}

// Values returns the row's cell values in order, without keys
func (r Row) Values() []string {
	out := make([]string, len(r.Pairs))
	for i, p := range r.Pairs {
		out[i] = p.Value
	}
	return out
}
