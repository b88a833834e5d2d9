package model

// Locale is one of the two supported display languages
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "ch"
)

// Valid reports whether l is a supported locale
func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleZH
}

// Other returns the opposite locale, used by dual-locale display and the toggle
func (l Locale) Other() Locale {
	if l == LocaleZH {
		return LocaleEN
	}
	return LocaleZH
}

// Localized is a label pair in both supported locales
type Localized struct {
	EN string `json:"en" yaml:"en"`
	ZH string `json:"ch" yaml:"ch"`
}

// In returns the label for l, falling back to English when the other
// translation is blank.
func (l Localized) In(loc Locale) string {
	if loc == LocaleZH && l.ZH != "" {
		return l.ZH
	}
	return l.EN
}

// IsZero reports whether both labels are blank
func (l Localized) IsZero() bool {
	return l.EN == "" && l.ZH == ""
}
