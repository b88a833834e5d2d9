// Package i18n holds the fixed bilingual UI strings and resolves the display
// locale of a request.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"exhibitsurvey/internal/model"
)

// MessageID names a UI string
type MessageID string

const (
	MsgIncomplete   MessageID = "incomplete"
	MsgSubmitted    MessageID = "submitted"
	MsgSubmitFailed MessageID = "submitFailed"
	MsgSubmitting   MessageID = "submitting"
	MsgThanks       MessageID = "thanks"
	MsgYes          MessageID = "yes"
	MsgNo           MessageID = "no"
	MsgNext         MessageID = "next"
	MsgBack         MessageID = "back"
	MsgSubmit       MessageID = "submit"
	MsgToggle       MessageID = "toggle" // Label of the locale toggle: names the locale it switches to
	MsgInProgress   MessageID = "inProgress"
	MsgDone         MessageID = "done"
	MsgInvalid      MessageID = "invalid"
)

var catalog = map[MessageID]model.Localized{
	MsgIncomplete:   {EN: "Please complete all questions.", ZH: "请完整填写所有问题"},
	MsgSubmitted:    {EN: "Submitted successfully!", ZH: "提交成功"},
	MsgSubmitFailed: {EN: "Submission failed. Please try again later.", ZH: "提交失败，请稍后重试"},
	MsgSubmitting:   {EN: "Submitting...", ZH: "提交中..."},
	MsgThanks:       {EN: "Thank you for your feedback!", ZH: "感谢你的反馈！"},
	MsgYes:          {EN: "Yes", ZH: "是"},
	MsgNo:           {EN: "No", ZH: "否"},
	MsgNext:         {EN: "Next", ZH: "下"},
	MsgBack:         {EN: "Back", ZH: "上"},
	MsgSubmit:       {EN: "Submit", ZH: "提交"},
	MsgToggle:       {EN: "中文", ZH: "EN"},
	MsgInProgress:   {EN: "A submission is already in progress.", ZH: "正在提交，请稍候"},
	MsgDone:         {EN: "This survey has already been submitted.", ZH: "问卷已提交"},
	MsgInvalid:      {EN: "That answer is not valid for this question.", ZH: "答案无效"},
}

// Text returns both translations of a message
func Text(id MessageID) model.Localized {
	return catalog[id]
}

// In returns a message in one locale
func In(id MessageID, loc model.Locale) string {
	return catalog[id].In(loc)
}

// Toast renders a message with both locales, Chinese first
func Toast(id MessageID) string {
	l := catalog[id]
	return l.ZH + " / " + l.EN
}

// Button renders a message with both locales, English first
func Button(id MessageID) string {
	l := catalog[id]
	return l.EN + " / " + l.ZH
}

var (
	supported = []language.Tag{language.English, language.Chinese}
	matcher   = language.NewMatcher(supported)
)

// ParseLocale accepts the short codes the web client uses ("en", "ch") as
// well as BCP 47 tags such as "zh-Hans" or "en-GB".
func ParseLocale(s string) (model.Locale, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return "", false
	case string(model.LocaleEN):
		return model.LocaleEN, true
	case string(model.LocaleZH), "zh", "cn":
		return model.LocaleZH, true
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	return fromTag(tag)
}

// Negotiate picks a locale from an explicit choice, then the Accept-Language
// header, then the survey default.
func Negotiate(explicit, acceptLanguage string, fallback model.Locale) model.Locale {
	if loc, ok := ParseLocale(explicit); ok {
		return loc
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				if loc, ok := fromTag(supported[idx]); ok {
					return loc
				}
			}
		}
	}
	if fallback.Valid() {
		return fallback
	}
	return model.LocaleEN
}

func fromTag(tag language.Tag) (model.Locale, bool) {
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return model.LocaleEN, true
	case "zh":
		return model.LocaleZH, true
	}
	return "", false
}
