package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exhibitsurvey/internal/model"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want model.Locale
		ok   bool
	}{
		{"en", model.LocaleEN, true},
		{"EN", model.LocaleEN, true},
		{"ch", model.LocaleZH, true},
		{"zh", model.LocaleZH, true},
		{"cn", model.LocaleZH, true},
		{"zh-Hans", model.LocaleZH, true},
		{"en-GB", model.LocaleEN, true},
		{"fr", "", false},
		{"", "", false},
		{"not a tag!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLocale(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNegotiate(t *testing.T) {
	assert.Equal(t, model.LocaleEN, Negotiate("en", "zh-CN", model.LocaleZH))
	assert.Equal(t, model.LocaleZH, Negotiate("", "zh-CN,zh;q=0.9,en;q=0.8", model.LocaleEN))
	assert.Equal(t, model.LocaleEN, Negotiate("", "en-US,en;q=0.9", model.LocaleZH))
	assert.Equal(t, model.LocaleZH, Negotiate("", "", model.LocaleZH))
	assert.Equal(t, model.LocaleEN, Negotiate("xx", "", ""))
}

func TestCatalogIsComplete(t *testing.T) {
	ids := []MessageID{
		MsgIncomplete, MsgSubmitted, MsgSubmitFailed, MsgSubmitting, MsgThanks,
		MsgYes, MsgNo, MsgNext, MsgBack, MsgSubmit, MsgToggle, MsgInProgress, MsgDone, MsgInvalid,
	}
	for _, id := range ids {
		l := Text(id)
		assert.NotEmpty(t, l.EN, id)
		assert.NotEmpty(t, l.ZH, id)
	}
}

func TestToastAndButton(t *testing.T) {
	assert.Equal(t, "提交成功 / Submitted successfully!", Toast(MsgSubmitted))
	assert.Equal(t, "Submit / 提交", Button(MsgSubmit))
	assert.Equal(t, "是", In(MsgYes, model.LocaleZH))
}
