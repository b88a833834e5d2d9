package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exhibitsurvey/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue("feedback", "s1")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "feedback", claims.SurveyType)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestTokenRejections(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	other, err := NewTokenService("other", time.Hour).Issue("feedback", "s1")
	require.NoError(t, err)
	_, err = svc.Validate(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenService("secret", -time.Minute).Issue("feedback", "s1")
	require.NoError(t, err)
	_, err = svc.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &model.SessionClaims{SurveyType: "feedback", SessionID: "s1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	blank, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.SessionClaims{SurveyType: "feedback"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Validate(blank)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
