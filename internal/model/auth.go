package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims for a survey-session token. They identify the
// session; they do not authenticate the respondent.
type SessionClaims struct {
	SurveyType string `json:"surveyType"`
	SessionID  string `json:"sessionId"`
	jwt.RegisteredClaims
}

// StartSessionResponse is returned when a session is started or resumed
type StartSessionResponse struct {
	Token   string        `json:"token"`
	Resumed bool          `json:"resumed"`
	State   *SessionState `json:"state"`
}
