package model

// SubmitStatus is the submission state of a survey session
type SubmitStatus string

const (
	StatusIdle       SubmitStatus = "idle"
	StatusSubmitting SubmitStatus = "submitting"
	StatusSubmitted  SubmitStatus = "submitted" // Terminal for the session
)

// SessionState is the client-facing summary of a survey session
type SessionState struct {
	SessionID  string       `json:"sessionId"`
	SurveyType string       `json:"surveyType"`
	Step       int          `json:"step"`
	Steps      int          `json:"steps"`
	Status     SubmitStatus `json:"status"`
	Complete   bool         `json:"complete"`
	Missing    []string     `json:"missing,omitempty"` // Required keys still unanswered
	Responses  Responses    `json:"responses"`
}
