package survey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrNotAnswerable    = errors.New("question does not take an answer")
	ErrWrongVariant     = errors.New("value does not match question kind")
	ErrOutOfRange       = errors.New("value out of range")
	ErrIncomplete       = errors.New("required questions are unanswered")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted = errors.New("survey already submitted")
	ErrSubmitFailed     = errors.New("submission failed")
	ErrStepOutOfRange   = errors.New("step out of range")
)

// IncompleteError lists the required keys that block submission
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncomplete, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// Issue captures one problem with a survey definition
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates definition issues. It is a configuration error
// and should stop the process at load time.
type ValidationError struct {
	Survey string
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "survey definition invalid"
	}
	lines := make([]string, 0, len(err.Issues)+1)
	if err.Survey != "" {
		lines = append(lines, fmt.Sprintf("survey %q is invalid:", err.Survey))
	}
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}
