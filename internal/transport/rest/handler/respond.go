package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/render"
	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/survey"
)

// ErrorResponse is the body of every failed request. Message is the
// bilingual text the client shows as-is.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps engine and service errors to a status code and a
// localized message. Transport failures and rejected writes share one
// generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var incomplete *survey.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   survey.ErrIncomplete.Error(),
			Message: i18n.Toast(i18n.MsgIncomplete),
			Missing: incomplete.Missing,
		})
	case errors.Is(err, service.ErrSurveyNotFound),
		errors.Is(err, survey.ErrUnknownQuestion),
		errors.Is(err, survey.ErrStepOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, survey.ErrWrongVariant),
		errors.Is(err, survey.ErrOutOfRange),
		errors.Is(err, survey.ErrNotAnswerable),
		errors.Is(err, render.ErrWrongAction),
		errors.Is(err, render.ErrBadSelection),
		errors.Is(err, render.ErrNoInteraction),
		errors.Is(err, model.ErrInvalidValue):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Message: i18n.Toast(i18n.MsgInvalid)})
	case errors.Is(err, survey.ErrSubmitInProgress):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Message: i18n.Toast(i18n.MsgInProgress)})
	case errors.Is(err, survey.ErrAlreadySubmitted):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Message: i18n.Toast(i18n.MsgDone)})
	case errors.Is(err, survey.ErrSubmitFailed):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: survey.ErrSubmitFailed.Error(), Message: i18n.Toast(i18n.MsgSubmitFailed)})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", Message: i18n.Toast(i18n.MsgSubmitFailed)})
	}
}

// requestLocale resolves the display locale from ?lang= then Accept-Language
func requestLocale(r *http.Request, fallback model.Locale) model.Locale {
	return i18n.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), fallback)
}
