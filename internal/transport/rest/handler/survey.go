package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/transport/rest/middleware"
)

// SurveyHandler handles survey definition endpoints and session start
type SurveyHandler struct {
	sessionSvc *service.SessionService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(sessionSvc *service.SessionService) *SurveyHandler {
	return &SurveyHandler{sessionSvc: sessionSvc}
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": h.sessionSvc.Surveys()})
}

// Get handles GET /v1/surveys/{surveyType}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	def, err := h.sessionSvc.Survey(mux.Vars(r)["surveyType"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// StartSession handles POST /v1/surveys/{surveyType}/sessions. A valid token
// for the same survey resumes that session instead.
func (h *SurveyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Start(r.Context(), mux.Vars(r)["surveyType"], middleware.ExtractToken(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Resumed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}
