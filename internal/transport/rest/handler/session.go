package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/render"
	"exhibitsurvey/internal/service"
	"exhibitsurvey/internal/transport/rest/middleware"
)

// SessionHandler handles the endpoints of one survey session. All routes sit
// behind SessionMiddleware.RequireSession.
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// SetResponseRequest is the request body for answering a question
type SetResponseRequest struct {
	Value model.Value `json:"value"`
}

// InteractResponse is returned after an interaction on a rendered question
type InteractResponse struct {
	View  *render.View        `json:"view"`
	State *model.SessionState `json:"state"`
}

// SubmitResponse is returned after a successful submission
type SubmitResponse struct {
	Message string              `json:"message"`
	Thanks  string              `json:"thanks"`
	State   *model.SessionState `json:"state"`
}

// State handles GET /v1/sessions/current
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.State(r.Context(), middleware.GetSessionClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// View handles GET /v1/sessions/current/steps/{step}
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetSessionClaims(r.Context())
	step, err := strconv.Atoi(mux.Vars(r)["step"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid step")
		return
	}
	loc, err := h.locale(r, claims)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	view, err := h.sessionSvc.View(r.Context(), claims, step, loc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetResponse handles PUT /v1/sessions/current/responses/{key}
func (h *SessionHandler) SetResponse(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetSessionClaims(r.Context())

	var req SetResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.sessionSvc.SetResponse(r.Context(), claims, mux.Vars(r)["key"], req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Interact handles POST /v1/sessions/current/responses/{key}/interactions
func (h *SessionHandler) Interact(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetSessionClaims(r.Context())

	var in render.Interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loc, err := h.locale(r, claims)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	view, state, err := h.sessionSvc.Interact(r.Context(), claims, mux.Vars(r)["key"], in, loc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InteractResponse{View: view, State: state})
}

// Submit handles POST /v1/sessions/current/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.Submit(r.Context(), middleware.GetSessionClaims(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{
		Message: i18n.Toast(i18n.MsgSubmitted),
		Thanks:  i18n.Toast(i18n.MsgThanks),
		State:   state,
	})
}

func (h *SessionHandler) locale(r *http.Request, claims *model.SessionClaims) (model.Locale, error) {
	def, err := h.sessionSvc.Survey(claims.SurveyType)
	if err != nil {
		return "", err
	}
	return requestLocale(r, def.DefaultLocale), nil
}
