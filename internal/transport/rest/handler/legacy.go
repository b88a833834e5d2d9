package handler

import (
	"encoding/json"
	"net/http"

	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/service"
)

// LegacyHandler serves the one-shot submit endpoint of the original web
// client, which keeps answers in browser storage and posts them at the end.
type LegacyHandler struct {
	sessionSvc *service.SessionService
}

// NewLegacyHandler creates a new legacy handler
func NewLegacyHandler(sessionSvc *service.SessionService) *LegacyHandler {
	return &LegacyHandler{sessionSvc: sessionSvc}
}

// LegacySubmitRequest is the body posted by the original client. Keys is the
// client's question order; the server uses its own definition order.
type LegacySubmitRequest struct {
	Responses model.Responses `json:"responses"`
	Keys      []string        `json:"keys"`
}

// Ping handles GET /api/submit
func (h *LegacyHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Submit API working perfectly!"})
}

// Submit handles POST /api/submit?submitType={surveyType}
func (h *LegacyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	surveyType := r.URL.Query().Get("submitType")
	if surveyType == "" {
		writeError(w, http.StatusBadRequest, "missing submitType")
		return
	}

	var req LegacySubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessionSvc.SubmitOnce(r.Context(), surveyType, req.Responses); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": i18n.Toast(i18n.MsgSubmitted),
	})
}
