package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/model"
	"github.com/anxmeshhh/PrepIQ/internal/service"
)

// InterviewHandler handles interview session endpoints
type InterviewHandler struct {
	interviewSvc   *service.InterviewService
	authSvc        *service.AuthService
	totalQuestions int
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService, authSvc *service.AuthService, totalQuestions int) *InterviewHandler {
	return &InterviewHandler{
		interviewSvc:   interviewSvc,
		authSvc:        authSvc,
		totalQuestions: totalQuestions,
	}
}

// StartRequest is the request body for starting an interview
type StartRequest struct {
	Domain     string `json:"domain"`
	Difficulty string `json:"difficulty"`
}

// Start handles POST /v1/interviews
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "intermediate"
	}

	session, err := h.interviewSvc.StartInterview(r.Context(), req.Domain, req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authSvc.IssueSessionToken(session.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId":      session.ID,
		"token":          token,
		"firstQuestion":  session.Questions[0],
		"totalQuestions": h.totalQuestions,
	})
}

// SubmitRequest is the request body for answering the current question
type SubmitRequest struct {
	Text     string              `json:"text"`
	Emotion  model.EmotionSample `json:"emotion"`
	Duration float64             `json:"duration"`
}

// Submit handles POST /v1/interviews/{id}/responses
func (h *InterviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.interviewSvc.SubmitAnswer(r.Context(), id, req.Text, req.Emotion, req.Duration)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Retry handles POST /v1/interviews/{id}/questions/retry
func (h *InterviewHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	question, err := h.interviewSvc.RetryQuestion(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"question": question})
}

// End handles POST /v1/interviews/{id}/end
func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.interviewSvc.EndInterview(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"finalScore": session.CumulativeAverage(),
		"report":     session.FinalReport,
	})
}

// List handles GET /v1/interviews?domain={key}, returning archived
// interviews for the domain
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, "domain query parameter is required")
		return
	}

	limit := int64(20)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	sessions, err := h.interviewSvc.ListCompleted(r.Context(), domain, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"interviews": sessions})
}

// Get handles GET /v1/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.interviewSvc.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Report handles GET /v1/interviews/{id}/report
func (h *InterviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.interviewSvc.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session.FinalReport == nil {
		writeError(w, http.StatusConflict, "interview not completed yet")
		return
	}

	writeJSON(w, http.StatusOK, session.FinalReport)
}

// writeServiceError maps service sentinels to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownDomain):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
