package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/campus-hub/campus-ops-hub/internal/application/auth"
	"github.com/campus-hub/campus-ops-hub/internal/application/command"
	"github.com/campus-hub/campus-ops-hub/internal/application/query"
	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/external/assistant"
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & ROOT
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
		"time":   time.Now().UTC(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "campus-ops-hub",
		"version": "v1",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), query.ListStudentsQuery{
		RiskLevel: r.URL.Query().Get("riskLevel"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetStudentHandler.Handle(r.Context(), query.GetStudentQuery{
		ID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// updateStudentRequest is the PUT body for academic updates.
type updateStudentRequest struct {
	Marks      scoring.Marks `json:"marks"`
	Attendance float64       `json:"attendance"`
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req updateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.UpdateStudentHandler.Handle(r.Context(), command.UpdateStudentCommand{
		ID:         r.PathValue("id"),
		Marks:      req.Marks,
		Attendance: req.Attendance,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// BUSES & DASHBOARD
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListBuses(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListBusesHandler.Handle(r.Context(), query.ListBusesQuery{
		OnlyCrowded: getQueryParamBool(r, "onlyCrowded"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetDashboardHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

// loginRequest is the POST body for the login gate.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Passcode   string `json:"passcode,omitempty"`
	Remember   bool   `json:"remember,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	result, err := s.deps.Gate.Login(r.Context(), auth.LoginInput{
		Identifier: req.Identifier,
		Passcode:   req.Passcode,
		Remember:   req.Remember,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if !result.OK {
		writeJSONError(w, http.StatusUnauthorized, "login_refused", result.Reason)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Gate.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"state": string(s.deps.Gate.State())})
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Gate.Forget(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": string(s.deps.Gate.State())})
}

// sessionResponse describes the current session, restoring from the
// remembered identifier when no transient session exists.
type sessionResponse struct {
	State   string      `json:"state"`
	Session interface{} `json:"session,omitempty"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Gate.Restore(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := sessionResponse{State: string(s.deps.Gate.State())}
	if sess != nil {
		resp.Session = sess
	}
	writeJSON(w, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSISTANT
// Assistant answers are always 200: degraded answers are data, not errors.
// ══════════════════════════════════════════════════════════════════════════════

// assistantAnswer carries the assistant text back to the dashboard.
type assistantAnswer struct {
	Answer string `json:"answer"`
}

// chatRequest is the POST body of one conversational turn.
type chatRequest struct {
	Message string              `json:"message"`
	History []assistant.Message `json:"history,omitempty"`
}

// locationRequest is the POST body of a location lookup.
type locationRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAssistantAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.deps.Assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant_disabled", "Assistant feature is disabled")
		return
	}

	students, err := s.deps.ListStudentsHandler.Handle(r.Context(), query.ListStudentsQuery{})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	answer := s.deps.Assistant.AnalyzeRisk(r.Context(), students.Students)
	writeJSON(w, http.StatusOK, assistantAnswer{Answer: answer})
}

func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if s.deps.Assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant_disabled", "Assistant feature is disabled")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "empty_message", "Message is required")
		return
	}

	answer := s.deps.Assistant.Chat(r.Context(), req.Message, req.History)
	writeJSON(w, http.StatusOK, assistantAnswer{Answer: answer})
}

func (s *Server) handleAssistantLocations(w http.ResponseWriter, r *http.Request) {
	if s.deps.Assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant_disabled", "Assistant feature is disabled")
		return
	}

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "empty_query", "Query is required")
		return
	}

	answer := s.deps.Assistant.FindLocation(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, assistantAnswer{Answer: answer})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
