package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/application/auth"
	"github.com/campus-hub/campus-ops-hub/internal/application/command"
	"github.com/campus-hub/campus-ops-hub/internal/application/query"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/external/assistant"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/memory"
)

// staticGenerator always answers with the same text.
type staticGenerator struct {
	answer string
}

func (g staticGenerator) Generate(ctx context.Context, system, prompt string, history []assistant.Message) (string, error) {
	return g.answer, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := memory.NewStore()
	require.NoError(t, err)

	gate, err := auth.NewGate(auth.Config{
		AdminIdentifier: "ADMIN",
		AdminPasscode:   "campus-secret",
	}, store.Students(), store.Sessions(), nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // keep tests deterministic

	return NewServer(cfg, Dependencies{
		ListStudentsHandler:  query.NewListStudentsHandler(store.Students()),
		GetStudentHandler:    query.NewGetStudentHandler(store.Students()),
		ListBusesHandler:     query.NewListBusesHandler(store.Buses()),
		GetDashboardHandler:  query.NewGetDashboardHandler(store.Students(), store.Buses()),
		UpdateStudentHandler: command.NewUpdateStudentHandler(store.Students(), nil),
		Gate:                 gate,
		Assistant:            assistant.NewService(staticGenerator{answer: "all good"}, nil),
	})
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleListStudents(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["students"], 5)
	assert.EqualValues(t, 5, data["totalCount"])

	t.Run("risk level filter", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students?riskLevel=High", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		students := data["students"].([]interface{})
		require.NotEmpty(t, students)
		for _, raw := range students {
			assert.Equal(t, "High", raw.(map[string]interface{})["riskLevel"])
		}
	})

	t.Run("unknown risk level is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students?riskLevel=Extreme", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetStudent(t *testing.T) {
	srv := newTestServer(t)

	t.Run("found with normalization", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students/s001", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "S001", data["id"])
		assert.Equal(t, "Alex Johnson", data["name"])
	})

	t.Run("missing returns 404", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students/S999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleUpdateStudent(t *testing.T) {
	srv := newTestServer(t)

	t.Run("successful update recomputes risk", func(t *testing.T) {
		body := map[string]interface{}{
			"marks":      map[string]int{"math": 90, "science": 92, "history": 88, "english": 91, "cs": 94},
			"attendance": 95,
		}
		rec := doRequest(t, srv, http.MethodPut, "/api/v1/students/S003", body)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		student := data["student"].(map[string]interface{})
		assert.Equal(t, "Low", student["riskLevel"])
		assert.Equal(t, true, data["riskChanged"])
	})

	t.Run("out of range marks rejected", func(t *testing.T) {
		body := map[string]interface{}{
			"marks":      map[string]int{"math": 150, "science": 92, "history": 88, "english": 91, "cs": 94},
			"attendance": 95,
		}
		rec := doRequest(t, srv, http.MethodPut, "/api/v1/students/S003", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing student returns 404", func(t *testing.T) {
		body := map[string]interface{}{
			"marks":      map[string]int{"math": 50, "science": 50, "history": 50, "english": 50, "cs": 50},
			"attendance": 50,
		}
		rec := doRequest(t, srv, http.MethodPut, "/api/v1/students/S999", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResponseEnvelopeRequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generated id fills header and envelope", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEnvelope(t, rec)
		require.NotEmpty(t, resp.RequestID)
		assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
	})

	t.Run("supplied id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
		req.Header.Set("X-Request-ID", "campus-req-42")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		resp := decodeEnvelope(t, rec)
		assert.Equal(t, "campus-req-42", resp.RequestID)
	})

	t.Run("error responses carry the id too", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/students/S999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		resp := decodeEnvelope(t, rec)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestHandleListBuses(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/buses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.(map[string]interface{})
	assert.Len(t, data["buses"], 4)
	assert.EqualValues(t, 2, data["crowdedCount"])

	t.Run("only crowded filter", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/buses?onlyCrowded=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Len(t, data["buses"], 2)
	})
}

func TestHandleGetDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec).Data.(map[string]interface{})
	risk := data["riskBreakdown"].(map[string]interface{})
	assert.EqualValues(t, 1, risk["high"])
	assert.EqualValues(t, 2, risk["medium"])
	crowd := data["crowdBreakdown"].(map[string]interface{})
	assert.EqualValues(t, 2, crowd["heavy"])
}

func TestHandleAuth(t *testing.T) {
	srv := newTestServer(t)

	t.Run("student login", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
			map[string]interface{}{"identifier": "s001", "remember": true})
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, true, data["ok"])
	})

	t.Run("unknown student refused with 401", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
			map[string]interface{}{"identifier": "S999"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "verification failed", resp.Error.Message)
	})

	t.Run("admin wrong passcode", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/login",
			map[string]interface{}{"identifier": "ADMIN", "passcode": "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Equal(t, "invalid admin credentials", resp.Error.Message)
	})

	t.Run("session restore after logout", func(t *testing.T) {
		// remember = true above persisted S001
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/logout", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, srv, http.MethodGet, "/api/v1/auth/session", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "logged_in_student", data["state"])
	})

	t.Run("forget clears remembered identifier", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/auth/forget", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		doRequest(t, srv, http.MethodPost, "/api/v1/auth/logout", nil)
		rec = doRequest(t, srv, http.MethodGet, "/api/v1/auth/session", nil)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "logged_out", data["state"])
	})
}

func TestHandleAssistant(t *testing.T) {
	srv := newTestServer(t)

	t.Run("analyze", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/analyze", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "all good", data["answer"])
	})

	t.Run("chat requires message", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/chat",
			map[string]interface{}{"message": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("chat", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/chat",
			map[string]interface{}{"message": "hello"})
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "all good", data["answer"])
	})

	t.Run("locations", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/assistant/locations",
			map[string]interface{}{"query": "library"})
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]interface{})
		assert.Equal(t, "all good", data["answer"])
	})

	t.Run("disabled assistant returns 503", func(t *testing.T) {
		disabled := newTestServer(t)
		disabled.deps.Assistant = nil
		rec := doRequest(t, disabled, http.MethodPost, "/api/v1/assistant/chat",
			map[string]interface{}{"message": "hello"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
