package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/seed"
)

// stubGenerator scripts the generator used by the service tests.
type stubGenerator struct {
	answer string
	err    error

	lastSystem string
	lastPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, system, prompt string, history []Message) (string, error) {
	g.lastSystem = system
	g.lastPrompt = prompt
	return g.answer, g.err
}

func TestService_AnalyzeRisk(t *testing.T) {
	students, err := seed.Students()
	require.NoError(t, err)

	t.Run("includes only medium and high risk students", func(t *testing.T) {
		gen := &stubGenerator{answer: "focus on attendance"}
		svc := NewService(gen, nil)

		got := svc.AnalyzeRisk(context.Background(), students)
		assert.Equal(t, "focus on attendance", got)
		assert.Contains(t, gen.lastPrompt, "Liam Chen")
		assert.Contains(t, gen.lastPrompt, "James Wilson")
		assert.NotContains(t, gen.lastPrompt, "Sarah Smith")
	})

	t.Run("generator failure falls back", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("boom")}
		svc := NewService(gen, nil)

		got := svc.AnalyzeRisk(context.Background(), students)
		assert.Equal(t, FallbackAnalysisError, got)
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		gen := &stubGenerator{answer: "   "}
		svc := NewService(gen, nil)

		got := svc.AnalyzeRisk(context.Background(), students)
		assert.Equal(t, FallbackAnalysisEmpty, got)
	})

	t.Run("no students at risk skips the call", func(t *testing.T) {
		safe, err := student.New(student.NewStudentParams{
			ID:         "S100",
			Name:       "Top Performer",
			Attendance: 99,
			Marks:      scoring.Marks{Math: 95, Science: 95, History: 95, English: 95, CS: 95},
		})
		require.NoError(t, err)

		gen := &stubGenerator{answer: "should not be used"}
		svc := NewService(gen, nil)

		got := svc.AnalyzeRisk(context.Background(), []*student.Student{safe})
		assert.Equal(t, FallbackAnalysisEmpty, got)
		assert.Empty(t, gen.lastPrompt)
	})
}

func TestService_Chat(t *testing.T) {
	t.Run("passes persona and returns answer", func(t *testing.T) {
		gen := &stubGenerator{answer: "the library closes at 22:00"}
		svc := NewService(gen, nil)

		got := svc.Chat(context.Background(), "when does the library close?", nil)
		assert.Equal(t, "the library closes at 22:00", got)
		assert.Contains(t, gen.lastSystem, "ScholarBot")
	})

	t.Run("failure falls back", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("network down")}
		svc := NewService(gen, nil)

		got := svc.Chat(context.Background(), "hello", nil)
		assert.Equal(t, FallbackChatError, got)
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		gen := &stubGenerator{}
		svc := NewService(gen, nil)

		got := svc.Chat(context.Background(), "hello", nil)
		assert.Equal(t, FallbackChatEmpty, got)
	})
}

func TestService_FindLocation(t *testing.T) {
	t.Run("returns directions", func(t *testing.T) {
		gen := &stubGenerator{answer: "the gym is next to the stadium"}
		svc := NewService(gen, nil)

		got := svc.FindLocation(context.Background(), "gym")
		assert.Equal(t, "the gym is next to the stadium", got)
		assert.Contains(t, gen.lastPrompt, "gym")
	})

	t.Run("failure falls back", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("boom")}
		svc := NewService(gen, nil)

		got := svc.FindLocation(context.Background(), "gym")
		assert.Equal(t, FallbackLocationError, got)
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		gen := &stubGenerator{}
		svc := NewService(gen, nil)

		got := svc.FindLocation(context.Background(), "gym")
		assert.Equal(t, FallbackLocationEmpty, got)
	})
}

func TestClient_Generate(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Contains(t, r.URL.Path, "generateContent")
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  hello there  "}]}}]}`))
		}))
		defer srv.Close()

		client := NewClient(DefaultConfig(srv.URL, "test-key"))
		answer, err := client.Generate(context.Background(), "persona", "hi", nil)
		require.NoError(t, err)
		assert.Equal(t, "hello there", answer)
	})

	t.Run("api error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"invalid api key"}}`))
		}))
		defer srv.Close()

		client := NewClient(DefaultConfig(srv.URL, "bad-key"))
		_, err := client.Generate(context.Background(), "", "hi", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("empty candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		client := NewClient(DefaultConfig(srv.URL, "test-key"))
		answer, err := client.Generate(context.Background(), "", "hi", nil)
		require.NoError(t, err)
		assert.Empty(t, answer)
	})

	t.Run("circuit opens after consecutive failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(DefaultConfig(srv.URL, "test-key"))
		for i := 0; i < 3; i++ {
			_, err := client.Generate(context.Background(), "", "hi", nil)
			require.Error(t, err)
		}
		assert.False(t, client.IsHealthy())
	})

	t.Run("breaker threshold is configurable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		cfg := DefaultConfig(srv.URL, "test-key")
		cfg.BreakerThreshold = 1
		client := NewClient(cfg)

		_, err := client.Generate(context.Background(), "", "hi", nil)
		require.Error(t, err)
		assert.False(t, client.IsHealthy())
	})
}
