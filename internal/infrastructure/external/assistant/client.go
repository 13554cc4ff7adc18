// Package assistant implements the campus AI assistant client.
// It talks to a Gemini-style generation endpoint and degrades to fixed
// fallback answers whenever the upstream service misbehaves.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/pkg/circuitbreaker"
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the assistant API client.
type Config struct {
	// BaseURL is the generation API base URL.
	BaseURL string

	// APIKey authenticates requests. An empty key is allowed; requests
	// will simply fail upstream and fall back.
	APIKey string

	// Model is the generation model identifier.
	Model string

	// RequestTimeout bounds a single generation request.
	RequestTimeout time.Duration

	// BreakerThreshold is the number of consecutive failures before
	// the circuit opens. The assistant enriches the dashboard and every
	// failure already has a fixed fallback answer, so opening early is cheap.
	BreakerThreshold int

	// BreakerTimeout is how long the circuit stays open before a probe
	// request is admitted.
	BreakerTimeout time.Duration

	// BreakerHalfOpenMax is the number of requests admitted in half-open.
	BreakerHalfOpenMax int

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultConfig returns sensible defaults for the assistant client.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:            baseURL,
		APIKey:             apiKey,
		Model:              "gemini-2.5-flash",
		RequestTimeout:     30 * time.Second,
		BreakerThreshold:   3,
		BreakerTimeout:     60 * time.Second,
		BreakerHalfOpenMax: 1,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Message is one turn of an assistant conversation.
type Message struct {
	// Role is "user" or "model".
	Role string `json:"role"`

	// Text is the message content.
	Text string `json:"text"`
}

type wirePart struct {
	Text string `json:"text"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type generateRequest struct {
	Contents          []wireContent `json:"contents"`
	SystemInstruction *wireContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the assistant generation API client.
type Client struct {
	config  Config
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewClient creates a new assistant API client.
func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = 3
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}
	if cfg.BreakerHalfOpenMax <= 0 {
		cfg.BreakerHalfOpenMax = 1
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("assistant"))

	breaker := circuitbreaker.New(
		"assistant-api",
		circuitbreaker.WithFailureThreshold(cfg.BreakerThreshold),
		circuitbreaker.WithSuccessThreshold(2),
		circuitbreaker.WithTimeout(cfg.BreakerTimeout),
		circuitbreaker.WithMaxHalfOpenRequests(cfg.BreakerHalfOpenMax),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)

	return &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		breaker: breaker,
		log:     log,
	}
}

// Generate runs one generation request: an optional system instruction,
// prior conversation turns, and the new prompt. Returns the trimmed
// model answer; an empty answer is returned as "" with a nil error.
func (c *Client) Generate(ctx context.Context, system, prompt string, history []Message) (string, error) {
	var answer string

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		answer, opErr = c.generate(ctx, system, prompt, history)
		return opErr
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Client) generate(ctx context.Context, system, prompt string, history []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	reqBody := generateRequest{}
	if system != "" {
		reqBody.SystemInstruction = &wireContent{Parts: []wirePart{{Text: system}}}
	}
	for _, m := range history {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		reqBody.Contents = append(reqBody.Contents, wireContent{
			Role:  role,
			Parts: []wirePart{{Text: m.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, wireContent{
		Role:  "user",
		Parts: []wirePart{{Text: prompt}},
	})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", shared.WrapError("assistant", "generate", shared.ErrExternalService, "marshal request", err)
	}

	fullURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.config.BaseURL, "/"), c.config.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return "", shared.WrapError("assistant", "generate", shared.ErrExternalService, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", shared.ErrAssistantTimeout
		}
		return "", shared.WrapError("assistant", "generate", shared.ErrServiceUnavailable, "http request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", shared.WrapError("assistant", "generate", shared.ErrExternalService, "read response", err)
	}

	c.log.Debug("generation request completed",
		logger.Int("status", resp.StatusCode),
		logger.Latency(time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		var apiResp generateResponse
		if json.Unmarshal(body, &apiResp) == nil && apiResp.Error != nil {
			return "", shared.NewDomainError("assistant", "generate", shared.ErrExternalService,
				fmt.Sprintf("api error %d: %s", apiResp.Error.Code, apiResp.Error.Message))
		}
		return "", shared.NewDomainError("assistant", "generate", shared.ErrExternalService,
			fmt.Sprintf("api error: status %d", resp.StatusCode))
	}

	var apiResp generateResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", shared.WrapError("assistant", "generate", shared.ErrExternalService, "decode response", err)
	}

	if len(apiResp.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// IsHealthy reports whether the circuit currently admits requests.
func (c *Client) IsHealthy() bool {
	return !c.breaker.IsOpen()
}

// Reset resets the circuit breaker.
func (c *Client) Reset() {
	c.breaker.Reset()
}
