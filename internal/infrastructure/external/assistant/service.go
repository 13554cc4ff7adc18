package assistant

import (
	"context"
	"strings"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FALLBACK ANSWERS
// ══════════════════════════════════════════════════════════════════════════════

// Every assistant operation degrades to a fixed answer instead of
// surfacing an error; the dashboard always has something to render.
const (
	FallbackAnalysisError = "Error generating academic analysis. Please check your API key."
	FallbackAnalysisEmpty = "Unable to generate analysis."
	FallbackChatError     = "I'm having trouble connecting to the network right now."
	FallbackChatEmpty     = "I'm not sure how to answer that."
	FallbackLocationError = "Location service unavailable."
	FallbackLocationEmpty = "Could not find location info."
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Generator is the generation capability the service needs.
type Generator interface {
	Generate(ctx context.Context, system, prompt string, history []Message) (string, error)
}

// Service exposes the three assistant operations of the dashboard.
type Service struct {
	generator Generator
	log       *logger.Logger
}

// NewService builds an assistant service on top of a Generator.
func NewService(generator Generator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		generator: generator,
		log:       log.With(logger.Component("assistant-service")),
	}
}

// AnalyzeRisk summarizes intervention advice for students at elevated
// risk. Returns the fallback text when no student is at risk, when the
// upstream call fails, or when the model answers with nothing.
func (s *Service) AnalyzeRisk(ctx context.Context, students []*student.Student) string {
	var atRisk []*student.Student
	for _, st := range students {
		if st.RiskLevel == scoring.RiskMedium || st.RiskLevel == scoring.RiskHigh {
			atRisk = append(atRisk, st)
		}
	}
	if len(atRisk) == 0 {
		return FallbackAnalysisEmpty
	}

	answer, err := s.generator.Generate(ctx, "", riskAnalysisPrompt(atRisk), nil)
	if err != nil {
		s.log.Error("risk analysis failed", logger.Err(err), logger.Int("at_risk", len(atRisk)))
		return FallbackAnalysisError
	}
	if strings.TrimSpace(answer) == "" {
		return FallbackAnalysisEmpty
	}
	return answer
}

// Chat answers one conversational turn with the ScholarBot persona.
func (s *Service) Chat(ctx context.Context, message string, history []Message) string {
	answer, err := s.generator.Generate(ctx, chatSystemInstruction, message, history)
	if err != nil {
		s.log.Error("chat turn failed", logger.Err(err))
		return FallbackChatError
	}
	if strings.TrimSpace(answer) == "" {
		return FallbackChatEmpty
	}
	return answer
}

// FindLocation answers a campus location query.
func (s *Service) FindLocation(ctx context.Context, query string) string {
	answer, err := s.generator.Generate(ctx, "", locationPrompt(query), nil)
	if err != nil {
		s.log.Error("location lookup failed", logger.Err(err), logger.String("query", query))
		return FallbackLocationError
	}
	if strings.TrimSpace(answer) == "" {
		return FallbackLocationEmpty
	}
	return answer
}
