// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Возвращает всех студентов с вычисленными полями риска.
// Поддерживает фильтрацию по уровню риска для панели раннего предупреждения.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery содержит параметры запроса списка студентов.
type ListStudentsQuery struct {
	// RiskLevel - фильтр по уровню риска (пустая строка = все студенты).
	RiskLevel string
}

// Validate проверяет корректность параметров запроса.
func (q *ListStudentsQuery) Validate() error {
	if q.RiskLevel == "" {
		return nil
	}
	if !scoring.RiskLevel(q.RiskLevel).IsValid() {
		return shared.NewDomainError("query", "ListStudents", shared.ErrValidation,
			"unknown risk level: "+q.RiskLevel)
	}
	return nil
}

// ListStudentsResult содержит результат запроса списка студентов.
type ListStudentsResult struct {
	// Students - студенты в каноническом порядке хранилища.
	Students []*student.Student `json:"students"`

	// TotalCount - общее количество студентов до фильтрации.
	TotalCount int `json:"totalCount"`

	// AtRiskCount - количество студентов с повышенным риском.
	AtRiskCount int `json:"atRiskCount"`
}

// ListStudentsHandler обрабатывает запросы списка студентов.
type ListStudentsHandler struct {
	students student.Repository
}

// NewListStudentsHandler создаёт новый обработчик.
func NewListStudentsHandler(students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle выполняет запрос списка студентов.
func (h *ListStudentsHandler) Handle(ctx context.Context, query ListStudentsQuery) (*ListStudentsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrInternal, "failed to load students", err)
	}

	atRisk := 0
	for _, s := range all {
		if s.IsAtRisk() {
			atRisk++
		}
	}

	filtered := all
	if query.RiskLevel != "" {
		filtered = make([]*student.Student, 0, len(all))
		for _, s := range all {
			if s.RiskLevel == scoring.RiskLevel(query.RiskLevel) {
				filtered = append(filtered, s)
			}
		}
	}

	return &ListStudentsResult{
		Students:    filtered,
		TotalCount:  len(all),
		AtRiskCount: atRisk,
	}, nil
}
