package query

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT QUERY
// Возвращает одного студента по идентификатору.
// Идентификатор нормализуется (верхний регистр, без пробелов) перед поиском.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentQuery содержит параметры запроса студента.
type GetStudentQuery struct {
	// ID - идентификатор студента в любом регистре.
	ID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetStudentQuery) Validate() error {
	if student.Normalize(q.ID) == "" {
		return shared.NewDomainError("query", "GetStudent", shared.ErrValidation, "student id is required")
	}
	return nil
}

// GetStudentHandler обрабатывает запросы одного студента.
type GetStudentHandler struct {
	students student.Repository
}

// NewGetStudentHandler создаёт новый обработчик.
func NewGetStudentHandler(students student.Repository) *GetStudentHandler {
	return &GetStudentHandler{students: students}
}

// Handle выполняет запрос студента.
func (h *GetStudentHandler) Handle(ctx context.Context, query GetStudentQuery) (*student.Student, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s, err := h.students.GetByID(ctx, student.Normalize(query.ID))
	if err != nil {
		return nil, err
	}
	return s, nil
}
