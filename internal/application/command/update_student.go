// Package command contains write operations following CQRS pattern.
// Commands modify state and return minimal results.
// Each command is a self-contained use case with its own request type.
package command

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Обновляет академические показатели студента (оценки и посещаемость).
// Производные поля риска пересчитываются до записи: хранилище никогда
// не содержит студента с устаревшим уровнем риска.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand содержит новые академические показатели.
type UpdateStudentCommand struct {
	// ID - идентификатор студента в любом регистре.
	ID string

	// Marks - новые оценки по предметам (0-100 каждая).
	Marks scoring.Marks

	// Attendance - новая посещаемость в процентах (0-100).
	Attendance float64
}

// Validate проверяет корректность команды.
func (c *UpdateStudentCommand) Validate() error {
	if student.Normalize(c.ID) == "" {
		return shared.NewDomainError("command", "UpdateStudent", shared.ErrValidation, "student id is required")
	}
	if err := c.Marks.Validate(); err != nil {
		return err
	}
	if c.Attendance < 0 || c.Attendance > 100 {
		return shared.NewDomainError("command", "UpdateStudent", shared.ErrValueOutOfRange,
			"attendance must be within [0, 100]")
	}
	return nil
}

// UpdateStudentResult содержит обновлённого студента.
type UpdateStudentResult struct {
	// Student - студент после пересчёта производных полей.
	Student *student.Student `json:"student"`

	// RiskChanged - изменился ли уровень риска при обновлении.
	RiskChanged bool `json:"riskChanged"`
}

// UpdateStudentHandler обрабатывает команды обновления студента.
type UpdateStudentHandler struct {
	students student.Repository
	log      *logger.Logger
}

// NewUpdateStudentHandler создаёт новый обработчик.
func NewUpdateStudentHandler(students student.Repository, log *logger.Logger) *UpdateStudentHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UpdateStudentHandler{
		students: students,
		log:      log.With(logger.Component("update-student")),
	}
}

// Handle выполняет команду обновления студента.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := student.Normalize(cmd.ID)

	s, err := h.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousLevel := s.RiskLevel
	if err := s.ApplyAcademics(cmd.Marks, cmd.Attendance); err != nil {
		return nil, err
	}

	if err := h.students.Update(ctx, s); err != nil {
		return nil, err
	}

	riskChanged := s.RiskLevel != previousLevel
	if riskChanged {
		h.log.Info("student risk level changed",
			logger.StudentID(string(s.ID)),
			logger.String("from", string(previousLevel)),
			logger.RiskLevel(string(s.RiskLevel)),
			logger.RiskScore(s.RiskScore),
		)
	}

	return &UpdateStudentResult{
		Student:     s,
		RiskChanged: riskChanged,
	}, nil
}
