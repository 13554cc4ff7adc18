// Package student содержит доменную модель студента кампуса.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет идентификатор студента.
// По соглашению формат "S" + цифры с ведущими нулями (например, "S001"),
// но формат не форсируется - хранилище принимает любой непустой идентификатор.
type ID string

// IsValid проверяет, что идентификатор непустой.
func (id ID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// IsWellFormed проверяет соответствие соглашению "S" + цифры.
func (id ID) IsWellFormed() bool {
	s := string(id)
	if len(s) < 2 || s[0] != 'S' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String возвращает строковое представление идентификатора.
func (id ID) String() string {
	return string(id)
}

// Normalize приводит идентификатор к каноническому виду:
// без пробелов по краям, в верхнем регистре (так вводит форма логина).
func Normalize(raw string) ID {
	return ID(strings.ToUpper(strings.TrimSpace(raw)))
}

// ══════════════════════════════════════════════════════════════════════════════
// ФИНАНСОВЫЕ ЗАДОЛЖЕННОСТИ
// ══════════════════════════════════════════════════════════════════════════════

// DueStatus - статус финансовой задолженности.
type DueStatus string

const (
	// DuePaid - оплачено.
	DuePaid DueStatus = "Paid"
	// DuePending - ожидает оплаты.
	DuePending DueStatus = "Pending"
	// DueOverdue - просрочено.
	DueOverdue DueStatus = "Overdue"
)

// IsValid проверяет, что статус корректен.
func (s DueStatus) IsValid() bool {
	switch s {
	case DuePaid, DuePending, DueOverdue:
		return true
	default:
		return false
	}
}

// IsOutstanding возвращает true, если задолженность ещё не оплачена.
func (s DueStatus) IsOutstanding() bool {
	return s == DuePending || s == DueOverdue
}

// AcademicDue - финансовая задолженность студента.
// Неизменяема после посева: ни один компонент системы не мутирует dues.
type AcademicDue struct {
	// ID - идентификатор записи.
	ID string `json:"id"`

	// Category - категория платежа (например, "Tuition Fee").
	Category string `json:"category"`

	// Amount - сумма (положительная).
	Amount float64 `json:"amount"`

	// DueDate - срок оплаты (строковая метка вида "2025-05-15").
	DueDate string `json:"dueDate"`

	// Status - статус оплаты.
	Status DueStatus `json:"status"`
}

// Validate проверяет корректность записи задолженности.
func (d AcademicDue) Validate() error {
	if d.ID == "" {
		return errors.New("due id is required")
	}
	if d.Amount <= 0 {
		return fmt.Errorf("due %s: amount must be positive, got %g", d.ID, d.Amount)
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("due %s: invalid status %q", d.ID, d.Status)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ИСТОРИЯ УСПЕВАЕМОСТИ
// ══════════════════════════════════════════════════════════════════════════════

// TermGPA - точка истории успеваемости: метка семестра и GPA.
type TermGPA struct {
	// Term - метка семестра (например, "Sem 1", "Current").
	Term string `json:"term"`

	// GPA - средний балл за семестр.
	GPA float64 `json:"gpa"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ОСНОВНАЯ СУЩНОСТЬ: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность системы.
// Инвариант: RiskLevel и RiskScore всегда согласованы с текущими Marks и
// Attendance через формулу движка оценки - их никогда не выставляют вручную.
// JSON-теги сохраняют форму записей, в которой коллекция лежит в хранилище.
type Student struct {
	// ID - идентификатор студента.
	ID ID `json:"id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// Attendance - посещаемость в процентах (0-100).
	Attendance float64 `json:"attendance"`

	// Marks - баллы по пяти фиксированным предметам.
	Marks scoring.Marks `json:"marks"`

	// RiskLevel - производный уровень риска.
	RiskLevel scoring.RiskLevel `json:"riskLevel"`

	// RiskScore - производный балл риска (один знак после запятой).
	RiskScore float64 `json:"riskScore"`

	// Dues - финансовые задолженности (неизменяемы после посева).
	Dues []AcademicDue `json:"dues"`

	// PerformanceHistory - упорядоченная история успеваемости (опциональна).
	PerformanceHistory []TermGPA `json:"performanceHistory,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidID - невалидный идентификатор студента.
	ErrInvalidID = errors.New("invalid student id: must be non-empty")

	// ErrInvalidName - невалидное отображаемое имя.
	ErrInvalidName = errors.New("invalid student name: must be 1-100 chars")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
// Производные поля не принимаются - они вычисляются фабрикой.
type NewStudentParams struct {
	ID                 ID
	Name               string
	Attendance         float64
	Marks              scoring.Marks
	Dues               []AcademicDue
	PerformanceHistory []TermGPA
}

// New создаёт нового студента с валидацией всех полей и вычислением
// производных RiskLevel/RiskScore через движок оценки.
func New(params NewStudentParams) (*Student, error) {
	if !params.ID.IsValid() {
		return nil, ErrInvalidID
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	for _, due := range params.Dues {
		if err := due.Validate(); err != nil {
			return nil, err
		}
	}

	assessment, err := scoring.AssessRisk(params.Marks, params.Attendance)
	if err != nil {
		return nil, err
	}

	return &Student{
		ID:                 params.ID,
		Name:               name,
		Attendance:         params.Attendance,
		Marks:              params.Marks,
		RiskLevel:          assessment.Level,
		RiskScore:          assessment.Score,
		Dues:               append([]AcademicDue(nil), params.Dues...),
		PerformanceHistory: append([]TermGPA(nil), params.PerformanceHistory...),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ApplyAcademics обновляет баллы и посещаемость и пересчитывает
// производные поля. Единственный путь изменения академических данных.
func (s *Student) ApplyAcademics(marks scoring.Marks, attendance float64) error {
	assessment, err := scoring.AssessRisk(marks, attendance)
	if err != nil {
		return err
	}

	s.Marks = marks
	s.Attendance = attendance
	s.RiskLevel = assessment.Level
	s.RiskScore = assessment.Score
	return nil
}

// Recalculate пересчитывает производные поля из текущих данных.
// Используется при чтении записей, пришедших извне доменного слоя.
func (s *Student) Recalculate() error {
	return s.ApplyAcademics(s.Marks, s.Attendance)
}

// IsAtRisk возвращает true, если студент требует внимания (не Low).
func (s *Student) IsAtRisk() bool {
	return s.RiskLevel == scoring.RiskMedium || s.RiskLevel == scoring.RiskHigh
}

// OutstandingAmount возвращает сумму неоплаченных задолженностей.
func (s *Student) OutstandingAmount() float64 {
	var total float64
	for _, due := range s.Dues {
		if due.Status.IsOutstanding() {
			total += due.Amount
		}
	}
	return total
}

// HasOverdueDues возвращает true, если есть просроченные платежи.
func (s *Student) HasOverdueDues() bool {
	for _, due := range s.Dues {
		if due.Status == DueOverdue {
			return true
		}
	}
	return false
}

// CurrentGPA возвращает последнюю точку истории успеваемости.
func (s *Student) CurrentGPA() (TermGPA, bool) {
	if len(s.PerformanceHistory) == 0 {
		return TermGPA{}, false
	}
	return s.PerformanceHistory[len(s.PerformanceHistory)-1], true
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, Name: %s, Score: %.1f, Level: %s}",
		s.ID, s.Name, s.RiskScore, s.RiskLevel,
	)
}

// Clone создаёт глубокую копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Dues = append([]AcademicDue(nil), s.Dues...)
	clone.PerformanceHistory = append([]TermGPA(nil), s.PerformanceHistory...)
	return &clone
}
