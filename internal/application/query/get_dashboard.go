package query

import (
	"context"
	"time"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Собирает сводку для главной панели: студенты, автобусы и агрегаты
// по уровням риска и загруженности за один запрос.
// ══════════════════════════════════════════════════════════════════════════════

// RiskBreakdown - распределение студентов по уровням риска.
type RiskBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// CrowdBreakdown - распределение автобусов по загруженности.
type CrowdBreakdown struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	Heavy  int `json:"heavy"`
}

// GetDashboardResult содержит сводку панели.
type GetDashboardResult struct {
	// Students - все студенты.
	Students []*student.Student `json:"students"`

	// Buses - весь автобусный парк.
	Buses []*transit.Bus `json:"buses"`

	// RiskBreakdown - агрегаты по уровням риска.
	RiskBreakdown RiskBreakdown `json:"riskBreakdown"`

	// CrowdBreakdown - агрегаты по загруженности.
	CrowdBreakdown CrowdBreakdown `json:"crowdBreakdown"`

	// OutstandingDuesTotal - сумма неоплаченных задолженностей по кампусу.
	OutstandingDuesTotal float64 `json:"outstandingDuesTotal"`

	// GeneratedAt - время генерации сводки.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetDashboardHandler обрабатывает запросы сводки панели.
type GetDashboardHandler struct {
	students student.Repository
	buses    transit.Repository
}

// NewGetDashboardHandler создаёт новый обработчик.
func NewGetDashboardHandler(students student.Repository, buses transit.Repository) *GetDashboardHandler {
	return &GetDashboardHandler{students: students, buses: buses}
}

// Handle выполняет запрос сводки панели.
func (h *GetDashboardHandler) Handle(ctx context.Context) (*GetDashboardResult, error) {
	students, err := h.students.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrInternal, "failed to load students", err)
	}

	buses, err := h.buses.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetDashboard", shared.ErrInternal, "failed to load buses", err)
	}

	result := &GetDashboardResult{
		Students:    students,
		Buses:       buses,
		GeneratedAt: time.Now().UTC(),
	}

	for _, s := range students {
		switch s.RiskLevel {
		case scoring.RiskHigh:
			result.RiskBreakdown.High++
		case scoring.RiskMedium:
			result.RiskBreakdown.Medium++
		default:
			result.RiskBreakdown.Low++
		}
		result.OutstandingDuesTotal += s.OutstandingAmount()
	}

	for _, b := range buses {
		switch b.CrowdLevel {
		case scoring.CrowdHeavy:
			result.CrowdBreakdown.Heavy++
		case scoring.CrowdMedium:
			result.CrowdBreakdown.Medium++
		default:
			result.CrowdBreakdown.Low++
		}
	}

	return result, nil
}
