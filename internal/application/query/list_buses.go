package query

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST BUSES QUERY
// Возвращает автобусный парк с вычисленной загруженностью.
// ══════════════════════════════════════════════════════════════════════════════

// ListBusesQuery содержит параметры запроса автобусов.
type ListBusesQuery struct {
	// OnlyCrowded - показывать только переполненные автобусы.
	OnlyCrowded bool
}

// ListBusesResult содержит результат запроса автобусов.
type ListBusesResult struct {
	// Buses - автобусы в каноническом порядке хранилища.
	Buses []*transit.Bus `json:"buses"`

	// TotalCount - общее количество автобусов до фильтрации.
	TotalCount int `json:"totalCount"`

	// CrowdedCount - количество переполненных автобусов.
	CrowdedCount int `json:"crowdedCount"`
}

// ListBusesHandler обрабатывает запросы автобусного парка.
type ListBusesHandler struct {
	buses transit.Repository
}

// NewListBusesHandler создаёт новый обработчик.
func NewListBusesHandler(buses transit.Repository) *ListBusesHandler {
	return &ListBusesHandler{buses: buses}
}

// Handle выполняет запрос автобусного парка.
func (h *ListBusesHandler) Handle(ctx context.Context, query ListBusesQuery) (*ListBusesResult, error) {
	all, err := h.buses.GetAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListBuses", shared.ErrInternal, "failed to load buses", err)
	}

	crowded := 0
	for _, b := range all {
		if b.IsCrowded() {
			crowded++
		}
	}

	filtered := all
	if query.OnlyCrowded {
		filtered = make([]*transit.Bus, 0, len(all))
		for _, b := range all {
			if b.IsCrowded() {
				filtered = append(filtered, b)
			}
		}
	}

	return &ListBusesResult{
		Buses:        filtered,
		TotalCount:   len(all),
		CrowdedCount: crowded,
	}, nil
}
