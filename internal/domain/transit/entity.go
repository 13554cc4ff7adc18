// Package transit содержит доменную модель кампусного транспорта.
// Автобусы - сущности с производным уровнем загруженности,
// вычисляемым движком оценки из заполненности и вместимости.
package transit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS & ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет идентификатор автобуса (например, "B101").
type ID string

// IsValid проверяет, что идентификатор непустой.
func (id ID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// String возвращает строковое представление идентификатора.
func (id ID) String() string {
	return string(id)
}

// Status - операционный статус автобуса.
type Status string

const (
	// StatusOnTime - идёт по расписанию.
	StatusOnTime Status = "On Time"
	// StatusDelayed - задерживается.
	StatusDelayed Status = "Delayed"
	// StatusStopped - остановлен.
	StatusStopped Status = "Stopped"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusOnTime, StatusDelayed, StatusStopped:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ОСНОВНАЯ СУЩНОСТЬ: BUS
// ══════════════════════════════════════════════════════════════════════════════

// Bus - автобус кампусного маршрута.
// Инвариант: CrowdLevel всегда согласован с CurrentOccupancy/Capacity
// через движок оценки. JSON-теги сохраняют форму хранимых записей.
type Bus struct {
	// ID - идентификатор автобуса.
	ID ID `json:"id"`

	// Route - метка маршрута (например, "Route A - Downtown").
	Route string `json:"route"`

	// Capacity - вместимость (строго положительная).
	Capacity int `json:"capacity"`

	// CurrentOccupancy - текущее число пассажиров.
	// Ожидается 0..Capacity, но сверху не ограничивается.
	CurrentOccupancy int `json:"currentOccupancy"`

	// Status - операционный статус.
	Status Status `json:"status"`

	// NextStop - метка следующей остановки.
	NextStop string `json:"nextStop"`

	// CrowdLevel - производный уровень загруженности.
	CrowdLevel scoring.CrowdLevel `json:"crowdLevel"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidID - невалидный идентификатор автобуса.
	ErrInvalidID = errors.New("invalid bus id: must be non-empty")

	// ErrInvalidCapacity - вместимость должна быть положительной.
	ErrInvalidCapacity = errors.New("invalid bus capacity: must be positive")

	// ErrNegativeOccupancy - число пассажиров не может быть отрицательным.
	ErrNegativeOccupancy = errors.New("invalid occupancy: must be non-negative")

	// ErrInvalidStatus - невалидный операционный статус.
	ErrInvalidStatus = errors.New("invalid bus status")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// NewBusParams содержит параметры для создания автобуса.
// CrowdLevel не принимается - он вычисляется фабрикой.
type NewBusParams struct {
	ID               ID
	Route            string
	Capacity         int
	CurrentOccupancy int
	Status           Status
	NextStop         string
}

// New создаёт автобус с валидацией полей и вычислением уровня загруженности.
func New(params NewBusParams) (*Bus, error) {
	if !params.ID.IsValid() {
		return nil, ErrInvalidID
	}
	if params.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if params.CurrentOccupancy < 0 {
		return nil, ErrNegativeOccupancy
	}
	if !params.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Bus{
		ID:               params.ID,
		Route:            params.Route,
		Capacity:         params.Capacity,
		CurrentOccupancy: params.CurrentOccupancy,
		Status:           params.Status,
		NextStop:         params.NextStop,
		CrowdLevel:       scoring.CrowdLevelFor(params.CurrentOccupancy, params.Capacity),
	}, nil
}

// ApplyOccupancy обновляет число пассажиров и пересчитывает загруженность.
// Заполненность сверх вместимости допустима и даёт Heavy.
func (b *Bus) ApplyOccupancy(occupancy int) error {
	if occupancy < 0 {
		return ErrNegativeOccupancy
	}

	b.CurrentOccupancy = occupancy
	b.CrowdLevel = scoring.CrowdLevelFor(occupancy, b.Capacity)
	return nil
}

// OccupancyRatio возвращает долю заполненности (может превышать 1).
func (b *Bus) OccupancyRatio() float64 {
	if b.Capacity <= 0 {
		return 0
	}
	return float64(b.CurrentOccupancy) / float64(b.Capacity)
}

// IsCrowded возвращает true при уровне загруженности Heavy.
func (b *Bus) IsCrowded() bool {
	return b.CrowdLevel == scoring.CrowdHeavy
}

// String возвращает строковое представление автобуса для логирования.
func (b *Bus) String() string {
	return fmt.Sprintf(
		"Bus{ID: %s, Route: %s, Occupancy: %d/%d, Crowd: %s}",
		b.ID, b.Route, b.CurrentOccupancy, b.Capacity, b.CrowdLevel,
	)
}

// Clone создаёт копию автобуса.
func (b *Bus) Clone() *Bus {
	if b == nil {
		return nil
	}

	clone := *b
	return &clone
}
