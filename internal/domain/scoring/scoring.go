// Package scoring содержит движок оценки рисков - ядро аналитики кампуса.
// Это чистые функции без побочных эффектов и внешних зависимостей:
// академические баллы и посещаемость превращаются в уровень риска студента,
// а заполненность автобуса - в уровень загруженности.
package scoring

import (
	"fmt"
	"math"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ВЕСА И КОЭФФИЦИЕНТЫ
// ══════════════════════════════════════════════════════════════════════════════

// Веса предметов. Профильные предметы весят на 50% больше общих,
// второстепенно-профильные - на 20% больше.
const (
	WeightMath    = 1.5 // профильный
	WeightCS      = 1.5 // профильный
	WeightScience = 1.2 // второстепенно-профильный
	WeightHistory = 1.0 // общий
	WeightEnglish = 1.0 // общий

	// TotalSubjectWeight - сумма всех весов (знаменатель взвешенного среднего).
	TotalSubjectWeight = WeightMath + WeightCS + WeightScience + WeightHistory + WeightEnglish
)

// Доли составляющих итогового балла.
const (
	// AcademicWeight - доля взвешенного академического среднего (65%).
	AcademicWeight = 0.65

	// AttendanceWeight - доля посещаемости (35%).
	AttendanceWeight = 0.35
)

// Пороги заполненности автобуса.
const (
	// HeavyCrowdRatio - от этой доли заполненности автобус считается переполненным.
	HeavyCrowdRatio = 0.8

	// MediumCrowdRatio - от этой доли заполненности загруженность средняя.
	MediumCrowdRatio = 0.5
)

// ══════════════════════════════════════════════════════════════════════════════
// УРОВНИ
// ══════════════════════════════════════════════════════════════════════════════

// RiskLevel - категориальный уровень академического риска студента.
type RiskLevel string

const (
	// RiskLow - низкий риск (итоговый балл >= 75).
	RiskLow RiskLevel = "Low"
	// RiskMedium - средний риск (50 <= балл < 75).
	RiskMedium RiskLevel = "Medium"
	// RiskHigh - высокий риск (балл < 50).
	RiskHigh RiskLevel = "High"
)

// IsValid проверяет, что уровень риска корректен.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// CrowdLevel - категориальный уровень загруженности автобуса.
type CrowdLevel string

const (
	// CrowdLow - свободно (заполненность < 50%).
	CrowdLow CrowdLevel = "Low"
	// CrowdMedium - средняя загруженность (50-80%).
	CrowdMedium CrowdLevel = "Medium"
	// CrowdHeavy - переполнен (>= 80%).
	CrowdHeavy CrowdLevel = "Heavy"
)

// IsValid проверяет, что уровень загруженности корректен.
func (l CrowdLevel) IsValid() bool {
	switch l {
	case CrowdLow, CrowdMedium, CrowdHeavy:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ОЦЕНКИ ПО ПРЕДМЕТАМ
// ══════════════════════════════════════════════════════════════════════════════

// Marks - баллы студента по пяти фиксированным предметам (0-100 каждый).
type Marks struct {
	Math    int `json:"math"`
	Science int `json:"science"`
	History int `json:"history"`
	English int `json:"english"`
	CS      int `json:"cs"`
}

// Validate проверяет, что каждый балл лежит в диапазоне 0-100.
func (m Marks) Validate() error {
	for _, s := range []struct {
		subject string
		mark    int
	}{
		{"math", m.Math},
		{"science", m.Science},
		{"history", m.History},
		{"english", m.English},
		{"cs", m.CS},
	} {
		if s.mark < 0 || s.mark > 100 {
			return shared.WrapError("scoring", "Validate", shared.ErrValueOutOfRange,
				fmt.Sprintf("mark for %q must be within 0-100, got %d", s.subject, s.mark), nil)
		}
	}
	return nil
}

// WeightedAverage возвращает взвешенное академическое среднее (0-100).
func (m Marks) WeightedAverage() float64 {
	sum := float64(m.Math)*WeightMath +
		float64(m.CS)*WeightCS +
		float64(m.Science)*WeightScience +
		float64(m.History)*WeightHistory +
		float64(m.English)*WeightEnglish
	return sum / TotalSubjectWeight
}

// ══════════════════════════════════════════════════════════════════════════════
// ОЦЕНКА РИСКА СТУДЕНТА
// ══════════════════════════════════════════════════════════════════════════════

// RiskAssessment - результат оценки риска: итоговый балл и уровень.
// Балл всегда округлён до одного знака; уровень выводится из округлённого балла.
type RiskAssessment struct {
	// Score - итоговый балл риска (0-100, один знак после запятой).
	Score float64

	// Level - категориальный уровень риска.
	Level RiskLevel
}

// AssessRisk вычисляет балл и уровень риска студента.
// Формула: взвешенное_среднее * 0.65 + посещаемость * 0.35.
// Входные данные вне диапазона 0-100 отклоняются с описательной ошибкой -
// молчаливое распространение некорректных баллов недопустимо.
func AssessRisk(marks Marks, attendance float64) (RiskAssessment, error) {
	if err := marks.Validate(); err != nil {
		return RiskAssessment{}, err
	}
	if attendance < 0 || attendance > 100 {
		return RiskAssessment{}, shared.WrapError("scoring", "AssessRisk", shared.ErrValueOutOfRange,
			fmt.Sprintf("attendance must be within 0-100, got %g", attendance), nil)
	}

	raw := marks.WeightedAverage()*AcademicWeight + attendance*AttendanceWeight
	score := roundToTenth(raw)

	return RiskAssessment{
		Score: score,
		Level: RiskLevelForScore(score),
	}, nil
}

// RiskLevelForScore возвращает уровень риска для итогового балла.
// Границы включены сверху: ровно 50 - Medium, ровно 75 - Low.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score < 50:
		return RiskHigh
	case score < 75:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ОЦЕНКА ЗАГРУЖЕННОСТИ АВТОБУСА
// ══════════════════════════════════════════════════════════════════════════════

// CrowdLevelFor возвращает уровень загруженности по числу пассажиров и вместимости.
// Доля не ограничивается сверху: при occupancy > capacity она превышает 1 и
// даёт Heavy. Вместимость <= 0 - защищённый случай: деление не выполняется,
// возвращается Low.
func CrowdLevelFor(occupancy, capacity int) CrowdLevel {
	if capacity <= 0 {
		return CrowdLow
	}

	ratio := float64(occupancy) / float64(capacity)
	switch {
	case ratio >= HeavyCrowdRatio:
		return CrowdHeavy
	case ratio >= MediumCrowdRatio:
		return CrowdMedium
	default:
		return CrowdLow
	}
}

// roundToTenth округляет до одного знака после запятой.
// Половинки округляются от нуля - для положительных баллов это совпадает
// с поведением toFixed(1).
func roundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
