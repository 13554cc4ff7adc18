// Package session содержит доменную модель сессии портала.
// Две категории личности - студент (проверка только по идентификатору)
// и единственный фиксированный администратор (идентификатор + код доступа).
// Сессия двухуровневая: транзиентная запись текущего процесса и
// опционально сохранённый "запомненный" идентификатор.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY (размеченный вариант вместо nullable-объединения)
// ══════════════════════════════════════════════════════════════════════════════

// IdentityKind - дискриминатор личности в сессии.
type IdentityKind string

const (
	// KindStudent - сессия студента.
	KindStudent IdentityKind = "student"
	// KindAdmin - сессия администратора.
	KindAdmin IdentityKind = "admin"
)

// IsValid проверяет, что дискриминатор корректен.
func (k IdentityKind) IsValid() bool {
	return k == KindStudent || k == KindAdmin
}

// Identity - размеченная личность сессии.
// Для KindStudent заполнен StudentID; для KindAdmin полезной нагрузки нет.
type Identity struct {
	// Kind - категория личности.
	Kind IdentityKind `json:"kind"`

	// StudentID - идентификатор студента (только для KindStudent).
	StudentID student.ID `json:"studentId,omitempty"`
}

// StudentIdentity создаёт личность студента.
func StudentIdentity(id student.ID) Identity {
	return Identity{Kind: KindStudent, StudentID: id}
}

// AdminIdentity создаёт личность администратора.
func AdminIdentity() Identity {
	return Identity{Kind: KindAdmin}
}

// IsStudent возвращает true для сессии студента.
func (i Identity) IsStudent() bool {
	return i.Kind == KindStudent
}

// IsAdmin возвращает true для сессии администратора.
func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin
}

// IsZero возвращает true для пустой (отсутствующей) личности.
func (i Identity) IsZero() bool {
	return i.Kind == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// State - состояние машины сессии.
type State string

const (
	// StateLoggedOut - нет активной сессии.
	StateLoggedOut State = "logged_out"
	// StateLoggedInStudent - активна сессия студента.
	StateLoggedInStudent State = "logged_in_student"
	// StateLoggedInAdmin - активна сессия администратора.
	StateLoggedInAdmin State = "logged_in_admin"
)

// Session - транзиентная запись активной сессии.
// Живёт только в памяти процесса; срока истечения нет.
type Session struct {
	// Token - уникальный токен сессии.
	Token string `json:"token"`

	// Identity - личность, на которую установлена сессия.
	Identity Identity `json:"identity"`

	// CreatedAt - время установления сессии.
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession создаёт транзиентную сессию для личности.
func NewSession(identity Identity) *Session {
	return &Session{
		Token:     uuid.NewString(),
		Identity:  identity,
		CreatedAt: time.Now().UTC(),
	}
}

// State возвращает состояние машины сессии для записи (nil = LoggedOut).
func (s *Session) State() State {
	if s == nil || s.Identity.IsZero() {
		return StateLoggedOut
	}
	if s.Identity.IsAdmin() {
		return StateLoggedInAdmin
	}
	return StateLoggedInStudent
}

// ══════════════════════════════════════════════════════════════════════════════
// REMEMBERED STORE
// Долговременный уровень: сохранённый идентификатор для пред-заполнения
// формы логина. Отсутствие записи - не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// RememberedStore определяет операции над запомненным идентификатором.
type RememberedStore interface {
	// SaveRemembered сохраняет идентификатор студента.
	SaveRemembered(ctx context.Context, id student.ID) error

	// GetRemembered возвращает запомненный идентификатор
	// или пустой идентификатор, если запись отсутствует.
	GetRemembered(ctx context.Context) (student.ID, error)

	// ClearRemembered удаляет запомненный идентификатор.
	ClearRemembered(ctx context.Context) error
}
