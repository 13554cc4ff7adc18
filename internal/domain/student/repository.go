package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт для работы с хранилищем студентов.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над коллекцией студентов.
// Коллекция посеяна фиксированным набором записей при первом обращении;
// пути удаления нет.
type Repository interface {
	// GetAll возвращает всех студентов в порядке посева.
	// Первое обращение к пустому хранилищу выполняет посев.
	GetAll(ctx context.Context) ([]*Student, error)

	// GetByID возвращает студента по идентификатору.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id ID) (*Student, error)

	// Update целиком заменяет хранимую запись с совпадающим идентификатором.
	// Возвращает shared.ErrStudentNotFound, если записи нет, - молчаливый
	// no-op исходной системы заменён явным результатом.
	Update(ctx context.Context, s *Student) error

	// Count возвращает количество студентов в коллекции.
	Count(ctx context.Context) (int, error)
}
