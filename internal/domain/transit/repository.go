package transit

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над коллекцией автобусов.
// Коллекция посеяна при первом обращении; мутаций и удаления нет.
type Repository interface {
	// GetAll возвращает все автобусы в порядке посева.
	// Первое обращение к пустому хранилищу выполняет посев.
	GetAll(ctx context.Context) ([]*Bus, error)

	// GetByID возвращает автобус по идентификатору.
	// Возвращает shared.ErrBusNotFound, если автобус не найден.
	GetByID(ctx context.Context, id ID) (*Bus, error)
}
