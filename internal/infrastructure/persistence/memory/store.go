// Package memory implements the campus store on top of process memory.
// It backs tests and the REDIS_DISABLED deployment mode; semantics match
// the redis-backed store, including deep copies on every read and write.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/seed"
)

// Store holds all campus collections behind a single mutex.
type Store struct {
	mu sync.RWMutex

	students     map[student.ID]*student.Student
	studentOrder []student.ID

	buses    map[transit.ID]*transit.Bus
	busOrder []transit.ID

	rememberedID student.ID
}

// NewStore builds a store pre-populated with the seed dataset.
func NewStore() (*Store, error) {
	students, err := seed.Students()
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}
	buses, err := seed.Buses()
	if err != nil {
		return nil, fmt.Errorf("memory store: %w", err)
	}

	s := &Store{
		students: make(map[student.ID]*student.Student, len(students)),
		buses:    make(map[transit.ID]*transit.Bus, len(buses)),
	}
	for _, st := range students {
		s.students[st.ID] = st
		s.studentOrder = append(s.studentOrder, st.ID)
	}
	for _, b := range buses {
		s.buses[b.ID] = b
		s.busOrder = append(s.busOrder, b.ID)
	}
	return s, nil
}

// Students returns the student repository view of the store.
func (s *Store) Students() student.Repository { return &studentRepository{store: s} }

// Buses returns the transit repository view of the store.
func (s *Store) Buses() transit.Repository { return &busRepository{store: s} }

// Sessions returns the remembered-identity view of the store.
func (s *Store) Sessions() *SessionStore { return &SessionStore{store: s} }

// ─────────────────────────────────────────────────────────────────────────────
// Student repository
// ─────────────────────────────────────────────────────────────────────────────

type studentRepository struct {
	store *Store
}

func (r *studentRepository) GetAll(ctx context.Context) ([]*student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*student.Student, 0, len(r.store.studentOrder))
	for _, id := range r.store.studentOrder {
		out = append(out, r.store.students[id].Clone())
	}
	return out, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id student.ID) (*student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s.Clone(), nil
}

func (r *studentRepository) Update(ctx context.Context, s *student.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.students[s.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	r.store.students[s.ID] = s.Clone()
	return nil
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.students), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bus repository
// ─────────────────────────────────────────────────────────────────────────────

type busRepository struct {
	store *Store
}

func (r *busRepository) GetAll(ctx context.Context) ([]*transit.Bus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*transit.Bus, 0, len(r.store.busOrder))
	for _, id := range r.store.busOrder {
		out = append(out, r.store.buses[id].Clone())
	}
	return out, nil
}

func (r *busRepository) GetByID(ctx context.Context, id transit.ID) (*transit.Bus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.buses[id]
	if !ok {
		return nil, shared.ErrBusNotFound
	}
	return b.Clone(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Remembered identity
// ─────────────────────────────────────────────────────────────────────────────

// SessionStore persists the remembered student identifier between logins.
type SessionStore struct {
	store *Store
}

func (s *SessionStore) SaveRemembered(ctx context.Context, id student.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.rememberedID = id
	return nil
}

func (s *SessionStore) GetRemembered(ctx context.Context) (student.ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.store.rememberedID, nil
}

func (s *SessionStore) ClearRemembered(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.rememberedID = ""
	return nil
}
