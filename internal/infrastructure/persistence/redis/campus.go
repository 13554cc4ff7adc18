package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/seed"
)

// ══════════════════════════════════════════════════════════════════════════════
// CAMPUS STORE
// ══════════════════════════════════════════════════════════════════════════════

// Campus wires the campus collections onto a Store. Every read goes
// through a seed-if-missing check: if the collection key is absent the
// seed dataset is written first (with SetNX, so a concurrent writer
// wins cleanly) and then the read proceeds.
type Campus struct {
	store *Store
}

// NewCampus wraps a connected Store with campus collection access.
func NewCampus(store *Store) *Campus {
	return &Campus{store: store}
}

// Students returns the student repository view.
func (c *Campus) Students() student.Repository { return &studentRepository{campus: c} }

// Buses returns the transit repository view.
func (c *Campus) Buses() transit.Repository { return &busRepository{campus: c} }

// Sessions returns the remembered-identity view.
func (c *Campus) Sessions() *SessionStore { return &SessionStore{campus: c} }

// ensureStudents writes the seed students unless the key already exists.
func (c *Campus) ensureStudents(ctx context.Context) error {
	exists, err := c.store.Exists(ctx, KeyStudents)
	if err != nil {
		return fmt.Errorf("campus: check students key: %w", err)
	}
	if exists {
		return nil
	}

	students, err := seed.Students()
	if err != nil {
		return fmt.Errorf("campus: build student seed: %w", err)
	}
	if _, err := c.store.SetNX(ctx, KeyStudents, students); err != nil {
		return fmt.Errorf("campus: seed students: %w", err)
	}
	return nil
}

// ensureBuses writes the seed buses unless the key already exists.
func (c *Campus) ensureBuses(ctx context.Context) error {
	exists, err := c.store.Exists(ctx, KeyBuses)
	if err != nil {
		return fmt.Errorf("campus: check buses key: %w", err)
	}
	if exists {
		return nil
	}

	buses, err := seed.Buses()
	if err != nil {
		return fmt.Errorf("campus: build bus seed: %w", err)
	}
	if _, err := c.store.SetNX(ctx, KeyBuses, buses); err != nil {
		return fmt.Errorf("campus: seed buses: %w", err)
	}
	return nil
}

// loadStudents reads the full student collection, seeding on first read.
func (c *Campus) loadStudents(ctx context.Context) ([]*student.Student, error) {
	if err := c.ensureStudents(ctx); err != nil {
		return nil, err
	}

	var students []*student.Student
	if err := c.store.Get(ctx, KeyStudents, &students); err != nil {
		if errors.Is(err, ErrStoreMiss) {
			// Key vanished between the seed check and the read.
			return nil, fmt.Errorf("campus: students key missing after seed: %w", err)
		}
		return nil, fmt.Errorf("campus: load students: %w", err)
	}
	return students, nil
}

// loadBuses reads the full bus collection, seeding on first read.
func (c *Campus) loadBuses(ctx context.Context) ([]*transit.Bus, error) {
	if err := c.ensureBuses(ctx); err != nil {
		return nil, err
	}

	var buses []*transit.Bus
	if err := c.store.Get(ctx, KeyBuses, &buses); err != nil {
		if errors.Is(err, ErrStoreMiss) {
			return nil, fmt.Errorf("campus: buses key missing after seed: %w", err)
		}
		return nil, fmt.Errorf("campus: load buses: %w", err)
	}
	return buses, nil
}

// saveStudents writes the full student collection back.
func (c *Campus) saveStudents(ctx context.Context, students []*student.Student) error {
	if err := c.store.Set(ctx, KeyStudents, students); err != nil {
		return fmt.Errorf("campus: save students: %w", err)
	}
	return nil
}
