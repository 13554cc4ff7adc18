package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
	"github.com/campus-hub/campus-ops-hub/internal/infrastructure/persistence/seed"
)

// rememberedKey is the campus_kv key for the remembered student id.
const rememberedKey = "remembered_student"

// ══════════════════════════════════════════════════════════════════════════════
// CAMPUS STORE
// ══════════════════════════════════════════════════════════════════════════════

// Campus wires the campus collections onto a PostgreSQL connection.
// Empty tables are re-seeded on read, so a truncated table heals itself.
type Campus struct {
	conn *Connection
}

// NewCampus bootstraps the schema and seeds empty tables.
func NewCampus(ctx context.Context, conn *Connection) (*Campus, error) {
	c := &Campus{conn: conn}
	if err := conn.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := c.ensureStudents(ctx); err != nil {
		return nil, err
	}
	if err := c.ensureBuses(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Students returns the student repository view.
func (c *Campus) Students() student.Repository { return &studentRepository{campus: c} }

// Buses returns the transit repository view.
func (c *Campus) Buses() transit.Repository { return &busRepository{campus: c} }

// Sessions returns the remembered-identity view.
func (c *Campus) Sessions() *SessionStore { return &SessionStore{campus: c} }

func (c *Campus) ensureStudents(ctx context.Context) error {
	var count int
	if err := c.conn.QueryRow(ctx, "SELECT count(*) FROM campus_students").Scan(&count); err != nil {
		return fmt.Errorf("campus: count students: %w", err)
	}
	if count > 0 {
		return nil
	}

	students, err := seed.Students()
	if err != nil {
		return fmt.Errorf("campus: build student seed: %w", err)
	}
	for i, s := range students {
		doc, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("campus: marshal student %s: %w", s.ID, err)
		}
		_, err = c.conn.Exec(ctx, `
			INSERT INTO campus_students (id, position, doc)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, string(s.ID), i, doc)
		if err != nil {
			return fmt.Errorf("campus: seed student %s: %w", s.ID, err)
		}
	}
	return nil
}

func (c *Campus) ensureBuses(ctx context.Context) error {
	var count int
	if err := c.conn.QueryRow(ctx, "SELECT count(*) FROM campus_buses").Scan(&count); err != nil {
		return fmt.Errorf("campus: count buses: %w", err)
	}
	if count > 0 {
		return nil
	}

	buses, err := seed.Buses()
	if err != nil {
		return fmt.Errorf("campus: build bus seed: %w", err)
	}
	for i, b := range buses {
		doc, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("campus: marshal bus %s: %w", b.ID, err)
		}
		_, err = c.conn.Exec(ctx, `
			INSERT INTO campus_buses (id, position, doc)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, string(b.ID), i, doc)
		if err != nil {
			return fmt.Errorf("campus: seed bus %s: %w", b.ID, err)
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type studentRepository struct {
	campus *Campus
}

func (r *studentRepository) GetAll(ctx context.Context) ([]*student.Student, error) {
	if err := r.campus.ensureStudents(ctx); err != nil {
		return nil, err
	}

	rows, err := r.campus.conn.Query(ctx,
		"SELECT doc FROM campus_students ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("campus: list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("campus: scan student: %w", err)
		}
		var s student.Student
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, fmt.Errorf("campus: decode student: %w", err)
		}
		students = append(students, &s)
	}
	return students, rows.Err()
}

func (r *studentRepository) GetByID(ctx context.Context, id student.ID) (*student.Student, error) {
	var doc []byte
	err := r.campus.conn.QueryRow(ctx,
		"SELECT doc FROM campus_students WHERE id = $1", string(id)).Scan(&doc)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("campus: get student %s: %w", id, err)
	}

	var s student.Student
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("campus: decode student %s: %w", id, err)
	}
	return &s, nil
}

func (r *studentRepository) Update(ctx context.Context, s *student.Student) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("campus: marshal student %s: %w", s.ID, err)
	}

	tag, err := r.campus.conn.Exec(ctx,
		"UPDATE campus_students SET doc = $2 WHERE id = $1", string(s.ID), doc)
	if err != nil {
		return fmt.Errorf("campus: update student %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.campus.conn.QueryRow(ctx,
		"SELECT count(*) FROM campus_students").Scan(&count); err != nil {
		return 0, fmt.Errorf("campus: count students: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// BUS REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

type busRepository struct {
	campus *Campus
}

func (r *busRepository) GetAll(ctx context.Context) ([]*transit.Bus, error) {
	if err := r.campus.ensureBuses(ctx); err != nil {
		return nil, err
	}

	rows, err := r.campus.conn.Query(ctx,
		"SELECT doc FROM campus_buses ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("campus: list buses: %w", err)
	}
	defer rows.Close()

	var buses []*transit.Bus
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("campus: scan bus: %w", err)
		}
		var b transit.Bus
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("campus: decode bus: %w", err)
		}
		buses = append(buses, &b)
	}
	return buses, rows.Err()
}

func (r *busRepository) GetByID(ctx context.Context, id transit.ID) (*transit.Bus, error) {
	var doc []byte
	err := r.campus.conn.QueryRow(ctx,
		"SELECT doc FROM campus_buses WHERE id = $1", string(id)).Scan(&doc)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBusNotFound
		}
		return nil, fmt.Errorf("campus: get bus %s: %w", id, err)
	}

	var b transit.Bus
	if err := json.Unmarshal(doc, &b); err != nil {
		return nil, fmt.Errorf("campus: decode bus %s: %w", id, err)
	}
	return &b, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMEMBERED IDENTITY
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore persists the remembered student identifier in campus_kv.
type SessionStore struct {
	campus *Campus
}

func (s *SessionStore) SaveRemembered(ctx context.Context, id student.ID) error {
	_, err := s.campus.conn.Exec(ctx, `
		INSERT INTO campus_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, rememberedKey, string(id))
	if err != nil {
		return fmt.Errorf("campus: save remembered id: %w", err)
	}
	return nil
}

func (s *SessionStore) GetRemembered(ctx context.Context) (student.ID, error) {
	var val string
	err := s.campus.conn.QueryRow(ctx,
		"SELECT value FROM campus_kv WHERE key = $1", rememberedKey).Scan(&val)
	if err != nil {
		if IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("campus: get remembered id: %w", err)
	}
	return student.ID(val), nil
}

func (s *SessionStore) ClearRemembered(ctx context.Context) error {
	_, err := s.campus.conn.Exec(ctx,
		"DELETE FROM campus_kv WHERE key = $1", rememberedKey)
	if err != nil {
		return fmt.Errorf("campus: clear remembered id: %w", err)
	}
	return nil
}
