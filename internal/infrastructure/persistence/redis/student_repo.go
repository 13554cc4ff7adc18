package redis

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

// studentRepository implements student.Repository on the campus store.
// The whole collection travels as one document, so writes are
// read-modify-write over the full student list.
type studentRepository struct {
	campus *Campus
}

func (r *studentRepository) GetAll(ctx context.Context) ([]*student.Student, error) {
	return r.campus.loadStudents(ctx)
}

func (r *studentRepository) GetByID(ctx context.Context, id student.ID) (*student.Student, error) {
	students, err := r.campus.loadStudents(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (r *studentRepository) Update(ctx context.Context, updated *student.Student) error {
	students, err := r.campus.loadStudents(ctx)
	if err != nil {
		return err
	}

	found := false
	for i, s := range students {
		if s.ID == updated.ID {
			students[i] = updated
			found = true
			break
		}
	}
	if !found {
		return shared.ErrStudentNotFound
	}

	return r.campus.saveStudents(ctx, students)
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	students, err := r.campus.loadStudents(ctx)
	if err != nil {
		return 0, err
	}
	return len(students), nil
}
