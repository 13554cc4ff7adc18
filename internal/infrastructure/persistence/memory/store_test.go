package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/student"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore()
	require.NoError(t, err)
	return s
}

func TestStudentRepository_GetAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Students().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 5)

	// Чтение не должно менять хранилище.
	second, err := store.Students().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, first[0].ID, second[0].ID)

	// Мутация результата не должна протекать в хранилище.
	first[0].Name = "mutated"
	fresh, err := store.Students().GetByID(ctx, first[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh.Name)
}

func TestStudentRepository_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Students()

	s, err := repo.GetByID(ctx, "S003")
	require.NoError(t, err)
	require.Equal(t, scoring.RiskHigh, s.RiskLevel)

	err = s.ApplyAcademics(scoring.Marks{Math: 90, Science: 92, History: 88, English: 91, CS: 94}, 95)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, "S003")
	require.NoError(t, err)
	assert.Equal(t, scoring.RiskLow, got.RiskLevel)
	assert.Equal(t, s.RiskScore, got.RiskScore)
}

func TestStudentRepository_UpdateMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ghost, err := student.New(student.NewStudentParams{
		ID:         "S999",
		Name:       "Nobody Here",
		Attendance: 50,
		Marks:      scoring.Marks{Math: 50, Science: 50, History: 50, English: 50, CS: 50},
	})
	require.NoError(t, err)

	err = store.Students().Update(ctx, ghost)
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)

	_, err = store.Students().GetByID(ctx, "S999")
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestBusRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	buses, err := store.Buses().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, buses, 4)

	b, err := store.Buses().GetByID(ctx, "B102")
	require.NoError(t, err)
	assert.Equal(t, scoring.CrowdHeavy, b.CrowdLevel)

	_, err = store.Buses().GetByID(ctx, "B999")
	assert.ErrorIs(t, err, shared.ErrBusNotFound)
}

func TestSessionStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sessions := store.Sessions()

	id, err := sessions.GetRemembered(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, sessions.SaveRemembered(ctx, "S001"))
	id, err = sessions.GetRemembered(ctx)
	require.NoError(t, err)
	assert.Equal(t, student.ID("S001"), id)

	require.NoError(t, sessions.ClearRemembered(ctx))
	id, err = sessions.GetRemembered(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)
}
