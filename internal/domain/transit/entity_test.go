package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
)

func validParams() NewBusParams {
	return NewBusParams{
		ID:               "B101",
		Route:            "Route A - Downtown",
		Capacity:         50,
		CurrentOccupancy: 12,
		Status:           StatusOnTime,
		NextStop:         "Central Library",
	}
}

func TestNew_ComputesCrowdLevel(t *testing.T) {
	b, err := New(validParams())
	require.NoError(t, err)
	assert.Equal(t, scoring.CrowdLow, b.CrowdLevel)

	p := validParams()
	p.CurrentOccupancy = 48
	b, err = New(p)
	require.NoError(t, err)
	assert.Equal(t, scoring.CrowdHeavy, b.CrowdLevel)
	assert.True(t, b.IsCrowded())
}

func TestNew_Validation(t *testing.T) {
	p := validParams()
	p.ID = ""
	_, err := New(p)
	assert.ErrorIs(t, err, ErrInvalidID)

	p = validParams()
	p.Capacity = 0
	_, err = New(p)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	p = validParams()
	p.CurrentOccupancy = -1
	_, err = New(p)
	assert.ErrorIs(t, err, ErrNegativeOccupancy)

	p = validParams()
	p.Status = "Lost"
	_, err = New(p)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApplyOccupancy(t *testing.T) {
	b, err := New(validParams())
	require.NoError(t, err)

	require.NoError(t, b.ApplyOccupancy(40))
	assert.Equal(t, scoring.CrowdHeavy, b.CrowdLevel)

	// Over-capacity is allowed, ratio exceeds 1.
	require.NoError(t, b.ApplyOccupancy(60))
	assert.Equal(t, scoring.CrowdHeavy, b.CrowdLevel)
	assert.Greater(t, b.OccupancyRatio(), 1.0)

	assert.ErrorIs(t, b.ApplyOccupancy(-3), ErrNegativeOccupancy)
}
