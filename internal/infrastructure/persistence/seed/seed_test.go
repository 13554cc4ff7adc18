package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
)

func TestStudents(t *testing.T) {
	students, err := Students()
	require.NoError(t, err)
	require.Len(t, students, 5)

	byID := make(map[string]int, len(students))
	for i, s := range students {
		byID[string(s.ID)] = i
	}
	require.Contains(t, byID, "S001")
	require.Contains(t, byID, "S005")

	alex := students[byID["S001"]]
	assert.Equal(t, "Alex Johnson", alex.Name)
	assert.InDelta(t, 89.0, alex.RiskScore, 1e-9)
	assert.Equal(t, scoring.RiskLow, alex.RiskLevel)

	liam := students[byID["S003"]]
	assert.Equal(t, scoring.RiskHigh, liam.RiskLevel)
	assert.True(t, liam.IsAtRisk())

	sarah := students[byID["S004"]]
	assert.Equal(t, scoring.RiskLow, sarah.RiskLevel)
	assert.False(t, sarah.HasOverdueDues())
}

func TestBuses(t *testing.T) {
	buses, err := Buses()
	require.NoError(t, err)
	require.Len(t, buses, 4)

	byID := make(map[string]*transit.Bus, len(buses))
	for _, b := range buses {
		byID[string(b.ID)] = b
	}

	assert.Equal(t, scoring.CrowdLow, byID["B101"].CrowdLevel)
	assert.Equal(t, scoring.CrowdHeavy, byID["B102"].CrowdLevel)
	assert.Equal(t, scoring.CrowdMedium, byID["B103"].CrowdLevel)
	assert.Equal(t, scoring.CrowdHeavy, byID["B104"].CrowdLevel)
	assert.Equal(t, transit.StatusDelayed, byID["B102"].Status)
}

func TestSeedIsFreshPerCall(t *testing.T) {
	a, err := Students()
	require.NoError(t, err)
	b, err := Students()
	require.NoError(t, err)

	a[0].Name = "mutated"
	assert.NotEqual(t, a[0].Name, b[0].Name)
}
