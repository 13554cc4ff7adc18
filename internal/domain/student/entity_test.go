package student

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/scoring"
)

func validParams() NewStudentParams {
	return NewStudentParams{
		ID:         "S001",
		Name:       "Alex Johnson",
		Attendance: 92,
		Marks:      scoring.Marks{Math: 85, Science: 78, History: 88, English: 90, CS: 95},
		Dues: []AcademicDue{
			{ID: "D1", Category: "Tuition Fee", Amount: 1500, DueDate: "2025-05-15", Status: DuePending},
		},
		PerformanceHistory: []TermGPA{
			{Term: "Sem 1", GPA: 3.1},
			{Term: "Current", GPA: 3.8},
		},
	}
}

func TestNew_ComputesDerivedFields(t *testing.T) {
	s, err := New(validParams())
	require.NoError(t, err)

	assert.Equal(t, 89.0, s.RiskScore)
	assert.Equal(t, scoring.RiskLow, s.RiskLevel)
	assert.False(t, s.IsAtRisk())
}

func TestNew_Validation(t *testing.T) {
	p := validParams()
	p.ID = "  "
	_, err := New(p)
	assert.ErrorIs(t, err, ErrInvalidID)

	p = validParams()
	p.Name = ""
	_, err = New(p)
	assert.ErrorIs(t, err, ErrInvalidName)

	p = validParams()
	p.Dues = []AcademicDue{{ID: "D9", Category: "Fine", Amount: -5, Status: DuePaid}}
	_, err = New(p)
	assert.Error(t, err)

	p = validParams()
	p.Marks.Math = 250
	_, err = New(p)
	assert.Error(t, err)
}

func TestApplyAcademics_KeepsRiskConsistent(t *testing.T) {
	s, err := New(validParams())
	require.NoError(t, err)

	low := scoring.Marks{Math: 35, Science: 40, History: 55, English: 60, CS: 42}
	require.NoError(t, s.ApplyAcademics(low, 45))

	want, err := scoring.AssessRisk(low, 45)
	require.NoError(t, err)
	assert.Equal(t, want.Score, s.RiskScore)
	assert.Equal(t, want.Level, s.RiskLevel)
	assert.True(t, s.IsAtRisk())

	// Rejected input leaves the record untouched.
	before := s.Clone()
	err = s.ApplyAcademics(scoring.Marks{Math: -1}, 45)
	require.Error(t, err)
	assert.Equal(t, before, s)
}

func TestIDConventions(t *testing.T) {
	assert.True(t, ID("S001").IsWellFormed())
	assert.True(t, ID("S12345").IsWellFormed())
	assert.False(t, ID("X001").IsWellFormed())
	assert.False(t, ID("S").IsWellFormed())
	assert.False(t, ID("S00A").IsWellFormed())

	// The convention is not enforced: any non-empty id is valid.
	assert.True(t, ID("X001").IsValid())
	assert.False(t, ID("   ").IsValid())

	assert.Equal(t, ID("S001"), Normalize("  s001 "))
}

func TestOutstandingAmount(t *testing.T) {
	p := validParams()
	p.Dues = []AcademicDue{
		{ID: "D1", Category: "Tuition Fee", Amount: 1500, DueDate: "2025-05-15", Status: DuePending},
		{ID: "D2", Category: "Library Fine", Amount: 25, DueDate: "2025-04-10", Status: DueOverdue},
		{ID: "D3", Category: "Lab Charges", Amount: 200, DueDate: "2025-06-01", Status: DuePaid},
	}

	s, err := New(p)
	require.NoError(t, err)

	assert.Equal(t, 1525.0, s.OutstandingAmount())
	assert.True(t, s.HasOverdueDues())
}

func TestClone_IsDeep(t *testing.T) {
	s, err := New(validParams())
	require.NoError(t, err)

	clone := s.Clone()
	clone.Dues[0].Amount = 9999
	clone.PerformanceHistory[0].GPA = 0.1

	assert.Equal(t, 1500.0, s.Dues[0].Amount)
	assert.Equal(t, 3.1, s.PerformanceHistory[0].GPA)
}

func TestStudentJSONShape(t *testing.T) {
	s, err := New(validParams())
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	// The persisted field names are part of the storage contract.
	for _, key := range []string{"id", "name", "attendance", "marks", "riskLevel", "riskScore", "dues", "performanceHistory"} {
		assert.Contains(t, doc, key)
	}

	marks, ok := doc["marks"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"math", "science", "history", "english", "cs"} {
		assert.Contains(t, marks, key)
	}
}
