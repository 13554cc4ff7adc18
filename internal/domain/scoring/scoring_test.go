package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
)

func TestAssessRisk_WorkedExample(t *testing.T) {
	// marks {math:85, science:78, history:88, english:90, cs:95}, attendance 92:
	// weighted sum = 127.5 + 142.5 + 93.6 + 88 + 90 = 541.6; /6.2 = 87.354...
	// score = 87.354*0.65 + 92*0.35 = 88.980... -> 89.0
	marks := Marks{Math: 85, Science: 78, History: 88, English: 90, CS: 95}

	result, err := AssessRisk(marks, 92)
	require.NoError(t, err)

	assert.Equal(t, 89.0, result.Score)
	assert.Equal(t, RiskLow, result.Level)
}

func TestAssessRisk_Boundaries(t *testing.T) {
	perfect := Marks{Math: 100, Science: 100, History: 100, English: 100, CS: 100}
	result, err := AssessRisk(perfect, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, RiskLow, result.Level)

	zero := Marks{}
	result, err = AssessRisk(zero, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, RiskHigh, result.Level)
}

func TestRiskLevelForScore_BandsInclusiveOnUpperSide(t *testing.T) {
	assert.Equal(t, RiskHigh, RiskLevelForScore(0))
	assert.Equal(t, RiskHigh, RiskLevelForScore(49.9))
	assert.Equal(t, RiskMedium, RiskLevelForScore(50))
	assert.Equal(t, RiskMedium, RiskLevelForScore(74.9))
	assert.Equal(t, RiskLow, RiskLevelForScore(75))
	assert.Equal(t, RiskLow, RiskLevelForScore(100))
}

func TestAssessRisk_Deterministic(t *testing.T) {
	marks := Marks{Math: 62, Science: 58, History: 70, English: 80, CS: 65}

	first, err := AssessRisk(marks, 75)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := AssessRisk(marks, 75)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAssessRisk_ScoreWithinRange(t *testing.T) {
	cases := []struct {
		name       string
		marks      Marks
		attendance float64
	}{
		{"all zero", Marks{}, 0},
		{"all max", Marks{100, 100, 100, 100, 100}, 100},
		{"mixed", Marks{Math: 35, Science: 40, History: 55, English: 60, CS: 42}, 45},
		{"high attendance low marks", Marks{Math: 10, Science: 5, History: 0, English: 15, CS: 8}, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := AssessRisk(tc.marks, tc.attendance)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)
			assert.True(t, result.Level.IsValid())
		})
	}
}

func TestAssessRisk_Monotonicity(t *testing.T) {
	base := Marks{Math: 50, Science: 50, History: 50, English: 50, CS: 50}

	baseline, err := AssessRisk(base, 50)
	require.NoError(t, err)

	// Raising any single subject never decreases the score.
	raised := []Marks{
		{Math: 90, Science: 50, History: 50, English: 50, CS: 50},
		{Math: 50, Science: 90, History: 50, English: 50, CS: 50},
		{Math: 50, Science: 50, History: 90, English: 50, CS: 50},
		{Math: 50, Science: 50, History: 50, English: 90, CS: 50},
		{Math: 50, Science: 50, History: 50, English: 50, CS: 90},
	}
	for _, m := range raised {
		result, err := AssessRisk(m, 50)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, baseline.Score)
	}

	// Raising attendance never decreases the score.
	better, err := AssessRisk(base, 95)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, better.Score, baseline.Score)
}

func TestAssessRisk_RejectsOutOfRangeInputs(t *testing.T) {
	valid := Marks{Math: 50, Science: 50, History: 50, English: 50, CS: 50}

	_, err := AssessRisk(Marks{Math: 101, Science: 50, History: 50, English: 50, CS: 50}, 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	_, err = AssessRisk(Marks{Math: -1, Science: 50, History: 50, English: 50, CS: 50}, 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	_, err = AssessRisk(valid, 100.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	_, err = AssessRisk(valid, -0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}

func TestCrowdLevelFor(t *testing.T) {
	assert.Equal(t, CrowdHeavy, CrowdLevelFor(48, 50))  // 0.96
	assert.Equal(t, CrowdLow, CrowdLevelFor(12, 50))    // 0.24
	assert.Equal(t, CrowdMedium, CrowdLevelFor(25, 40)) // 0.625

	// Band boundaries.
	assert.Equal(t, CrowdMedium, CrowdLevelFor(25, 50)) // exactly 0.5
	assert.Equal(t, CrowdHeavy, CrowdLevelFor(40, 50))  // exactly 0.8

	// No clamping: over-capacity is Heavy.
	assert.Equal(t, CrowdHeavy, CrowdLevelFor(60, 50))
}

func TestCrowdLevelFor_GuardsZeroCapacity(t *testing.T) {
	assert.Equal(t, CrowdLow, CrowdLevelFor(10, 0))
	assert.Equal(t, CrowdLow, CrowdLevelFor(10, -5))
}

func TestMarksWeightedAverage(t *testing.T) {
	marks := Marks{Math: 85, Science: 78, History: 88, English: 90, CS: 95}
	assert.InDelta(t, 541.6/6.2, marks.WeightedAverage(), 1e-9)
}
