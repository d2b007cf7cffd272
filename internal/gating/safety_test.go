package gating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func TestGradeForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.SafetyGrade
	}{
		{100, domain.GradeA},
		{90, domain.GradeA},
		{89.999, domain.GradeB},
		{75, domain.GradeB},
		{74.999, domain.GradeC},
		{60, domain.GradeC},
		{59.999, domain.GradeD},
		{40, domain.GradeD},
		{39.999, domain.GradeF},
		{0, domain.GradeF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeForScore(tt.score), "score %v", tt.score)
	}
}

func TestDeriveSafetyScorePerfectRecord(t *testing.T) {
	now := time.Now()
	score := DeriveSafetyScore("ana@example.com", SafetyInputs{
		CoursesCompleted: 8,
		CoursesRequired:  8,
		ChecksPassed:     40,
		ChecksPerformed:  40,
		MissedChecks:     0,
		ScheduledChecks:  40,
	}, DefaultSafetyPolicy(), now)

	assert.Equal(t, 100.0, score.OverallSafetyScore)
	assert.Equal(t, domain.GradeA, score.SafetyGrade)
	assert.True(t, score.PromotionReady)
	assert.True(t, score.ShiftLeaderEligible)
	assert.False(t, score.ExtraTrainingRequired)
	assert.Equal(t, now, score.CalculationDate)
}

func TestDeriveSafetyScoreZeroDenominators(t *testing.T) {
	score := DeriveSafetyScore("new@example.com", SafetyInputs{}, DefaultSafetyPolicy(), time.Now())

	assert.Equal(t, 0.0, score.TrainingCompletionScore, "no required courses gives no training credit")
	assert.Equal(t, 100.0, score.CCPAccuracyPercentage, "no checks performed gives full accuracy credit")
	assert.Equal(t, 0.0, score.MissedChecksPercentage)
	assert.Equal(t, 100.0, score.IncidentInvolvement)
	assert.True(t, score.ExtraTrainingRequired, "incomplete training always flags extra training")
}

func TestDeriveSafetyScoreIncidentsMonotonic(t *testing.T) {
	policy := DefaultSafetyPolicy()
	base := SafetyInputs{
		CoursesCompleted: 8, CoursesRequired: 8,
		ChecksPassed: 40, ChecksPerformed: 40,
		ScheduledChecks: 40,
	}

	prev := DeriveSafetyScore("a@example.com", base, policy, time.Now())
	worsening := []SafetyInputs{
		{MinorIncidents: 1}, {MinorIncidents: 3}, {MajorIncidents: 1},
		{MajorIncidents: 2}, {CriticalIncidents: 1}, {CriticalIncidents: 2},
		{CriticalIncidents: 2, MajorIncidents: 2, MinorIncidents: 5},
	}
	for _, extra := range worsening {
		inputs := base
		inputs.CriticalIncidents = extra.CriticalIncidents
		inputs.MajorIncidents = extra.MajorIncidents
		inputs.MinorIncidents = extra.MinorIncidents
		next := DeriveSafetyScore("a@example.com", inputs, policy, time.Now())
		assert.LessOrEqual(t, next.IncidentInvolvement, prev.IncidentInvolvement,
			"incident score must never increase with more incidents: %+v", extra)
		assert.LessOrEqual(t, next.OverallSafetyScore, prev.OverallSafetyScore)
	}
}

func TestDeriveSafetyScorePromotionFloor(t *testing.T) {
	policy := DefaultSafetyPolicy()
	inputs := SafetyInputs{
		CoursesCompleted: 8, CoursesRequired: 8,
		ChecksPassed: 40, ChecksPerformed: 40,
		ScheduledChecks: 40,
		MinorIncidents:  1,
	}

	score := DeriveSafetyScore("b@example.com", inputs, policy, time.Now())
	// One minor incident barely moves the score but blocks promotion outright.
	assert.GreaterOrEqual(t, score.OverallSafetyScore, 90.0)
	assert.False(t, score.PromotionReady)
}

func TestDeriveSafetyScoreGradeMatchesScore(t *testing.T) {
	policy := DefaultSafetyPolicy()
	cases := []SafetyInputs{
		{CoursesRequired: 8},
		{CoursesCompleted: 4, CoursesRequired: 8, ChecksPassed: 10, ChecksPerformed: 20, MissedChecks: 5, ScheduledChecks: 20},
		{CoursesCompleted: 8, CoursesRequired: 8, ChecksPassed: 38, ChecksPerformed: 40, ScheduledChecks: 40, MajorIncidents: 1},
		{CriticalIncidents: 4},
	}
	for _, inputs := range cases {
		score := DeriveSafetyScore("c@example.com", inputs, policy, time.Now())
		assert.Equal(t, GradeForScore(score.OverallSafetyScore), score.SafetyGrade)
		assert.GreaterOrEqual(t, score.OverallSafetyScore, 0.0)
		assert.LessOrEqual(t, score.OverallSafetyScore, 100.0)
	}
}

func TestDeriveSafetyScoreExtraTrainingOnLowGrade(t *testing.T) {
	score := DeriveSafetyScore("d@example.com", SafetyInputs{
		CoursesCompleted: 8, CoursesRequired: 8,
		ChecksPassed: 2, ChecksPerformed: 20,
		MissedChecks: 15, ScheduledChecks: 20,
		CriticalIncidents: 2,
	}, DefaultSafetyPolicy(), time.Now())

	assert.Contains(t, []domain.SafetyGrade{domain.GradeD, domain.GradeF}, score.SafetyGrade)
	assert.True(t, score.ExtraTrainingRequired)
	assert.False(t, score.PromotionReady)
}
