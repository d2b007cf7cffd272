package gating

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// SafetyPolicy holds the tunable weights behind the safety score. Incident
// weights and component weights are policy choices; the defaults below are
// what the restaurant runs with unless overridden through config.
type SafetyPolicy struct {
	CriticalIncidentWeight float64
	MajorIncidentWeight    float64
	MinorIncidentWeight    float64

	TrainingWeight float64
	AccuracyWeight float64
	MissedWeight   float64
	IncidentWeight float64

	// PromotionMinGrade is the weakest grade still eligible for promotion.
	// The zero-incident floor on promotion is fixed, not configurable.
	PromotionMinGrade domain.SafetyGrade
}

// DefaultSafetyPolicy returns the production weights.
func DefaultSafetyPolicy() SafetyPolicy {
	return SafetyPolicy{
		CriticalIncidentWeight: 25,
		MajorIncidentWeight:    10,
		MinorIncidentWeight:    3,
		TrainingWeight:         0.35,
		AccuracyWeight:         0.30,
		MissedWeight:           0.20,
		IncidentWeight:         0.15,
		PromotionMinGrade:      domain.GradeB,
	}
}

// SafetyInputs are the raw tallies the score derives from.
type SafetyInputs struct {
	CoursesCompleted  int
	CoursesRequired   int
	ChecksPassed      int
	ChecksPerformed   int
	MissedChecks      int
	ScheduledChecks   int
	CriticalIncidents int
	MajorIncidents    int
	MinorIncidents    int
}

// DeriveSafetyScore computes a snapshot from raw inputs under a policy.
// No checks performed counts as full accuracy credit; no courses required
// counts as zero training credit.
func DeriveSafetyScore(staffEmail string, inputs SafetyInputs, policy SafetyPolicy, now time.Time) domain.StaffSafetyScore {
	training := ratio(inputs.CoursesCompleted, inputs.CoursesRequired, 0)
	accuracy := ratio(inputs.ChecksPassed, inputs.ChecksPerformed, 100)
	missed := ratio(inputs.MissedChecks, inputs.ScheduledChecks, 0)

	incidentPenalty := policy.CriticalIncidentWeight*float64(inputs.CriticalIncidents) +
		policy.MajorIncidentWeight*float64(inputs.MajorIncidents) +
		policy.MinorIncidentWeight*float64(inputs.MinorIncidents)
	incident := clamp(100 - incidentPenalty)

	overall := clamp(policy.TrainingWeight*training +
		policy.AccuracyWeight*accuracy +
		policy.MissedWeight*(100-missed) +
		policy.IncidentWeight*incident)

	grade := GradeForScore(overall)
	totalIncidents := inputs.CriticalIncidents + inputs.MajorIncidents + inputs.MinorIncidents

	return domain.StaffSafetyScore{
		StaffEmail:              staffEmail,
		CalculationDate:         now,
		OverallSafetyScore:      overall,
		SafetyGrade:             grade,
		TrainingCompletionScore: training,
		CCPAccuracyPercentage:   accuracy,
		MissedChecksPercentage:  missed,
		IncidentInvolvement:     incident,
		TotalIncidents:          totalIncidents,
		CriticalIncidents:       inputs.CriticalIncidents,
		MajorIncidents:          inputs.MajorIncidents,
		MinorIncidents:          inputs.MinorIncidents,
		PromotionReady:          gradeAtLeast(grade, policy.PromotionMinGrade) && totalIncidents == 0,
		ShiftLeaderEligible:     grade == domain.GradeA && inputs.CriticalIncidents == 0 && inputs.MajorIncidents == 0,
		ExtraTrainingRequired:   grade == domain.GradeD || grade == domain.GradeF || training < 100,
	}
}

// GradeForScore maps an overall score to its letter grade. Band lower
// bounds are inclusive.
func GradeForScore(score float64) domain.SafetyGrade {
	switch {
	case score >= 90:
		return domain.GradeA
	case score >= 75:
		return domain.GradeB
	case score >= 60:
		return domain.GradeC
	case score >= 40:
		return domain.GradeD
	}
	return domain.GradeF
}

var gradeRank = map[domain.SafetyGrade]int{
	domain.GradeA: 5,
	domain.GradeB: 4,
	domain.GradeC: 3,
	domain.GradeD: 2,
	domain.GradeF: 1,
}

func gradeAtLeast(grade, min domain.SafetyGrade) bool {
	return gradeRank[grade] >= gradeRank[min]
}

func ratio(numerator, denominator int, whenUndefined float64) float64 {
	if denominator == 0 {
		return whenUndefined
	}
	return clamp(100 * float64(numerator) / float64(denominator))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
