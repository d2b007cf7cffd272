package domain

import "time"

// SafetyGrade is the letter grade derived from the overall safety score.
type SafetyGrade string

const (
	GradeA SafetyGrade = "A"
	GradeB SafetyGrade = "B"
	GradeC SafetyGrade = "C"
	GradeD SafetyGrade = "D"
	GradeF SafetyGrade = "F"
)

// StaffSafetyScore is a periodic snapshot of a staff member's weighted
// safety standing. The latest row per staff member is authoritative.
type StaffSafetyScore struct {
	ID                      string
	StaffEmail              string
	CalculationDate         time.Time
	OverallSafetyScore      float64
	SafetyGrade             SafetyGrade
	TrainingCompletionScore float64
	CCPAccuracyPercentage   float64
	MissedChecksPercentage  float64
	IncidentInvolvement     float64
	TotalIncidents          int
	CriticalIncidents       int
	MajorIncidents          int
	MinorIncidents          int
	PromotionReady          bool
	ShiftLeaderEligible     bool
	ExtraTrainingRequired   bool
	CreatedAt               time.Time
}
