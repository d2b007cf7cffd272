package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/gating"
)

// AccessDecisionResponse describes the guard verdict for a page.
type AccessDecisionResponse struct {
	Page          string                 `json:"page"`
	Decision      gating.DecisionKind    `json:"decision"`
	RedirectTo    string                 `json:"redirect_to,omitempty"`
	RequiredRoles []domain.Role          `json:"required_roles,omitempty"`
	ActualRole    domain.Role            `json:"actual_role,omitempty"`
	RequiredModes []domain.OperatingMode `json:"required_modes,omitempty"`
	SuggestedMode domain.OperatingMode   `json:"suggested_mode,omitempty"`
	CurrentMode   domain.OperatingMode   `json:"current_mode"`
}

// ModeResponse is the current session mode.
type ModeResponse struct {
	Mode domain.OperatingMode `json:"mode"`
}

// SwitchModeRequest payload.
type SwitchModeRequest struct {
	Mode domain.OperatingMode `json:"mode"`
}

// CreateCCPRequest payload.
type CreateCCPRequest struct {
	Name string `json:"name"`
}

// CCPResponse is a control point.
type CCPResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// RecordCheckRequest payload for submitting a check.
type RecordCheckRequest struct {
	Status            domain.CheckStatus        `json:"status"`
	RecordedValue     string                    `json:"recorded_value"`
	CriticalLimit     string                    `json:"critical_limit"`
	BlockedMenuItems  []string                  `json:"blocked_menu_items"`
	CorrectiveActions []domain.CorrectiveAction `json:"corrective_actions"`
}

// CheckResponse is a recorded check row.
type CheckResponse struct {
	ID                string                    `json:"id"`
	CCPID             string                    `json:"ccp_id"`
	CheckDate         string                    `json:"check_date"`
	Status            domain.CheckStatus        `json:"status"`
	RecordedValue     string                    `json:"recorded_value"`
	CriticalLimit     string                    `json:"critical_limit"`
	BlockedMenuItems  []string                  `json:"blocked_menu_items"`
	CorrectiveActions []domain.CorrectiveAction `json:"corrective_actions"`
	RecordedBy        string                    `json:"recorded_by"`
}

// ServiceStatusResponse is the evaluated lockdown state.
type ServiceStatusResponse struct {
	ServiceLocked    bool               `json:"service_locked"`
	Tier             gating.DisplayTier `json:"tier"`
	BlockedMenuItems []string           `json:"blocked_menu_items"`
	Failed           []CheckResponse    `json:"failed"`
	PassedCount      int                `json:"passed_count"`
	Pending          []CCPResponse      `json:"pending"`
}

// JourneyResponse is the journey state plus unlocks.
type JourneyResponse struct {
	StaffEmail          string          `json:"staff_email"`
	InvitationAccepted  bool            `json:"invitation_accepted"`
	VisionWatched       bool            `json:"vision_watched"`
	ValuesCompleted     bool            `json:"values_completed"`
	RavingFansCompleted bool            `json:"raving_fans_completed"`
	SkillsCompleted     bool            `json:"skills_completed"`
	HygieneCompleted    bool            `json:"hygiene_completed"`
	Certified           bool            `json:"certified"`
	CertificateIssuedAt *time.Time      `json:"certificate_issued_at,omitempty"`
	CurrentStep         string          `json:"current_step"`
	Unlocks             map[string]bool `json:"unlocks"`
}

// AcknowledgeRequest payload.
type AcknowledgeRequest struct {
	Kind      domain.AcknowledgementKind `json:"kind"`
	Reference string                     `json:"reference"`
}

// ResetJourneyRequest payload.
type ResetJourneyRequest struct {
	StaffEmail string `json:"staff_email"`
}

// SafetyScoreResponse is the latest snapshot, or absent.
type SafetyScoreResponse struct {
	StaffEmail              string             `json:"staff_email"`
	CalculationDate         time.Time          `json:"calculation_date"`
	OverallSafetyScore      float64            `json:"overall_safety_score"`
	SafetyGrade             domain.SafetyGrade `json:"safety_grade"`
	TrainingCompletionScore float64            `json:"training_completion_score"`
	CCPAccuracyPercentage   float64            `json:"ccp_accuracy_percentage"`
	MissedChecksPercentage  float64            `json:"missed_checks_percentage"`
	IncidentInvolvement     float64            `json:"incident_involvement_score"`
	TotalIncidents          int                `json:"total_incidents"`
	CriticalIncidents       int                `json:"critical_incidents"`
	MajorIncidents          int                `json:"major_incidents"`
	MinorIncidents          int                `json:"minor_incidents"`
	PromotionReady          bool               `json:"promotion_ready"`
	ShiftLeaderEligible     bool               `json:"shift_leader_eligible"`
	ExtraTrainingRequired   bool               `json:"extra_training_required"`
}

// RecomputeScoreRequest carries the raw tallies for a recompute.
type RecomputeScoreRequest struct {
	CoursesCompleted  int `json:"courses_completed"`
	CoursesRequired   int `json:"courses_required"`
	ChecksPassed      int `json:"checks_passed"`
	ChecksPerformed   int `json:"checks_performed"`
	MissedChecks      int `json:"missed_checks"`
	ScheduledChecks   int `json:"scheduled_checks"`
	CriticalIncidents int `json:"critical_incidents"`
	MajorIncidents    int `json:"major_incidents"`
	MinorIncidents    int `json:"minor_incidents"`
}

// QuizStateRequest payload for saving quiz progress.
type QuizStateRequest struct {
	QuestionIndex int            `json:"question_index"`
	Answers       map[string]int `json:"answers"`
}
