package events

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCheckRecorded   EventType = "ccp_check_recorded"
	EventServiceLocked   EventType = "service_locked"
	EventServiceCleared  EventType = "service_cleared"
	EventStaffCertified  EventType = "staff_certified"
	EventJourneyReset    EventType = "journey_reset"
	EventScoreRecomputed EventType = "safety_score_recomputed"
	EventModeSwitched    EventType = "mode_switched"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ActorEmail string      `json:"actor_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CheckRecordedPayload payload.
type CheckRecordedPayload struct {
	CheckID          string             `json:"check_id"`
	CCPID            string             `json:"ccp_id"`
	CCPName          string             `json:"ccp_name"`
	Status           domain.CheckStatus `json:"status"`
	BlockedMenuItems []string           `json:"blocked_menu_items,omitempty"`
}

// ServiceLockedPayload payload.
type ServiceLockedPayload struct {
	FailedCount      int      `json:"failed_count"`
	BlockedMenuItems []string `json:"blocked_menu_items"`
}

// ServiceClearedPayload payload.
type ServiceClearedPayload struct {
	PendingCount int `json:"pending_count"`
}

// StaffCertifiedPayload payload.
type StaffCertifiedPayload struct {
	StaffEmail string    `json:"staff_email"`
	IssuedAt   time.Time `json:"issued_at"`
}

// JourneyResetPayload payload.
type JourneyResetPayload struct {
	StaffEmail string `json:"staff_email"`
	ResetBy    string `json:"reset_by"`
}

// ScoreRecomputedPayload payload.
type ScoreRecomputedPayload struct {
	StaffEmail string             `json:"staff_email"`
	Score      float64            `json:"score"`
	Grade      domain.SafetyGrade `json:"grade"`
}

// ModeSwitchedPayload payload.
type ModeSwitchedPayload struct {
	OldMode domain.OperatingMode `json:"old_mode"`
	NewMode domain.OperatingMode `json:"new_mode"`
}
