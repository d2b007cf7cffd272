package domain

import "time"

// CheckStatus enumerates CCP check outcomes.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// CriticalControlPoint is a monitored food-safety parameter whose failure
// can halt service. Created and retired by managers; long-lived.
type CriticalControlPoint struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CorrectiveAction records a remediation step triggered by a failed check.
type CorrectiveAction struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

// CCPCheck is one check event against a CCP. Rows are immutable once
// written; corrections are new rows for the same CCP and date.
type CCPCheck struct {
	ID                string
	CCPID             string
	CheckDate         time.Time
	Status            CheckStatus
	RecordedValue     string
	CriticalLimit     string
	BlockedMenuItems  []string
	CorrectiveActions []CorrectiveAction
	RecordedBy        string
	CreatedAt         time.Time
}
