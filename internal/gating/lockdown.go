package gating

import (
	"sort"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// DisplayTier is the banner level the service-status view should render.
type DisplayTier string

const (
	TierLockdown    DisplayTier = "lockdown"
	TierPendingOnly DisplayTier = "pending_only"
	TierClear       DisplayTier = "clear"
)

// LockdownStatus is the evaluated CCP state for a single day.
type LockdownStatus struct {
	Failed           []domain.CCPCheck
	Passed           []domain.CCPCheck
	Pending          []domain.CriticalControlPoint
	BlockedMenuItems []string
	ServiceLocked    bool
	Tier             DisplayTier
}

// EvaluateLockdown computes the lockdown state from today's checks and the
// currently active CCPs. Any failed check locks service, no matter how many
// checks passed or remain pending. A CCP is pending only if it has no check
// row at all today. Pure function; callers own the refetch cadence.
func EvaluateLockdown(active []domain.CriticalControlPoint, todaysChecks []domain.CCPCheck) LockdownStatus {
	status := LockdownStatus{
		Failed:  []domain.CCPCheck{},
		Passed:  []domain.CCPCheck{},
		Pending: []domain.CriticalControlPoint{},
	}

	checked := make(map[string]struct{}, len(todaysChecks))
	blocked := make(map[string]struct{})

	for _, check := range todaysChecks {
		checked[check.CCPID] = struct{}{}
		switch check.Status {
		case domain.CheckStatusFail:
			status.Failed = append(status.Failed, check)
			for _, item := range check.BlockedMenuItems {
				blocked[item] = struct{}{}
			}
		default:
			status.Passed = append(status.Passed, check)
		}
	}

	for _, ccp := range active {
		if _, touched := checked[ccp.ID]; !touched {
			status.Pending = append(status.Pending, ccp)
		}
	}

	status.BlockedMenuItems = make([]string, 0, len(blocked))
	for item := range blocked {
		status.BlockedMenuItems = append(status.BlockedMenuItems, item)
	}
	sort.Strings(status.BlockedMenuItems)

	status.ServiceLocked = len(status.Failed) > 0

	switch {
	case status.ServiceLocked:
		status.Tier = TierLockdown
	case len(status.Pending) > 0:
		status.Tier = TierPendingOnly
	default:
		status.Tier = TierClear
	}

	return status
}
