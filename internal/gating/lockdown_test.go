package gating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func ccp(id, name string) domain.CriticalControlPoint {
	return domain.CriticalControlPoint{ID: id, Name: name, IsActive: true}
}

func check(ccpID string, status domain.CheckStatus, blocked ...string) domain.CCPCheck {
	return domain.CCPCheck{CCPID: ccpID, Status: status, BlockedMenuItems: blocked}
}

func TestEvaluateLockdownSingleFailure(t *testing.T) {
	active := []domain.CriticalControlPoint{ccp("1", "Fridge Temp")}
	checks := []domain.CCPCheck{check("1", domain.CheckStatusFail, "Chicken Curry")}

	status := EvaluateLockdown(active, checks)

	assert.True(t, status.ServiceLocked)
	assert.Equal(t, []string{"Chicken Curry"}, status.BlockedMenuItems)
	assert.Empty(t, status.Pending)
	assert.Equal(t, TierLockdown, status.Tier)
}

func TestEvaluateLockdownAnyFailureLocks(t *testing.T) {
	active := []domain.CriticalControlPoint{ccp("1", "Fridge Temp"), ccp("2", "Hot Hold"), ccp("3", "Dish Rinse")}
	checks := []domain.CCPCheck{
		check("1", domain.CheckStatusPass),
		check("2", domain.CheckStatusPass),
		check("3", domain.CheckStatusFail, "Soup", "Stew"),
	}

	status := EvaluateLockdown(active, checks)

	assert.True(t, status.ServiceLocked, "one failure locks service regardless of passes")
	assert.Len(t, status.Passed, 2)
	assert.Len(t, status.Failed, 1)
	assert.Equal(t, []string{"Soup", "Stew"}, status.BlockedMenuItems)
}

func TestEvaluateLockdownBlockedMenuUnion(t *testing.T) {
	checks := []domain.CCPCheck{
		check("1", domain.CheckStatusFail, "Soup", "Chicken Curry"),
		check("2", domain.CheckStatusFail, "Chicken Curry", "Lamb Rogan"),
	}

	status := EvaluateLockdown(nil, checks)

	assert.Equal(t, []string{"Chicken Curry", "Lamb Rogan", "Soup"}, status.BlockedMenuItems)
}

func TestEvaluateLockdownPending(t *testing.T) {
	active := []domain.CriticalControlPoint{ccp("1", "Fridge Temp"), ccp("2", "Hot Hold"), ccp("3", "Dish Rinse")}

	t.Run("untouched CCPs are pending", func(t *testing.T) {
		status := EvaluateLockdown(active, []domain.CCPCheck{check("1", domain.CheckStatusPass)})
		require.Len(t, status.Pending, 2)
		assert.False(t, status.ServiceLocked)
		assert.Equal(t, TierPendingOnly, status.Tier)
	})

	t.Run("a failed check still counts as touched", func(t *testing.T) {
		status := EvaluateLockdown(active, []domain.CCPCheck{
			check("1", domain.CheckStatusPass),
			check("2", domain.CheckStatusFail),
			check("3", domain.CheckStatusPass),
		})
		assert.Empty(t, status.Pending)
	})

	t.Run("no checks at all", func(t *testing.T) {
		status := EvaluateLockdown(active, nil)
		assert.Len(t, status.Pending, 3)
		assert.False(t, status.ServiceLocked)
	})
}

func TestEvaluateLockdownFailureWithoutBlockedItems(t *testing.T) {
	status := EvaluateLockdown(nil, []domain.CCPCheck{check("1", domain.CheckStatusFail)})

	assert.True(t, status.ServiceLocked, "missing blocked_menu_items still locks service")
	assert.Empty(t, status.BlockedMenuItems)
}

func TestEvaluateLockdownClear(t *testing.T) {
	active := []domain.CriticalControlPoint{ccp("1", "Fridge Temp")}
	status := EvaluateLockdown(active, []domain.CCPCheck{check("1", domain.CheckStatusPass)})

	assert.False(t, status.ServiceLocked)
	assert.Empty(t, status.Pending)
	assert.Equal(t, TierClear, status.Tier)
}
