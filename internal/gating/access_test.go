package gating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func onboardedUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:                  "u-1",
		Email:               "user@example.com",
		Role:                role,
		OnboardingCompleted: true,
	}
}

func TestDecideUnauthenticated(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	t.Run("invitation page is open without a session", func(t *testing.T) {
		decision := Decide(index, PageInvitation, nil, domain.ModeOperate)
		assert.Equal(t, DecisionAllow, decision.Kind)
	})

	t.Run("any other page redirects to login", func(t *testing.T) {
		decision := Decide(index, "DailyOperationsHub", nil, domain.ModeOperate)
		assert.Equal(t, DecisionRedirectLogin, decision.Kind)
	})
}

func TestDecideOnboardingRedirect(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())
	user := onboardedUser(domain.RoleStaff)
	user.OnboardingCompleted = false

	decision := Decide(index, "DailyOperationsHub", user, domain.ModeOperate)
	require.Equal(t, DecisionRedirectOnboarding, decision.Kind)
	assert.Equal(t, PageOnboardingFlow, decision.RedirectTarget)

	// The onboarding flow itself must stay reachable.
	decision = Decide(index, PageOnboardingFlow, user, domain.ModeOperate)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestDecideRoleDenied(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	decision := Decide(index, "IncidentCenter", onboardedUser(domain.RoleStaff), domain.ModeManage)
	require.Equal(t, DecisionDenyRole, decision.Kind)
	assert.Equal(t, []domain.Role{domain.RoleManager, domain.RoleOwner, domain.RoleAdmin}, decision.RequiredRoles)
	assert.Equal(t, domain.RoleStaff, decision.ActualRole)
}

func TestDecideModeDenied(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	// DailyOperationsHub allows every role but only the operate mode.
	decision := Decide(index, "DailyOperationsHub", onboardedUser(domain.RoleStaff), domain.ModeManage)
	require.Equal(t, DecisionDenyMode, decision.Kind)
	assert.Equal(t, domain.ModeOperate, decision.SuggestedMode)
	assert.Equal(t, []domain.OperatingMode{domain.ModeOperate}, decision.RequiredModes)
}

func TestDecideRoleCheckedBeforeMode(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	// Wrong role and wrong mode: the role denial wins.
	decision := Decide(index, "IncidentCenter", onboardedUser(domain.RoleStaff), domain.ModeOperate)
	assert.Equal(t, DecisionDenyRole, decision.Kind)
}

func TestDecideUnknownPageDefaultsOpen(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	decision := Decide(index, "ScratchNotes", onboardedUser(domain.RoleStaff), domain.ModeTrain)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestDecideAllowed(t *testing.T) {
	index := BuildRuleIndex(DefaultPageRules())

	tests := []struct {
		name string
		page string
		role domain.Role
		mode domain.OperatingMode
	}{
		{"staff in operate mode", "DailyOperationsHub", domain.RoleStaff, domain.ModeOperate},
		{"manager on incident center", "IncidentCenter", domain.RoleManager, domain.ModeManage},
		{"owner on settings", "Settings", domain.RoleOwner, domain.ModeManage},
		{"staff training", "TrainingJourney", domain.RoleStaff, domain.ModeTrain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(index, tt.page, onboardedUser(tt.role), tt.mode)
			assert.Equal(t, DecisionAllow, decision.Kind)
		})
	}
}

func TestBuildRuleIndexFirstEntryWins(t *testing.T) {
	index := BuildRuleIndex([]PageRule{
		{Page: "Reports", Roles: []domain.Role{domain.RoleAdmin}},
		{Page: "Reports", Roles: []domain.Role{domain.RoleStaff}},
	})

	rule, ok := index["Reports"]
	require.True(t, ok)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, rule.Roles)
}
