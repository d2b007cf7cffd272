package gating

import (
	"github.com/spec-kit/compliance-service/internal/domain"
)

// Well-known page names referenced by the guard itself.
const (
	PageInvitation     = "Invitation"
	PageOnboardingFlow = "OnboardingFlow"
)

// DecisionKind enumerates guard outcomes.
type DecisionKind string

const (
	DecisionAllow              DecisionKind = "allow"
	DecisionRedirectLogin      DecisionKind = "redirect_login"
	DecisionRedirectOnboarding DecisionKind = "redirect_onboarding"
	DecisionDenyRole           DecisionKind = "deny_role"
	DecisionDenyMode           DecisionKind = "deny_mode"
)

// Decision is the guard verdict for a page request. Deny decisions carry
// enough detail to render an actionable banner rather than a blank page.
type Decision struct {
	Kind           DecisionKind
	RedirectTarget string
	RequiredRoles  []domain.Role
	ActualRole     domain.Role
	RequiredModes  []domain.OperatingMode
	SuggestedMode  domain.OperatingMode
}

// PageRule declares which roles and modes may reach a page. A nil Roles
// slice means every role is allowed.
type PageRule struct {
	Page  string
	Roles []domain.Role
	Modes []domain.OperatingMode
}

// RuleIndex is the page rule table keyed by page name, built once at
// startup. Lookups are O(1); pages absent from the index default to open.
type RuleIndex map[string]PageRule

// BuildRuleIndex compiles rule entries into an index. The first entry for
// a page wins, matching how overlapping rule groups resolved historically.
func BuildRuleIndex(rules []PageRule) RuleIndex {
	index := make(RuleIndex, len(rules))
	for _, rule := range rules {
		if _, exists := index[rule.Page]; exists {
			continue
		}
		index[rule.Page] = rule
	}
	return index
}

// DefaultPageRules is the static page access table for the application.
// Pages not listed here are utility pages and default to open.
func DefaultPageRules() []PageRule {
	managerial := []domain.Role{domain.RoleManager, domain.RoleOwner, domain.RoleAdmin}
	return []PageRule{
		{Page: "DailyOperationsHub", Modes: []domain.OperatingMode{domain.ModeOperate}},
		{Page: "CCPMonitor", Modes: []domain.OperatingMode{domain.ModeOperate, domain.ModeManage}},
		{Page: "CleaningChecklist", Modes: []domain.OperatingMode{domain.ModeOperate}},
		{Page: "OpeningChecklist", Modes: []domain.OperatingMode{domain.ModeOperate}},
		{Page: "ClosingChecklist", Modes: []domain.OperatingMode{domain.ModeOperate}},
		{Page: "TrainingJourney", Modes: []domain.OperatingMode{domain.ModeTrain}},
		{Page: "LeadershipPathway", Modes: []domain.OperatingMode{domain.ModeTrain}},
		{Page: "IncidentCenter", Roles: managerial, Modes: []domain.OperatingMode{domain.ModeManage}},
		{Page: "StaffManagement", Roles: managerial, Modes: []domain.OperatingMode{domain.ModeManage}},
		{Page: "AuditCenter", Roles: managerial, Modes: []domain.OperatingMode{domain.ModeManage}},
		{Page: "ComplianceReports", Roles: managerial, Modes: []domain.OperatingMode{domain.ModeManage}},
		{Page: "Settings", Roles: []domain.Role{domain.RoleOwner, domain.RoleAdmin}, Modes: []domain.OperatingMode{domain.ModeManage}},
	}
}

// Decide resolves access for a page request. The Invitation page is open
// even without a session; everything else requires an authenticated user
// who has finished onboarding, then passes the role check before the mode
// check.
func Decide(index RuleIndex, page string, user *domain.User, mode domain.OperatingMode) Decision {
	if page == PageInvitation {
		return Decision{Kind: DecisionAllow}
	}
	if user == nil {
		return Decision{Kind: DecisionRedirectLogin}
	}
	if page == PageOnboardingFlow {
		return Decision{Kind: DecisionAllow}
	}
	if !user.OnboardingCompleted {
		return Decision{Kind: DecisionRedirectOnboarding, RedirectTarget: PageOnboardingFlow}
	}

	rule, ok := index[page]
	if !ok {
		return Decision{Kind: DecisionAllow}
	}

	if len(rule.Roles) > 0 && !roleAllowed(rule.Roles, user.Role) {
		return Decision{
			Kind:          DecisionDenyRole,
			RequiredRoles: rule.Roles,
			ActualRole:    user.Role,
		}
	}

	if len(rule.Modes) > 0 && !modeAllowed(rule.Modes, mode) {
		return Decision{
			Kind:          DecisionDenyMode,
			RequiredModes: rule.Modes,
			SuggestedMode: rule.Modes[0],
		}
	}

	return Decision{Kind: DecisionAllow}
}

func roleAllowed(allowed []domain.Role, role domain.Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

func modeAllowed(allowed []domain.OperatingMode, mode domain.OperatingMode) bool {
	for _, candidate := range allowed {
		if candidate == mode {
			return true
		}
	}
	return false
}
