package service

import (
	"context"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/gating"
)

// AccessService resolves page access for the current session: it joins the
// static rule table with the session's operating mode and hands the rest to
// the pure guard.
type AccessService struct {
	index gating.RuleIndex
	modes *ModeService
}

// NewAccessService builds the service with the compiled rule index.
func NewAccessService(rules []gating.PageRule, modes *ModeService) *AccessService {
	return &AccessService{index: gating.BuildRuleIndex(rules), modes: modes}
}

// Decide resolves the guard decision for a page. A nil user means no
// session; the mode lookup is skipped since the guard redirects first.
func (s *AccessService) Decide(ctx context.Context, page string, user *domain.User, sessionKey string) (gating.Decision, domain.OperatingMode, error) {
	mode := domain.ModeOperate
	if user != nil && s.modes != nil {
		fetched, err := s.modes.Get(ctx, sessionKey)
		if err != nil {
			return gating.Decision{}, mode, err
		}
		mode = fetched
	}
	return gating.Decide(s.index, page, user, mode), mode, nil
}
