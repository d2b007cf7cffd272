package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/gating"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// CCPService coordinates control point management, check submission, and
// the daily lockdown evaluation.
type CCPService struct {
	ccps       repository.CCPRepository
	checks     repository.CCPCheckRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CCPDependencies bundles repositories for the CCP service.
type CCPDependencies struct {
	CCPRepo    repository.CCPRepository
	CheckRepo  repository.CCPCheckRepository
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// CheckInput describes a check submission.
type CheckInput struct {
	CCPID             string
	Status            domain.CheckStatus
	RecordedValue     string
	CriticalLimit     string
	BlockedMenuItems  []string
	CorrectiveActions []domain.CorrectiveAction
}

// NewCCPService constructs the service.
func NewCCPService(deps CCPDependencies) *CCPService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CCPService{
		ccps:       deps.CCPRepo,
		checks:     deps.CheckRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// CreateCCP registers a new control point.
func (s *CCPService) CreateCCP(ctx context.Context, name string) (*domain.CriticalControlPoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	ccp := &domain.CriticalControlPoint{Name: name, IsActive: true}
	if err := s.ccps.Create(ctx, ccp); err != nil {
		return nil, err
	}
	return ccp, nil
}

// RetireCCP deactivates a control point. Retired CCPs drop out of the
// pending set on the next evaluation.
func (s *CCPService) RetireCCP(ctx context.Context, id string) (*domain.CriticalControlPoint, error) {
	ccp, err := s.ccps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ccp.IsActive {
		return ccp, nil
	}
	ccp.IsActive = false
	if err := s.ccps.Update(ctx, ccp); err != nil {
		return nil, err
	}
	return ccp, nil
}

// ListCCPs returns all control points, active and retired.
func (s *CCPService) ListCCPs(ctx context.Context) ([]domain.CriticalControlPoint, error) {
	return s.ccps.ListAll(ctx)
}

// RecordCheck appends a check row for today. Rows are never edited; a
// later pass row for the same CCP supersedes an earlier fail.
func (s *CCPService) RecordCheck(ctx context.Context, recordedBy string, input CheckInput) (*domain.CCPCheck, error) {
	ccp, err := s.ccps.GetByID(ctx, input.CCPID)
	if err != nil {
		return nil, err
	}
	if !ccp.IsActive {
		return nil, apperrors.NewValidationError("control point retired", map[string]any{"ccp_id": ccp.ID})
	}
	if input.Status != domain.CheckStatusPass && input.Status != domain.CheckStatusFail {
		return nil, apperrors.NewValidationError("status must be pass or fail", nil)
	}
	if input.Status == domain.CheckStatusFail && len(input.CorrectiveActions) == 0 {
		return nil, apperrors.NewValidationError("failed check requires corrective actions", nil)
	}

	today := dateOnly(s.now())

	// Needed below to tell a routine pass from one that clears a lockdown.
	earlier, err := s.checks.ListByCCPAndDate(ctx, ccp.ID, today)
	if err != nil {
		return nil, err
	}
	hadFail := false
	for _, prev := range earlier {
		if prev.Status == domain.CheckStatusFail {
			hadFail = true
		}
	}

	check := &domain.CCPCheck{
		CCPID:             ccp.ID,
		CheckDate:         today,
		Status:            input.Status,
		RecordedValue:     strings.TrimSpace(input.RecordedValue),
		CriticalLimit:     strings.TrimSpace(input.CriticalLimit),
		BlockedMenuItems:  input.BlockedMenuItems,
		CorrectiveActions: input.CorrectiveActions,
		RecordedBy:        recordedBy,
	}
	if check.BlockedMenuItems == nil {
		check.BlockedMenuItems = []string{}
	}
	if check.CorrectiveActions == nil {
		check.CorrectiveActions = []domain.CorrectiveAction{}
	}
	if err := s.checks.Create(ctx, check); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, recordedBy, events.Event{
		Type: events.EventCheckRecorded,
		Payload: events.CheckRecordedPayload{
			CheckID:          check.ID,
			CCPID:            ccp.ID,
			CCPName:          ccp.Name,
			Status:           check.Status,
			BlockedMenuItems: check.BlockedMenuItems,
		},
	})

	// Re-evaluate so lock transitions fire exactly when a fail appears or
	// the last fail is superseded.
	status, err := s.ServiceStatus(ctx)
	if err != nil {
		return check, nil
	}
	if input.Status == domain.CheckStatusFail && status.ServiceLocked {
		s.publishEvent(ctx, recordedBy, events.Event{
			Type: events.EventServiceLocked,
			Payload: events.ServiceLockedPayload{
				FailedCount:      len(status.Failed),
				BlockedMenuItems: status.BlockedMenuItems,
			},
		})
	}
	if input.Status == domain.CheckStatusPass && hadFail && !status.ServiceLocked {
		s.publishEvent(ctx, recordedBy, events.Event{
			Type:    events.EventServiceCleared,
			Payload: events.ServiceClearedPayload{PendingCount: len(status.Pending)},
		})
	}
	return check, nil
}

// ServiceStatus fetches today's records fresh and evaluates lockdown.
func (s *CCPService) ServiceStatus(ctx context.Context) (gating.LockdownStatus, error) {
	active, err := s.ccps.ListActive(ctx)
	if err != nil {
		return gating.LockdownStatus{}, err
	}
	todays, err := s.checks.ListByDate(ctx, dateOnly(s.now()))
	if err != nil {
		return gating.LockdownStatus{}, err
	}
	return gating.EvaluateLockdown(active, s.supersede(todays)), nil
}

// supersede keeps only the latest check row per CCP for the day, so a
// corrective pass clears an earlier fail. Rows arrive ordered by creation.
func (s *CCPService) supersede(checks []domain.CCPCheck) []domain.CCPCheck {
	latest := make(map[string]domain.CCPCheck, len(checks))
	order := make([]string, 0, len(checks))
	for _, check := range checks {
		if _, seen := latest[check.CCPID]; !seen {
			order = append(order, check.CCPID)
		}
		latest[check.CCPID] = check
	}
	result := make([]domain.CCPCheck, 0, len(latest))
	for _, id := range order {
		result = append(result, latest[id])
	}
	return result
}

func (s *CCPService) publishEvent(ctx context.Context, actor string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.ActorEmail = actor
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
