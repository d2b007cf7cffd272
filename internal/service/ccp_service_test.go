package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/gating"
)

type fakeCCPRepo struct {
	rows  map[string]*domain.CriticalControlPoint
	order []string
}

func newFakeCCPRepo() *fakeCCPRepo {
	return &fakeCCPRepo{rows: make(map[string]*domain.CriticalControlPoint)}
}

func (r *fakeCCPRepo) Create(_ context.Context, ccp *domain.CriticalControlPoint) error {
	ccp.ID = uuid.NewString()
	clone := *ccp
	r.rows[ccp.ID] = &clone
	r.order = append(r.order, ccp.ID)
	return nil
}

func (r *fakeCCPRepo) Update(_ context.Context, ccp *domain.CriticalControlPoint) error {
	if _, ok := r.rows[ccp.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ccp
	r.rows[ccp.ID] = &clone
	return nil
}

func (r *fakeCCPRepo) GetByID(_ context.Context, id string) (*domain.CriticalControlPoint, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (r *fakeCCPRepo) ListActive(_ context.Context) ([]domain.CriticalControlPoint, error) {
	var out []domain.CriticalControlPoint
	for _, id := range r.order {
		if r.rows[id].IsActive {
			out = append(out, *r.rows[id])
		}
	}
	return out, nil
}

func (r *fakeCCPRepo) ListAll(_ context.Context) ([]domain.CriticalControlPoint, error) {
	var out []domain.CriticalControlPoint
	for _, id := range r.order {
		out = append(out, *r.rows[id])
	}
	return out, nil
}

type fakeCheckRepo struct {
	checks []domain.CCPCheck
}

func (r *fakeCheckRepo) Create(_ context.Context, check *domain.CCPCheck) error {
	check.ID = uuid.NewString()
	r.checks = append(r.checks, *check)
	return nil
}

func (r *fakeCheckRepo) ListByDate(_ context.Context, date time.Time) ([]domain.CCPCheck, error) {
	var out []domain.CCPCheck
	for _, check := range r.checks {
		if check.CheckDate.Equal(date) {
			out = append(out, check)
		}
	}
	return out, nil
}

func (r *fakeCheckRepo) ListByCCPAndDate(_ context.Context, ccpID string, date time.Time) ([]domain.CCPCheck, error) {
	var out []domain.CCPCheck
	for _, check := range r.checks {
		if check.CCPID == ccpID && check.CheckDate.Equal(date) {
			out = append(out, check)
		}
	}
	return out, nil
}

func (r *fakeCheckRepo) CountByRecorder(_ context.Context, staffEmail string) (performed, passed int, err error) {
	for _, check := range r.checks {
		if check.RecordedBy != staffEmail {
			continue
		}
		performed++
		if check.Status == domain.CheckStatusPass {
			passed++
		}
	}
	return performed, passed, nil
}

func newCCPFixture(t *testing.T) (*CCPService, *fakeCCPRepo, *capturingDispatcher) {
	t.Helper()
	ccpRepo := newFakeCCPRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewCCPService(CCPDependencies{
		CCPRepo:    ccpRepo,
		CheckRepo:  &fakeCheckRepo{},
		Dispatcher: dispatcher,
		Now:        func() time.Time { return time.Date(2026, 3, 14, 14, 30, 0, 0, time.UTC) },
	})
	return svc, ccpRepo, dispatcher
}

func TestRecordCheckValidation(t *testing.T) {
	svc, _, _ := newCCPFixture(t)
	ctx := context.Background()

	fridge, err := svc.CreateCCP(ctx, "Walk-in Fridge Temp")
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{CCPID: fridge.ID, Status: "maybe"})
	assert.Error(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{CCPID: fridge.ID, Status: domain.CheckStatusFail})
	assert.Error(t, err, "failed check without corrective actions must be rejected")

	retired, err := svc.CreateCCP(ctx, "Old Station")
	require.NoError(t, err)
	_, err = svc.RetireCCP(ctx, retired.ID)
	require.NoError(t, err)
	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{CCPID: retired.ID, Status: domain.CheckStatusPass})
	assert.Error(t, err)
}

func TestSingleFailureLocksService(t *testing.T) {
	svc, _, dispatcher := newCCPFixture(t)
	ctx := context.Background()

	fridge, err := svc.CreateCCP(ctx, "Walk-in Fridge Temp")
	require.NoError(t, err)
	fryer, err := svc.CreateCCP(ctx, "Fryer Oil Quality")
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{
		CCPID:            fridge.ID,
		Status:           domain.CheckStatusFail,
		RecordedValue:    "9.2C",
		CriticalLimit:    "<= 5C",
		BlockedMenuItems: []string{"Chicken Curry", "Butter Chicken"},
		CorrectiveActions: []domain.CorrectiveAction{
			{Action: "moved stock to backup fridge", Status: "done"},
		},
	})
	require.NoError(t, err)

	status, err := svc.ServiceStatus(ctx)
	require.NoError(t, err)

	assert.True(t, status.ServiceLocked)
	assert.Equal(t, gating.TierLockdown, status.Tier)
	assert.Len(t, status.Failed, 1)
	assert.Contains(t, status.BlockedMenuItems, "Chicken Curry")
	assert.Contains(t, status.BlockedMenuItems, "Butter Chicken")
	require.Len(t, status.Pending, 1)
	assert.Equal(t, fryer.ID, status.Pending[0].ID)
	assert.Equal(t, 1, dispatcher.countOf(events.EventServiceLocked))
}

func TestCorrectivePassClearsLockdown(t *testing.T) {
	svc, _, dispatcher := newCCPFixture(t)
	ctx := context.Background()

	fridge, err := svc.CreateCCP(ctx, "Walk-in Fridge Temp")
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{
		CCPID:             fridge.ID,
		Status:            domain.CheckStatusFail,
		BlockedMenuItems:  []string{"Chicken Curry"},
		CorrectiveActions: []domain.CorrectiveAction{{Action: "recalibrated thermostat", Status: "done"}},
	})
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "manager@example.com", CheckInput{
		CCPID:         fridge.ID,
		Status:        domain.CheckStatusPass,
		RecordedValue: "3.8C",
	})
	require.NoError(t, err)

	status, err := svc.ServiceStatus(ctx)
	require.NoError(t, err)

	assert.False(t, status.ServiceLocked)
	assert.Equal(t, gating.TierClear, status.Tier)
	assert.Empty(t, status.BlockedMenuItems)
	assert.Empty(t, status.Pending)
	assert.Equal(t, 1, dispatcher.countOf(events.EventServiceCleared))
}

func TestRoutinePassDoesNotAnnounceClear(t *testing.T) {
	svc, _, dispatcher := newCCPFixture(t)
	ctx := context.Background()

	fridge, err := svc.CreateCCP(ctx, "Walk-in Fridge Temp")
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{
		CCPID:  fridge.ID,
		Status: domain.CheckStatusPass,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, dispatcher.countOf(events.EventServiceCleared))
	assert.Equal(t, 1, dispatcher.countOf(events.EventCheckRecorded))
}

func TestRetiredCCPDropsFromPending(t *testing.T) {
	svc, _, _ := newCCPFixture(t)
	ctx := context.Background()

	fridge, err := svc.CreateCCP(ctx, "Walk-in Fridge Temp")
	require.NoError(t, err)
	fryer, err := svc.CreateCCP(ctx, "Fryer Oil Quality")
	require.NoError(t, err)

	_, err = svc.RecordCheck(ctx, "cook@example.com", CheckInput{CCPID: fridge.ID, Status: domain.CheckStatusPass})
	require.NoError(t, err)

	status, err := svc.ServiceStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status.Pending, 1)
	assert.Equal(t, gating.TierPendingOnly, status.Tier)

	_, err = svc.RetireCCP(ctx, fryer.ID)
	require.NoError(t, err)

	status, err = svc.ServiceStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, status.Pending)
	assert.Equal(t, gating.TierClear, status.Tier)
}
