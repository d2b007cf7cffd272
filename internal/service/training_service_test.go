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

type fakeTrainingRepo struct {
	rows map[string]*domain.TrainingJourneyProgress
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{rows: make(map[string]*domain.TrainingJourneyProgress)}
}

func (r *fakeTrainingRepo) Create(_ context.Context, progress *domain.TrainingJourneyProgress) error {
	if _, ok := r.rows[progress.StaffEmail]; ok {
		return nil
	}
	progress.ID = uuid.NewString()
	clone := *progress
	r.rows[progress.StaffEmail] = &clone
	return nil
}

func (r *fakeTrainingRepo) GetByEmail(_ context.Context, staffEmail string) (*domain.TrainingJourneyProgress, error) {
	row, ok := r.rows[staffEmail]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (r *fakeTrainingRepo) ApplyUpdates(_ context.Context, staffEmail string, updates gating.JourneyUpdates, now time.Time) error {
	row := r.rows[staffEmail]
	row.ValuesCompleted = row.ValuesCompleted || updates.ValuesCompleted
	row.HygieneCompleted = row.HygieneCompleted || updates.HygieneCompleted
	row.SkillsCompleted = row.SkillsCompleted || updates.SkillsCompleted
	if updates.Certified && !row.Certified {
		row.Certified = true
		row.CertificateIssuedAt = updates.CertificateIssuedAt
	}
	row.CurrentStep = updates.CurrentStep
	row.LastUpdated = now
	return nil
}

func (r *fakeTrainingRepo) SetFlag(_ context.Context, staffEmail, column string, now time.Time) error {
	row := r.rows[staffEmail]
	switch column {
	case "invitation_accepted":
		row.InvitationAccepted = true
	case "vision_watched":
		row.VisionWatched = true
	case "raving_fans_completed":
		row.RavingFansCompleted = true
	case "hygiene_completed":
		row.HygieneCompleted = true
	}
	row.LastUpdated = now
	return nil
}

func (r *fakeTrainingRepo) Reset(_ context.Context, staffEmail string, now time.Time) error {
	row, ok := r.rows[staffEmail]
	if !ok {
		return pgx.ErrNoRows
	}
	*row = domain.TrainingJourneyProgress{
		ID:          row.ID,
		StaffEmail:  staffEmail,
		CurrentStep: domain.StageInvited.String(),
		LastUpdated: now,
	}
	return nil
}

type fakeAckRepo struct {
	acks []domain.Acknowledgement
}

func (r *fakeAckRepo) Create(_ context.Context, ack *domain.Acknowledgement) error {
	for _, existing := range r.acks {
		if existing.StaffEmail == ack.StaffEmail && existing.Kind == ack.Kind && existing.Reference == ack.Reference {
			return nil
		}
	}
	ack.ID = uuid.NewString()
	r.acks = append(r.acks, *ack)
	return nil
}

func (r *fakeAckRepo) CountByKind(_ context.Context, staffEmail string, kind domain.AcknowledgementKind) (int, error) {
	count := 0
	for _, ack := range r.acks {
		if ack.StaffEmail == staffEmail && ack.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *fakeAckRepo) ListByStaff(_ context.Context, staffEmail string) ([]domain.Acknowledgement, error) {
	var out []domain.Acknowledgement
	for _, ack := range r.acks {
		if ack.StaffEmail == staffEmail {
			out = append(out, ack)
		}
	}
	return out, nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) countOf(eventType events.EventType) int {
	count := 0
	for _, event := range d.published {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

func newTrainingFixture(t *testing.T) (*TrainingService, *fakeTrainingRepo, *fakeAckRepo, *capturingDispatcher) {
	t.Helper()
	progressRepo := newFakeTrainingRepo()
	ackRepo := &fakeAckRepo{}
	dispatcher := &capturingDispatcher{}
	svc := NewTrainingService(TrainingDependencies{
		ProgressRepo: progressRepo,
		AckRepo:      ackRepo,
		Dispatcher:   dispatcher,
		Now:          func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	})
	return svc, progressRepo, ackRepo, dispatcher
}

func TestJourneyCreatesRowOnFirstVisit(t *testing.T) {
	svc, repo, _, _ := newTrainingFixture(t)

	view, err := svc.Journey(context.Background(), "Amira@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "amira@example.com", view.Progress.StaffEmail)
	assert.False(t, view.Progress.InvitationAccepted)
	assert.Equal(t, domain.StageInvited, view.Progress.Stage())
	require.Contains(t, repo.rows, "amira@example.com")

	assert.True(t, view.Unlocks[gating.ModuleInvitation])
	assert.False(t, view.Unlocks[gating.ModuleVision])
	assert.False(t, view.Unlocks[gating.ModuleLeadershipPathway])
}

func TestFullJourneyToCertification(t *testing.T) {
	svc, _, _, dispatcher := newTrainingFixture(t)
	ctx := context.Background()
	email := "cook@example.com"

	_, err := svc.AcceptInvitation(ctx, email)
	require.NoError(t, err)
	view, err := svc.CompleteVision(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, domain.StageVisionSeen, view.Progress.Stage())

	view, err = svc.Acknowledge(ctx, email, domain.AckKindCulture, "culture-handbook")
	require.NoError(t, err)
	assert.True(t, view.Progress.ValuesCompleted)

	view, err = svc.CompleteRavingFans(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, domain.StageRavingFans, view.Progress.Stage())
	assert.False(t, view.Progress.Certified)

	for _, ref := range []string{"sop-knives", "sop-fryer", "sop-allergens"} {
		view, err = svc.Acknowledge(ctx, email, domain.AckKindSOP, ref)
		require.NoError(t, err)
	}
	assert.True(t, view.Progress.SkillsCompleted)
	assert.False(t, view.Progress.Certified, "hygiene still outstanding")

	view, err = svc.CompleteHygiene(ctx, email)
	require.NoError(t, err)
	assert.True(t, view.Progress.Certified)
	require.NotNil(t, view.Progress.CertificateIssuedAt)
	assert.Equal(t, "certified", view.Progress.CurrentStep)
	assert.True(t, view.Unlocks[gating.ModuleLeadershipPathway])
	assert.Equal(t, 1, dispatcher.countOf(events.EventStaffCertified))
}

func TestJourneySyncIsIdempotent(t *testing.T) {
	svc, _, _, dispatcher := newTrainingFixture(t)
	ctx := context.Background()
	email := "cook@example.com"

	_, err := svc.AcceptInvitation(ctx, email)
	require.NoError(t, err)
	_, err = svc.CompleteVision(ctx, email)
	require.NoError(t, err)
	_, err = svc.Acknowledge(ctx, email, domain.AckKindCulture, "culture-handbook")
	require.NoError(t, err)
	_, err = svc.CompleteRavingFans(ctx, email)
	require.NoError(t, err)
	for _, ref := range []string{"sop-knives", "sop-fryer", "sop-allergens"} {
		_, err = svc.Acknowledge(ctx, email, domain.AckKindSOP, ref)
		require.NoError(t, err)
	}
	first, err := svc.CompleteHygiene(ctx, email)
	require.NoError(t, err)
	require.True(t, first.Progress.Certified)
	issuedAt := first.Progress.CertificateIssuedAt

	// Repeat completions and page loads must not re-fire anything.
	_, err = svc.CompleteHygiene(ctx, email)
	require.NoError(t, err)
	_, err = svc.Acknowledge(ctx, email, domain.AckKindSOP, "sop-knives")
	require.NoError(t, err)
	again, err := svc.Journey(ctx, email)
	require.NoError(t, err)

	assert.True(t, again.Progress.Certified)
	assert.Equal(t, issuedAt, again.Progress.CertificateIssuedAt)
	assert.Equal(t, 1, dispatcher.countOf(events.EventStaffCertified))
}

func TestAcknowledgeValidation(t *testing.T) {
	svc, _, _, _ := newTrainingFixture(t)
	ctx := context.Background()

	_, err := svc.Acknowledge(ctx, "cook@example.com", "poster", "ref")
	assert.Error(t, err)

	_, err = svc.Acknowledge(ctx, "cook@example.com", domain.AckKindSOP, "   ")
	assert.Error(t, err)
}

func TestResetJourneyClearsRatchets(t *testing.T) {
	svc, repo, _, dispatcher := newTrainingFixture(t)
	ctx := context.Background()
	email := "cook@example.com"

	_, err := svc.AcceptInvitation(ctx, email)
	require.NoError(t, err)
	_, err = svc.CompleteVision(ctx, email)
	require.NoError(t, err)

	view, err := svc.ResetJourney(ctx, email, "admin@example.com")
	require.NoError(t, err)

	assert.False(t, view.Progress.InvitationAccepted)
	assert.False(t, view.Progress.VisionWatched)
	assert.Equal(t, domain.StageInvited, view.Progress.Stage())
	assert.False(t, repo.rows[email].InvitationAccepted)
	assert.Equal(t, 1, dispatcher.countOf(events.EventJourneyReset))
}
