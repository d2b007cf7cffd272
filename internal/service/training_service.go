package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/gating"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// TrainingService coordinates the journey progression gates.
type TrainingService struct {
	progress   repository.TrainingRepository
	acks       repository.AcknowledgementRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TrainingDependencies bundles repositories for the training service.
type TrainingDependencies struct {
	ProgressRepo repository.TrainingRepository
	AckRepo      repository.AcknowledgementRepository
	Dispatcher   events.Dispatcher
	Now          func() time.Time
}

// JourneyView is the journey state plus module unlocks for the UI.
type JourneyView struct {
	Progress domain.TrainingJourneyProgress
	Unlocks  map[gating.TrainingModule]bool
}

// NewTrainingService constructs the service.
func NewTrainingService(deps TrainingDependencies) *TrainingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TrainingService{
		progress:   deps.ProgressRepo,
		acks:       deps.AckRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Journey loads (creating on first visit) the staff member's progress,
// re-derives the gate signals, runs the sync, and persists whatever fired.
// Safe to run on every page load and concurrently: all writes are
// idempotent set-true operations.
func (s *TrainingService) Journey(ctx context.Context, staffEmail string) (*JourneyView, error) {
	staffEmail = normalizeEmail(staffEmail)

	progress, err := s.progress.GetByEmail(ctx, staffEmail)
	if err == pgx.ErrNoRows {
		progress = &domain.TrainingJourneyProgress{StaffEmail: staffEmail}
		if err := s.progress.Create(ctx, progress); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	signals, err := s.signals(ctx, staffEmail, progress)
	if err != nil {
		return nil, err
	}

	synced, err := s.sync(ctx, *progress, signals)
	if err != nil {
		return nil, err
	}

	return &JourneyView{
		Progress: synced,
		Unlocks:  gating.ModuleUnlocks(synced),
	}, nil
}

// Acknowledge records a culture or SOP acknowledgement and re-syncs the
// journey so dependent gates fire immediately.
func (s *TrainingService) Acknowledge(ctx context.Context, staffEmail string, kind domain.AcknowledgementKind, reference string) (*JourneyView, error) {
	if kind != domain.AckKindCulture && kind != domain.AckKindSOP {
		return nil, apperrors.NewValidationError("unknown acknowledgement kind", map[string]any{"kind": kind})
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.NewValidationError("reference required", nil)
	}

	ack := &domain.Acknowledgement{
		StaffEmail: normalizeEmail(staffEmail),
		Kind:       kind,
		Reference:  reference,
	}
	if err := s.acks.Create(ctx, ack); err != nil {
		return nil, err
	}
	return s.Journey(ctx, staffEmail)
}

// AcceptInvitation flips the invitation ratchet.
func (s *TrainingService) AcceptInvitation(ctx context.Context, staffEmail string) (*JourneyView, error) {
	return s.setFlag(ctx, staffEmail, "invitation_accepted")
}

// CompleteVision flips the vision ratchet.
func (s *TrainingService) CompleteVision(ctx context.Context, staffEmail string) (*JourneyView, error) {
	return s.setFlag(ctx, staffEmail, "vision_watched")
}

// CompleteRavingFans flips the raving-fans ratchet.
func (s *TrainingService) CompleteRavingFans(ctx context.Context, staffEmail string) (*JourneyView, error) {
	return s.setFlag(ctx, staffEmail, "raving_fans_completed")
}

// CompleteHygiene flips the hygiene ratchet.
func (s *TrainingService) CompleteHygiene(ctx context.Context, staffEmail string) (*JourneyView, error) {
	return s.setFlag(ctx, staffEmail, "hygiene_completed")
}

// ResetJourney clears every ratchet for a staff member. The only
// sanctioned un-ratchet; admin only, enforced at the route.
func (s *TrainingService) ResetJourney(ctx context.Context, staffEmail, resetBy string) (*JourneyView, error) {
	staffEmail = normalizeEmail(staffEmail)
	if err := s.progress.Reset(ctx, staffEmail, s.now()); err != nil {
		return nil, err
	}
	s.publish(ctx, resetBy, events.Event{
		Type:    events.EventJourneyReset,
		Payload: events.JourneyResetPayload{StaffEmail: staffEmail, ResetBy: resetBy},
	})
	progress, err := s.progress.GetByEmail(ctx, staffEmail)
	if err != nil {
		return nil, err
	}
	return &JourneyView{Progress: *progress, Unlocks: gating.ModuleUnlocks(*progress)}, nil
}

func (s *TrainingService) setFlag(ctx context.Context, staffEmail, column string) (*JourneyView, error) {
	staffEmail = normalizeEmail(staffEmail)
	// Ensure the row exists before flipping the flag on a first visit.
	if _, err := s.progress.GetByEmail(ctx, staffEmail); err == pgx.ErrNoRows {
		progress := &domain.TrainingJourneyProgress{StaffEmail: staffEmail}
		if err := s.progress.Create(ctx, progress); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if err := s.progress.SetFlag(ctx, staffEmail, column, s.now()); err != nil {
		return nil, err
	}
	return s.Journey(ctx, staffEmail)
}

func (s *TrainingService) signals(ctx context.Context, staffEmail string, progress *domain.TrainingJourneyProgress) (gating.JourneySignals, error) {
	cultureCount, err := s.acks.CountByKind(ctx, staffEmail, domain.AckKindCulture)
	if err != nil {
		return gating.JourneySignals{}, err
	}
	sopCount, err := s.acks.CountByKind(ctx, staffEmail, domain.AckKindSOP)
	if err != nil {
		return gating.JourneySignals{}, err
	}
	return gating.JourneySignals{
		CultureAcknowledged:     cultureCount > 0,
		HygieneCompleted:        progress.HygieneCompleted,
		SOPAcknowledgementCount: sopCount,
	}, nil
}

func (s *TrainingService) sync(ctx context.Context, progress domain.TrainingJourneyProgress, signals gating.JourneySignals) (domain.TrainingJourneyProgress, error) {
	now := s.now()
	updates, fired := gating.SyncJourney(progress, signals, now)
	if !fired {
		return progress, nil
	}
	if err := s.progress.ApplyUpdates(ctx, progress.StaffEmail, updates, now); err != nil {
		return progress, err
	}

	if updates.ValuesCompleted {
		progress.ValuesCompleted = true
	}
	if updates.HygieneCompleted {
		progress.HygieneCompleted = true
	}
	if updates.SkillsCompleted {
		progress.SkillsCompleted = true
	}
	if updates.Certified {
		progress.Certified = true
		progress.CertificateIssuedAt = updates.CertificateIssuedAt
		s.publish(ctx, progress.StaffEmail, events.Event{
			Type:    events.EventStaffCertified,
			Payload: events.StaffCertifiedPayload{StaffEmail: progress.StaffEmail, IssuedAt: now},
		})
	}
	progress.CurrentStep = updates.CurrentStep
	progress.LastUpdated = now
	return progress, nil
}

func (s *TrainingService) publish(ctx context.Context, actor string, event events.Event) {
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

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
