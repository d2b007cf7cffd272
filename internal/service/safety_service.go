package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/gating"
	"github.com/spec-kit/compliance-service/internal/repository"
)

// SafetyService reads safety score snapshots and runs the recompute that
// appends new ones.
type SafetyService struct {
	scores     repository.SafetyScoreRepository
	policy     gating.SafetyPolicy
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewSafetyService constructs the service, translating config overrides
// into the score policy.
func NewSafetyService(cfg config.SafetyConfig, scores repository.SafetyScoreRepository, dispatcher events.Dispatcher) *SafetyService {
	policy := gating.DefaultSafetyPolicy()
	if cfg.CriticalIncidentWeight > 0 {
		policy.CriticalIncidentWeight = cfg.CriticalIncidentWeight
	}
	if cfg.MajorIncidentWeight > 0 {
		policy.MajorIncidentWeight = cfg.MajorIncidentWeight
	}
	if cfg.MinorIncidentWeight > 0 {
		policy.MinorIncidentWeight = cfg.MinorIncidentWeight
	}
	if grade := domain.SafetyGrade(cfg.PromotionMinGrade); grade == domain.GradeA || grade == domain.GradeB {
		policy.PromotionMinGrade = grade
	}
	return &SafetyService{
		scores:     scores,
		policy:     policy,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Latest returns the newest snapshot for a staff member, or nil when no
// score exists yet. Absence is a display state, not an error.
func (s *SafetyService) Latest(ctx context.Context, staffEmail string) (*domain.StaffSafetyScore, error) {
	score, err := s.scores.GetLatest(ctx, normalizeEmail(staffEmail))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return score, nil
}

// History returns recent snapshots, newest first.
func (s *SafetyService) History(ctx context.Context, staffEmail string, limit int) ([]domain.StaffSafetyScore, error) {
	return s.scores.ListByEmail(ctx, normalizeEmail(staffEmail), limit)
}

// Recompute derives a fresh snapshot from raw tallies and appends it.
func (s *SafetyService) Recompute(ctx context.Context, staffEmail string, inputs gating.SafetyInputs) (*domain.StaffSafetyScore, error) {
	staffEmail = normalizeEmail(staffEmail)
	score := gating.DeriveSafetyScore(staffEmail, inputs, s.policy, s.now())
	if err := s.scores.Create(ctx, &score); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventScoreRecomputed,
			ActorEmail: staffEmail,
			Timestamp:  s.now(),
			Payload: events.ScoreRecomputedPayload{
				StaffEmail: staffEmail,
				Score:      score.OverallSafetyScore,
				Grade:      score.SafetyGrade,
			},
		})
	}
	return &score, nil
}
