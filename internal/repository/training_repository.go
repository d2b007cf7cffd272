package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/gating"
)

// TrainingRepository persists journey progress rows, one per staff member.
type TrainingRepository interface {
	Create(ctx context.Context, progress *domain.TrainingJourneyProgress) error
	GetByEmail(ctx context.Context, staffEmail string) (*domain.TrainingJourneyProgress, error)
	ApplyUpdates(ctx context.Context, staffEmail string, updates gating.JourneyUpdates, now time.Time) error
	SetFlag(ctx context.Context, staffEmail, column string, now time.Time) error
	Reset(ctx context.Context, staffEmail string, now time.Time) error
}

type trainingRepository struct {
	pool *pgxpool.Pool
}

// NewTrainingRepository instantiates repository.
func NewTrainingRepository(pool *pgxpool.Pool) TrainingRepository {
	return &trainingRepository{pool: pool}
}

const progressColumns = `
        id, staff_email, invitation_accepted, vision_watched, values_completed,
        raving_fans_completed, skills_completed, hygiene_completed, certified,
        certificate_issued_at, current_step, last_updated`

func (r *trainingRepository) Create(ctx context.Context, progress *domain.TrainingJourneyProgress) error {
	const query = `
        INSERT INTO training_journey_progress (staff_email, current_step)
        VALUES ($1, $2)
        ON CONFLICT (staff_email) DO NOTHING
        RETURNING id, last_updated`
	err := r.pool.QueryRow(ctx, query, progress.StaffEmail, domain.StageInvited.String()).
		Scan(&progress.ID, &progress.LastUpdated)
	if err == pgx.ErrNoRows {
		// Lost a concurrent first-visit race; the existing row wins.
		existing, getErr := r.GetByEmail(ctx, progress.StaffEmail)
		if getErr != nil {
			return getErr
		}
		*progress = *existing
		return nil
	}
	if err != nil {
		return err
	}
	progress.CurrentStep = domain.StageInvited.String()
	return nil
}

func (r *trainingRepository) GetByEmail(ctx context.Context, staffEmail string) (*domain.TrainingJourneyProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM training_journey_progress WHERE staff_email=$1`
	var p domain.TrainingJourneyProgress
	if err := r.pool.QueryRow(ctx, query, staffEmail).Scan(
		&p.ID,
		&p.StaffEmail,
		&p.InvitationAccepted,
		&p.VisionWatched,
		&p.ValuesCompleted,
		&p.RavingFansCompleted,
		&p.SkillsCompleted,
		&p.HygieneCompleted,
		&p.Certified,
		&p.CertificateIssuedAt,
		&p.CurrentStep,
		&p.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyUpdates writes only the fields a sync flipped. Every assignment is
// a set-true (certified additionally ORs with the stored value), so
// concurrent syncs commute.
func (r *trainingRepository) ApplyUpdates(ctx context.Context, staffEmail string, updates gating.JourneyUpdates, now time.Time) error {
	const query = `
        UPDATE training_journey_progress SET
            values_completed = values_completed OR $1,
            hygiene_completed = hygiene_completed OR $2,
            skills_completed = skills_completed OR $3,
            certified = certified OR $4,
            certificate_issued_at = COALESCE(certificate_issued_at, $5),
            current_step = $6,
            last_updated = $7
        WHERE staff_email=$8`
	cmd, err := r.pool.Exec(ctx, query,
		updates.ValuesCompleted,
		updates.HygieneCompleted,
		updates.SkillsCompleted,
		updates.Certified,
		updates.CertificateIssuedAt,
		updates.CurrentStep,
		now,
		staffEmail,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetFlag flips one ratchet boolean to true. Column names are fixed by the
// callers in the service layer, never user input.
func (r *trainingRepository) SetFlag(ctx context.Context, staffEmail, column string, now time.Time) error {
	query := `
        UPDATE training_journey_progress SET ` + column + `=TRUE, last_updated=$1
        WHERE staff_email=$2`
	cmd, err := r.pool.Exec(ctx, query, now, staffEmail)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reset clears every ratchet field. Admin-only escape hatch; the sole
// sanctioned way any journey boolean goes back to false.
func (r *trainingRepository) Reset(ctx context.Context, staffEmail string, now time.Time) error {
	const query = `
        UPDATE training_journey_progress SET
            invitation_accepted=FALSE, vision_watched=FALSE, values_completed=FALSE,
            raving_fans_completed=FALSE, skills_completed=FALSE, hygiene_completed=FALSE,
            certified=FALSE, certificate_issued_at=NULL, current_step=$1, last_updated=$2
        WHERE staff_email=$3`
	cmd, err := r.pool.Exec(ctx, query, domain.StageInvited.String(), now, staffEmail)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
