package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// SafetyScoreRepository persists safety score snapshots. The latest row
// per staff member is the authoritative score.
type SafetyScoreRepository interface {
	Create(ctx context.Context, score *domain.StaffSafetyScore) error
	GetLatest(ctx context.Context, staffEmail string) (*domain.StaffSafetyScore, error)
	ListByEmail(ctx context.Context, staffEmail string, limit int) ([]domain.StaffSafetyScore, error)
}

type safetyScoreRepository struct {
	pool *pgxpool.Pool
}

// NewSafetyScoreRepository instantiates repository.
func NewSafetyScoreRepository(pool *pgxpool.Pool) SafetyScoreRepository {
	return &safetyScoreRepository{pool: pool}
}

const safetyColumns = `
        id, staff_email, calculation_date, overall_safety_score, safety_grade,
        training_completion_score, ccp_accuracy_percentage, missed_checks_percentage,
        incident_involvement_score, total_incidents, critical_incidents, major_incidents,
        minor_incidents, promotion_ready, shift_leader_eligible, extra_training_required, created_at`

func (r *safetyScoreRepository) Create(ctx context.Context, score *domain.StaffSafetyScore) error {
	const query = `
        INSERT INTO staff_safety_scores (
            staff_email, calculation_date, overall_safety_score, safety_grade,
            training_completion_score, ccp_accuracy_percentage, missed_checks_percentage,
            incident_involvement_score, total_incidents, critical_incidents, major_incidents,
            minor_incidents, promotion_ready, shift_leader_eligible, extra_training_required)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		score.StaffEmail,
		score.CalculationDate,
		score.OverallSafetyScore,
		score.SafetyGrade,
		score.TrainingCompletionScore,
		score.CCPAccuracyPercentage,
		score.MissedChecksPercentage,
		score.IncidentInvolvement,
		score.TotalIncidents,
		score.CriticalIncidents,
		score.MajorIncidents,
		score.MinorIncidents,
		score.PromotionReady,
		score.ShiftLeaderEligible,
		score.ExtraTrainingRequired,
	).Scan(&score.ID, &score.CreatedAt)
}

func (r *safetyScoreRepository) GetLatest(ctx context.Context, staffEmail string) (*domain.StaffSafetyScore, error) {
	query := `SELECT ` + safetyColumns + `
        FROM staff_safety_scores WHERE staff_email=$1
        ORDER BY calculation_date DESC LIMIT 1`
	var score domain.StaffSafetyScore
	if err := r.pool.QueryRow(ctx, query, staffEmail).Scan(
		&score.ID,
		&score.StaffEmail,
		&score.CalculationDate,
		&score.OverallSafetyScore,
		&score.SafetyGrade,
		&score.TrainingCompletionScore,
		&score.CCPAccuracyPercentage,
		&score.MissedChecksPercentage,
		&score.IncidentInvolvement,
		&score.TotalIncidents,
		&score.CriticalIncidents,
		&score.MajorIncidents,
		&score.MinorIncidents,
		&score.PromotionReady,
		&score.ShiftLeaderEligible,
		&score.ExtraTrainingRequired,
		&score.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *safetyScoreRepository) ListByEmail(ctx context.Context, staffEmail string, limit int) ([]domain.StaffSafetyScore, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + safetyColumns + `
        FROM staff_safety_scores WHERE staff_email=$1
        ORDER BY calculation_date DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, staffEmail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []domain.StaffSafetyScore{}
	for rows.Next() {
		var score domain.StaffSafetyScore
		if err := rows.Scan(
			&score.ID,
			&score.StaffEmail,
			&score.CalculationDate,
			&score.OverallSafetyScore,
			&score.SafetyGrade,
			&score.TrainingCompletionScore,
			&score.CCPAccuracyPercentage,
			&score.MissedChecksPercentage,
			&score.IncidentInvolvement,
			&score.TotalIncidents,
			&score.CriticalIncidents,
			&score.MajorIncidents,
			&score.MinorIncidents,
			&score.PromotionReady,
			&score.ShiftLeaderEligible,
			&score.ExtraTrainingRequired,
			&score.CreatedAt,
		); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
