package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// AcknowledgementRepository persists culture/SOP acknowledgements. These
// feed the training-journey gate signals.
type AcknowledgementRepository interface {
	Create(ctx context.Context, ack *domain.Acknowledgement) error
	CountByKind(ctx context.Context, staffEmail string, kind domain.AcknowledgementKind) (int, error)
	ListByStaff(ctx context.Context, staffEmail string) ([]domain.Acknowledgement, error)
}

type acknowledgementRepository struct {
	pool *pgxpool.Pool
}

// NewAcknowledgementRepository instantiates repository.
func NewAcknowledgementRepository(pool *pgxpool.Pool) AcknowledgementRepository {
	return &acknowledgementRepository{pool: pool}
}

func (r *acknowledgementRepository) Create(ctx context.Context, ack *domain.Acknowledgement) error {
	const query = `
        INSERT INTO acknowledgements (staff_email, kind, reference)
        VALUES ($1, $2, $3)
        ON CONFLICT (staff_email, kind, reference) DO NOTHING
        RETURNING id, acknowledged_at`
	err := r.pool.QueryRow(ctx, query, ack.StaffEmail, ack.Kind, ack.Reference).
		Scan(&ack.ID, &ack.AcknowledgedAt)
	if err == pgx.ErrNoRows {
		// Duplicate acknowledgement; the stored row already covers it.
		return nil
	}
	return err
}

func (r *acknowledgementRepository) CountByKind(ctx context.Context, staffEmail string, kind domain.AcknowledgementKind) (int, error) {
	const query = `
        SELECT COUNT(DISTINCT reference) FROM acknowledgements
        WHERE staff_email=$1 AND kind=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, staffEmail, kind).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *acknowledgementRepository) ListByStaff(ctx context.Context, staffEmail string) ([]domain.Acknowledgement, error) {
	const query = `
        SELECT id, staff_email, kind, reference, acknowledged_at
        FROM acknowledgements WHERE staff_email=$1 ORDER BY acknowledged_at`
	rows, err := r.pool.Query(ctx, query, staffEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	acks := []domain.Acknowledgement{}
	for rows.Next() {
		var ack domain.Acknowledgement
		if err := rows.Scan(&ack.ID, &ack.StaffEmail, &ack.Kind, &ack.Reference, &ack.AcknowledgedAt); err != nil {
			return nil, err
		}
		acks = append(acks, ack)
	}
	return acks, rows.Err()
}
