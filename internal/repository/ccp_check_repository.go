package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// CCPCheckRepository encapsulates check-row persistence. Check rows are
// append-only; corrections supersede earlier rows for the same CCP and day.
type CCPCheckRepository interface {
	Create(ctx context.Context, check *domain.CCPCheck) error
	ListByDate(ctx context.Context, date time.Time) ([]domain.CCPCheck, error)
	ListByCCPAndDate(ctx context.Context, ccpID string, date time.Time) ([]domain.CCPCheck, error)
	CountByRecorder(ctx context.Context, staffEmail string) (performed, passed int, err error)
}

type ccpCheckRepository struct {
	pool *pgxpool.Pool
}

// NewCCPCheckRepository instantiates repository.
func NewCCPCheckRepository(pool *pgxpool.Pool) CCPCheckRepository {
	return &ccpCheckRepository{pool: pool}
}

func (r *ccpCheckRepository) Create(ctx context.Context, check *domain.CCPCheck) error {
	const query = `
        INSERT INTO ccp_checks (ccp_id, check_date, status, recorded_value, critical_limit, blocked_menu_items, corrective_actions, recorded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		check.CCPID,
		check.CheckDate,
		check.Status,
		check.RecordedValue,
		check.CriticalLimit,
		check.BlockedMenuItems,
		check.CorrectiveActions,
		check.RecordedBy,
	).Scan(&check.ID, &check.CreatedAt)
}

func (r *ccpCheckRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.CCPCheck, error) {
	const query = `
        SELECT id, ccp_id, check_date, status, recorded_value, critical_limit, blocked_menu_items, corrective_actions, recorded_by, created_at
        FROM ccp_checks WHERE check_date=$1 ORDER BY created_at`
	return r.list(ctx, query, date)
}

func (r *ccpCheckRepository) ListByCCPAndDate(ctx context.Context, ccpID string, date time.Time) ([]domain.CCPCheck, error) {
	const query = `
        SELECT id, ccp_id, check_date, status, recorded_value, critical_limit, blocked_menu_items, corrective_actions, recorded_by, created_at
        FROM ccp_checks WHERE ccp_id=$1 AND check_date=$2 ORDER BY created_at`
	return r.list(ctx, query, ccpID, date)
}

func (r *ccpCheckRepository) CountByRecorder(ctx context.Context, staffEmail string) (int, int, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE status='pass')
        FROM ccp_checks WHERE recorded_by=$1`
	var performed, passed int
	if err := r.pool.QueryRow(ctx, query, staffEmail).Scan(&performed, &passed); err != nil {
		return 0, 0, err
	}
	return performed, passed, nil
}

func (r *ccpCheckRepository) list(ctx context.Context, query string, args ...any) ([]domain.CCPCheck, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []domain.CCPCheck{}
	for rows.Next() {
		var check domain.CCPCheck
		if err := rows.Scan(
			&check.ID,
			&check.CCPID,
			&check.CheckDate,
			&check.Status,
			&check.RecordedValue,
			&check.CriticalLimit,
			&check.BlockedMenuItems,
			&check.CorrectiveActions,
			&check.RecordedBy,
			&check.CreatedAt,
		); err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}
