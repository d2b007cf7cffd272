package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// CCPRepository encapsulates critical control point persistence.
type CCPRepository interface {
	Create(ctx context.Context, ccp *domain.CriticalControlPoint) error
	Update(ctx context.Context, ccp *domain.CriticalControlPoint) error
	GetByID(ctx context.Context, id string) (*domain.CriticalControlPoint, error)
	ListActive(ctx context.Context) ([]domain.CriticalControlPoint, error)
	ListAll(ctx context.Context) ([]domain.CriticalControlPoint, error)
}

type ccpRepository struct {
	pool *pgxpool.Pool
}

// NewCCPRepository instantiates repository.
func NewCCPRepository(pool *pgxpool.Pool) CCPRepository {
	return &ccpRepository{pool: pool}
}

func (r *ccpRepository) Create(ctx context.Context, ccp *domain.CriticalControlPoint) error {
	const query = `
        INSERT INTO critical_control_points (name, is_active)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, ccp.Name, ccp.IsActive).
		Scan(&ccp.ID, &ccp.CreatedAt, &ccp.UpdatedAt)
}

func (r *ccpRepository) Update(ctx context.Context, ccp *domain.CriticalControlPoint) error {
	const query = `
        UPDATE critical_control_points SET name=$1, is_active=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, ccp.Name, ccp.IsActive, ccp.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ccpRepository) GetByID(ctx context.Context, id string) (*domain.CriticalControlPoint, error) {
	const query = `
        SELECT id, name, is_active, created_at, updated_at
        FROM critical_control_points WHERE id=$1`
	var ccp domain.CriticalControlPoint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ccp.ID,
		&ccp.Name,
		&ccp.IsActive,
		&ccp.CreatedAt,
		&ccp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ccp, nil
}

func (r *ccpRepository) ListActive(ctx context.Context) ([]domain.CriticalControlPoint, error) {
	return r.list(ctx, `
        SELECT id, name, is_active, created_at, updated_at
        FROM critical_control_points WHERE is_active ORDER BY name`)
}

func (r *ccpRepository) ListAll(ctx context.Context) ([]domain.CriticalControlPoint, error) {
	return r.list(ctx, `
        SELECT id, name, is_active, created_at, updated_at
        FROM critical_control_points ORDER BY name`)
}

func (r *ccpRepository) list(ctx context.Context, query string) ([]domain.CriticalControlPoint, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ccps := []domain.CriticalControlPoint{}
	for rows.Next() {
		var ccp domain.CriticalControlPoint
		if err := rows.Scan(&ccp.ID, &ccp.Name, &ccp.IsActive, &ccp.CreatedAt, &ccp.UpdatedAt); err != nil {
			return nil, err
		}
		ccps = append(ccps, ccp)
	}
	return ccps, rows.Err()
}
