// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"primeplus-service/internal/domain/plan"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, creator_id, name, description, price, currency,
	       billing_interval, interval_count, is_active, access_level,
	       created_at, updated_at`

// Create inserts a new plan, assigning its id and server timestamps.
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (
			id, creator_id, name, description, price, currency,
			billing_interval, interval_count, is_active, access_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	if p.ID == "" {
		p.ID = ulid.Make().String()
	}

	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.CreatorID, p.Name, p.Description, p.Price, p.Currency,
		p.BillingInterval, p.IntervalCount, p.IsActive, p.AccessLevel,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan by ID
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var p plan.Plan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CreatorID, &p.Name, &p.Description, &p.Price, &p.Currency,
		&p.BillingInterval, &p.IntervalCount, &p.IsActive, &p.AccessLevel,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return &p, nil
}

// FindByCreator retrieves all of a creator's plans, newest first.
func (r *PlanRepository) FindByCreator(ctx context.Context, creatorID string) ([]plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE creator_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.Plan
	for rows.Next() {
		var p plan.Plan
		if err := rows.Scan(
			&p.ID, &p.CreatorID, &p.Name, &p.Description, &p.Price, &p.Currency,
			&p.BillingInterval, &p.IntervalCount, &p.IsActive, &p.AccessLevel,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// Update persists the full plan record and restamps updated_at.
func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE plans
		SET name = $1, description = $2, price = $3, currency = $4,
		    billing_interval = $5, interval_count = $6,
		    is_active = $7, access_level = $8, updated_at = $9
		WHERE id = $10
	`

	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		ctx, query,
		p.Name, p.Description, p.Price, p.Currency,
		p.BillingInterval, p.IntervalCount,
		p.IsActive, p.AccessLevel, p.UpdatedAt, p.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrPlanNotFound
	}

	return nil
}

// Delete removes a plan. This is an unconditional hard delete; existing
// subscriptions keep referencing the plan id and the cancellation path
// compensates with its fallback window.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM plans WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrPlanNotFound
	}

	return nil
}
