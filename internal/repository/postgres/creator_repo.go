// internal/repository/postgres/creator_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"primeplus-service/internal/domain/creator"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CreatorRepository struct {
	db *pgxpool.Pool
}

func NewCreatorRepository(db *pgxpool.Pool) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// FindByID retrieves a creator record.
func (r *CreatorRepository) FindByID(ctx context.Context, id string) (*creator.Creator, error) {
	query := `
		SELECT id, default_plan_id, default_plan_type, created_at, updated_at
		FROM creators
		WHERE id = $1
	`

	var c creator.Creator
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.DefaultPlanID, &c.DefaultPlanType, &c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find creator: %w", err)
	}

	return &c, nil
}

// SetDefaultPlan upserts the creator's default-plan selection.
func (r *CreatorRepository) SetDefaultPlan(ctx context.Context, creatorID string, planID *string, planType creator.SubscriptionType) error {
	query := `
		INSERT INTO creators (id, default_plan_id, default_plan_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			default_plan_id = EXCLUDED.default_plan_id,
			default_plan_type = EXCLUDED.default_plan_type,
			updated_at = NOW()
	`

	var planIDValue sql.NullString
	if planID != nil {
		planIDValue = sql.NullString{String: *planID, Valid: true}
	}

	if _, err := r.db.Exec(ctx, query, creatorID, planIDValue, string(planType)); err != nil {
		return fmt.Errorf("failed to set default plan: %w", err)
	}

	return nil
}
