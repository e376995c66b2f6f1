// internal/repository/postgres/promo_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"primeplus-service/internal/domain/promo"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type PromoRepository struct {
	db *pgxpool.Pool
}

func NewPromoRepository(db *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoColumns = `id, creator_id, code, discount_percent, applicable_plan_ids,
	       is_active, expires_at, created_at, updated_at`

// Create inserts a new promo code, assigning its id and server timestamps.
func (r *PromoRepository) Create(ctx context.Context, p *promo.PromoCode) error {
	query := `
		INSERT INTO promo_codes (
			id, creator_id, code, discount_percent, applicable_plan_ids,
			is_active, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if p.ID == "" {
		p.ID = ulid.Make().String()
	}

	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.CreatorID, p.Code, p.DiscountPercent, p.ApplicablePlanIDs,
		p.IsActive, p.ExpiresAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create promo code: %w", err)
	}

	return nil
}

// FindByID retrieves a promo code by ID
func (r *PromoRepository) FindByID(ctx context.Context, id string) (*promo.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1`

	var p promo.PromoCode
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CreatorID, &p.Code, &p.DiscountPercent, &p.ApplicablePlanIDs,
		&p.IsActive, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promo code: %w", err)
	}

	return &p, nil
}

// FindActiveByCode matches a creator's active promo by exact code.
func (r *PromoRepository) FindActiveByCode(ctx context.Context, creatorID, code string) (*promo.PromoCode, error) {
	query := `
		SELECT ` + promoColumns + `
		FROM promo_codes
		WHERE creator_id = $1 AND code = $2 AND is_active = TRUE
	`

	var p promo.PromoCode
	err := r.db.QueryRow(ctx, query, creatorID, code).Scan(
		&p.ID, &p.CreatorID, &p.Code, &p.DiscountPercent, &p.ApplicablePlanIDs,
		&p.IsActive, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promo code: %w", err)
	}

	return &p, nil
}

// FindByCreator retrieves all of a creator's promo codes, newest first.
func (r *PromoRepository) FindByCreator(ctx context.Context, creatorID string) ([]promo.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE creator_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	defer rows.Close()

	var promos []promo.PromoCode
	for rows.Next() {
		var p promo.PromoCode
		if err := rows.Scan(
			&p.ID, &p.CreatorID, &p.Code, &p.DiscountPercent, &p.ApplicablePlanIDs,
			&p.IsActive, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		promos = append(promos, p)
	}

	return promos, rows.Err()
}

// Update persists the full promo record and restamps updated_at.
func (r *PromoRepository) Update(ctx context.Context, p *promo.PromoCode) error {
	query := `
		UPDATE promo_codes
		SET discount_percent = $1, applicable_plan_ids = $2,
		    is_active = $3, expires_at = $4, updated_at = $5
		WHERE id = $6
	`

	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		ctx, query,
		p.DiscountPercent, p.ApplicablePlanIDs,
		p.IsActive, p.ExpiresAt, p.UpdatedAt, p.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrPromoNotFound
	}

	return nil
}

// Delete removes a promo code.
func (r *PromoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM promo_codes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrPromoNotFound
	}

	return nil
}
