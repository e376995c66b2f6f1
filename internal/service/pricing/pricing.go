// internal/service/pricing/pricing.go
package pricing

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"time"

	"primeplus-service/internal/config"
	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/domain/promo"
	xerrors "primeplus-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Calculator validates promo codes against a plan and computes the final
// subscription price.
type Calculator struct {
	promoRepo promo.Repository
	policy    config.PricingPolicy
	logger    *zap.Logger
}

func NewCalculator(promoRepo promo.Repository, policy config.PricingPolicy, logger *zap.Logger) *Calculator {
	return &Calculator{
		promoRepo: promoRepo,
		policy:    policy,
		logger:    logger,
	}
}

// ApplyPromo computes the price a subscriber pays for the plan when the
// given code is applied. An empty code is not an error: the plan price is
// returned with no application record.
func (c *Calculator) ApplyPromo(ctx context.Context, p *plan.Plan, code string, now time.Time) (float64, *promo.Application, error) {
	if code == "" {
		return p.Price, nil, nil
	}

	pc, err := c.promoRepo.FindActiveByCode(ctx, p.CreatorID, code)
	if errors.Is(err, xerrors.ErrPromoNotFound) {
		return 0, nil, xerrors.ErrInvalidPromo
	}
	if err != nil {
		return 0, nil, err
	}

	if !pc.AppliesTo(p.ID) {
		return 0, nil, xerrors.ErrInvalidPromo
	}

	if pc.IsExpired(now) {
		return 0, nil, xerrors.ErrPromoExpired
	}

	discount := new(big.Rat).Quo(decimalRat(pc.DiscountPercent), big.NewRat(100, 1))
	exact := new(big.Rat).Mul(decimalRat(p.Price), new(big.Rat).Sub(big.NewRat(1, 1), discount))
	finalPrice := roundHalfUp(exact, c.policy.PromoPriceScale)

	c.logger.Info("promo code applied",
		zap.String("promo_id", pc.ID),
		zap.String("plan_id", p.ID),
		zap.Float64("discount_percent", pc.DiscountPercent),
		zap.Float64("final_price", finalPrice),
	)

	return finalPrice, &promo.Application{
		PromoID:         pc.ID,
		Code:            pc.Code,
		DiscountPercent: pc.DiscountPercent,
		FinalPrice:      finalPrice,
	}, nil
}

// decimalRat converts v to an exact rational via its shortest decimal
// representation, so a price of 5.02 becomes 502/100 rather than the nearest
// binary float. Rounding decisions then see the decimal value, not the
// float's binary neighborhood.
func decimalRat(v float64) *big.Rat {
	r, _ := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	return r
}

// roundHalfUp rounds v to the given number of decimal places, halves up,
// for the non-negative prices this service deals in. Operating on the exact
// rational keeps half-cent results like 5.02 at 25% off (exactly 3.765)
// rounding to 3.77 instead of falling below the half in float arithmetic.
func roundHalfUp(v *big.Rat, scale int) float64 {
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	num := new(big.Int).Mul(v.Num(), pow)
	q, r := new(big.Int).QuoRem(num, v.Denom(), new(big.Int))
	if r.Mul(r, big.NewInt(2)).Cmp(v.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	out, _ := new(big.Rat).SetFrac(q, pow).Float64()
	return out
}
