package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInternal     = errors.New("internal server error")
)

// Plan registry errors
var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPlanCreatorMismatch = errors.New("plan does not belong to this creator")
	ErrPlanInactive        = errors.New("plan is not accepting new subscriptions")
)

// Pricing / promo errors
var (
	ErrPromoNotFound = errors.New("promo code not found")
	ErrInvalidPromo  = errors.New("promo code is invalid or not applicable")
	ErrPromoExpired  = errors.New("promo code has expired")
)

// Subscription state machine errors
var (
	ErrPriceOutOfBounds     = errors.New("plan price is outside the allowed range")
	ErrSelfSubscription     = errors.New("creators cannot subscribe to themselves")
	ErrAlreadySubscribed    = errors.New("an active subscription to this creator already exists")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotAuthorized        = errors.New("only the subscriber can modify this subscription")
	ErrAlreadyInactive      = errors.New("subscription is not active")
)

// Default-plan selector errors
var (
	ErrInvalidPlan      = errors.New("plan does not exist or belongs to another creator")
	ErrPlanTypeMismatch = errors.New("plan price does not match the requested subscription type")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
