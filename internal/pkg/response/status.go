// internal/pkg/response/status.go
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	xerrors "primeplus-service/internal/pkg/errors"
)

// FromError maps the engine's sentinel errors onto HTTP status codes and
// sends the standard error envelope. Unknown errors become 500s.
func FromError(c *gin.Context, message string, err error) {
	Error(c, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrPlanNotFound),
		errors.Is(err, xerrors.ErrSubscriptionNotFound),
		errors.Is(err, xerrors.ErrPromoNotFound),
		errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, xerrors.ErrPlanCreatorMismatch),
		errors.Is(err, xerrors.ErrNotAuthorized),
		errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, xerrors.ErrAlreadySubscribed),
		errors.Is(err, xerrors.ErrAlreadyInactive),
		errors.Is(err, xerrors.ErrPlanInactive),
		errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, xerrors.ErrPriceOutOfBounds),
		errors.Is(err, xerrors.ErrSelfSubscription),
		errors.Is(err, xerrors.ErrInvalidPromo),
		errors.Is(err, xerrors.ErrPromoExpired),
		errors.Is(err, xerrors.ErrInvalidPlan),
		errors.Is(err, xerrors.ErrPlanTypeMismatch),
		errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
