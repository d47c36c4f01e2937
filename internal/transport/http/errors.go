package http

import (
	"errors"
	"net/http"

	cartdomain "github.com/light-bringer/storefront/internal/app/cart/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
	"github.com/light-bringer/storefront/internal/app/catalog/domain"
	"github.com/light-bringer/storefront/internal/app/catalog/gateway"
	"github.com/light-bringer/storefront/internal/app/catalog/pipeline"
	"github.com/light-bringer/storefront/internal/app/catalog/usecases/save_record"
	"github.com/light-bringer/storefront/internal/app/feedback"
)

// statusFor maps domain errors to HTTP status codes and a client-safe message.
func statusFor(err error) (int, string) {
	if fe, ok := gateway.AsFetchError(err); ok {
		if fe.Status >= 400 && fe.Status < 500 {
			return http.StatusUnprocessableEntity, fe.Error()
		}
		return http.StatusBadGateway, fe.Error()
	}

	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "menu item not found"

	case errors.Is(err, domain.ErrItemNotOrderable):
		return http.StatusConflict, "menu item is not available for ordering"

	case errors.Is(err, cartdomain.ErrLineNotFound):
		return http.StatusNotFound, "item is not in the cart"

	case errors.Is(err, cartdomain.ErrEmptyItemID):
		return http.StatusBadRequest, "item_id is required"

	case errors.Is(err, feedback.ErrMessageNotFound):
		return http.StatusNotFound, "feedback message not found"

	case errors.Is(err, feedback.ErrUnknownKind), errors.Is(err, feedback.ErrEmptyText):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, contracts.ErrUnknownResource):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, save_record.ErrNotAdmin):
		return http.StatusForbidden, "admin session required"

	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// isViewRejection reports view changes the controller refused. The view
// state is unchanged, so they are answered with the current page.
func isViewRejection(err error) bool {
	return errors.Is(err, pipeline.ErrPageOutOfRange) ||
		errors.Is(err, pipeline.ErrUnknownSortField) ||
		errors.Is(err, pipeline.ErrUnknownSortOrder)
}
