package api

import (
	"errors"

	approvalsapp "github.com/onlineshop/backend/internal/domains/approvals/application"
	approvalsdomain "github.com/onlineshop/backend/internal/domains/approvals/domain"
	catalogapp "github.com/onlineshop/backend/internal/domains/catalog/application"
	catalogdomain "github.com/onlineshop/backend/internal/domains/catalog/domain"
	catalogports "github.com/onlineshop/backend/internal/domains/catalog/ports"
	ordersapp "github.com/onlineshop/backend/internal/domains/orders/application"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	apierrors "github.com/onlineshop/backend/internal/shared/errors"
)

// newResponder builds the responder used by all handlers, with the
// application error taxonomy mapped onto problem responses.
func newResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("",
		mapApprovalErrors,
		mapOrderErrors,
		mapCatalogErrors,
	)
}

func mapApprovalErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, approvalsapp.ErrInvalidRequest):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, approvalsapp.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, approvalsdomain.ErrTokenNotFound):
		return apierrors.ErrNotFound.WithDetail("approval token not found"), true
	case errors.Is(err, approvalsdomain.ErrDuplicateActiveExecution):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, catalogdomain.ErrMissingName),
		errors.Is(err, catalogdomain.ErrInvalidPrice):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
