package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	approvalsapp "github.com/onlineshop/backend/internal/domains/approvals/application"
	approvalsdomain "github.com/onlineshop/backend/internal/domains/approvals/domain"
	apierrors "github.com/onlineshop/backend/internal/shared/errors"
)

// ShipmentAPI exposes the shipment decision callback that is linked from the
// approval email.
type ShipmentAPI struct {
	decisions *approvalsapp.Service
	responder *apierrors.ChainedResponder
}

// NewShipmentAPI creates a ShipmentAPI backed by the decision service.
func NewShipmentAPI(decisions *approvalsapp.Service, responder *apierrors.ChainedResponder) ShipmentAPI {
	return ShipmentAPI{decisions: decisions, responder: responder}
}

// Get /v2/shipment/decision
// Records the human approve/reject decision for a pending shipment.
func (api *ShipmentAPI) SubmitDecision(c *gin.Context) {
	input := approvalsapp.SubmitDecisionInput{
		OrderID: c.Query("orderId"),
		Token:   c.Query("taskToken"),
		Result:  c.Query("result"),
	}
	receipt, err := api.decisions.SubmitDecision(c.Request.Context(), input)
	if err != nil {
		// A second click on the same link, or a click after the deadline,
		// is informational rather than an error to the person clicking.
		if errors.Is(err, approvalsdomain.ErrTokenAlreadyResolved) || errors.Is(err, approvalsdomain.ErrTokenExpired) {
			c.JSON(http.StatusOK, gin.H{"message": "Decision already recorded."})
			return
		}
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": receipt.Message()})
}
