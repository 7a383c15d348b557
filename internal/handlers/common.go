package handlers

import (
	"errors"
	"net/http"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/pkg/execution"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Exec is the shared execution service client used by the trade and
// finalization surfaces.
var Exec = execution.NewClient("")

// respondError maps the business error taxonomy onto HTTP status codes.
// Identity conflicts and closed bonding are the caller's problem; tier
// table and payout wallet errors are operator configuration problems and
// get a distinct 500; execution failures are transient 502s.
func respondError(c *gin.Context, err error) {
	var taken *business.IdentityTakenError
	var settled *business.TradeSettledClosedError
	switch {
	case errors.As(err, &taken):
		c.JSON(http.StatusConflict, gin.H{"error": taken.Error(), "existing_mint": taken.ExistingMint})
	case errors.As(err, &settled):
		// The swap executed but was not booked; return the tx ref so the
		// caller and operators can reconcile it.
		c.JSON(http.StatusConflict, gin.H{"error": settled.Error(), "tx_ref": settled.TxRef})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, business.ErrBondingClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bonding complete, trade on permanent pool"})
	case errors.Is(err, business.ErrMissingPayoutWallet),
		errors.Is(err, business.ErrInvalidTierTable),
		errors.Is(err, business.ErrNoTierMatched):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuration error: " + err.Error()})
	case errors.Is(err, business.ErrExecutionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
