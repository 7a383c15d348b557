package handlers

import (
	"net/http"

	"launchcontrol/internal/handlers/business"
	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// ClaimFeesRequest represents the request body for claiming accrued fees
type ClaimFeesRequest struct {
	Mint    string `json:"mint" binding:"required"`
	Wallet  string `json:"wallet" binding:"required"`
	FeeKind string `json:"fee_kind" binding:"required"`
}

// GetClaimableFees returns the unclaimed fee total for a (mint, wallet,
// kind)
func GetClaimableFees(c *gin.Context) {
	mint := c.Query("mint")
	wallet := c.Query("wallet")
	kind := c.DefaultQuery("fee_kind", models.FeeKindCreator)

	if mint == "" || wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mint and wallet are required"})
		return
	}
	if kind != models.FeeKindCreator && kind != models.FeeKindPlatform {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fee_kind must be creator or platform"})
		return
	}

	total, err := business.ClaimableTotal(dbconfig.DB, mint, wallet, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mint": mint, "wallet": wallet, "fee_kind": kind, "claimable": total})
}

// ClaimFees atomically claims all unclaimed fees for a (mint, wallet,
// kind) and routes the claimed amount per the token's routing config.
// Claiming zero is a valid outcome, not an error: it simply means a
// concurrent claim got there first or nothing has accrued.
func ClaimFees(c *gin.Context) {
	var request ClaimFeesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.FeeKind != models.FeeKindCreator && request.FeeKind != models.FeeKindPlatform {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fee_kind must be creator or platform"})
		return
	}

	claimed, err := business.ClaimFees(dbconfig.DB, request.Mint, request.Wallet, request.FeeKind)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"claimed": claimed}
	if claimed > 0 {
		instruction, opRef, err := business.RouteAccruedFees(c.Request.Context(), dbconfig.DB, Exec, request.Mint, claimed)
		if err != nil {
			// Compensate: the transfer never happened, so the claimed
			// amount goes back on the ledger as a fresh unclaimed entry.
			if accrueErr := business.AccrueFee(dbconfig.DB, request.Mint, request.Wallet, request.FeeKind, claimed); accrueErr != nil {
				respondError(c, accrueErr)
				return
			}
			respondError(c, err)
			return
		}
		resp["route"] = instruction
		if opRef != "" {
			resp["op_ref"] = opRef
		}
	}
	c.JSON(http.StatusOK, resp)
}
