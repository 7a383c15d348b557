package handlers

import (
	"net/http"

	"launchcontrol/internal/handlers/business"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
)

// CheckIdentity returns whether a name+ticker pair is still available.
// This is a pre-flight UI check only: availability here does not reserve
// anything, and a concurrent launch can still win the pair.
func CheckIdentity(c *gin.Context) {
	name := c.Query("name")
	ticker := c.Query("ticker")
	if name == "" || ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and ticker are required"})
		return
	}

	available, existingMint, err := business.CheckIdentity(dbconfig.DB, name, ticker)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"available": available}
	if !available {
		resp["existing_mint"] = existingMint
	}
	c.JSON(http.StatusOK, resp)
}
