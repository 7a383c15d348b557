package handlers

import (
	"context"
	"net/http"
	"time"

	"launchcontrol/internal/handlers/business"
	dbconfig "launchcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TradeRequest represents the request body for a bonding phase trade.
// Amount is gross base currency in lamports for buys, token amount for
// sells.
type TradeRequest struct {
	Mint        string `json:"mint" binding:"required"`
	Trader      string `json:"trader" binding:"required"`
	Side        string `json:"side" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	SlippageBps int    `json:"slippage_bps"`
}

// RecordTrade executes a buy or sell against a token's bonding pool and
// returns fees, the new collected total, and whether this trade crossed
// the finalization threshold.
func RecordTrade(c *gin.Context) {
	var request TradeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tiers, err := business.LoadFeeTierTable(dbconfig.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := business.ExecuteTrade(c.Request.Context(), dbconfig.DB, Exec, tiers, business.TradeRequest{
		Mint:        request.Mint,
		Trader:      request.Trader,
		Side:        request.Side,
		Amount:      request.Amount,
		SlippageBps: request.SlippageBps,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.TriggeredFinalization {
		publishFinalize(request.Mint)
	}

	c.JSON(http.StatusOK, result)
}

// publishFinalize enqueues the finalization job for the worker. A publish
// failure is logged but not surfaced: the token is already in finalizing
// and the recovery schedule will pick it up.
func publishFinalize(mint string) {
	log := logrus.WithField("mint", mint)

	if _, err := business.EnsureFinalizationJob(dbconfig.DB, mint); err != nil {
		log.WithError(err).Error("Failed to create finalization job")
	}

	if dbconfig.RabbitMQ == nil {
		log.Warn("RabbitMQ not configured, finalization left to recovery pass")
		return
	}

	publisher, err := dbconfig.NewPublisher(dbconfig.QueueFinalize)
	if err != nil {
		log.WithError(err).Error("Failed to create publisher")
		return
	}
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := publisher.PublishJSON(ctx, business.FinalizeMessage{Mint: mint}); err != nil {
		log.WithError(err).Error("Failed to publish finalize message")
		return
	}
	log.Info("Bonding target crossed, finalization enqueued")
}
