package routes

import (
	"net/http"

	"skb-backend/internal/logger"
	"skb-backend/middleware"
	"skb-backend/models"
	"skb-backend/services"
	"skb-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupStatsRoutes(public, admin gin.IRoutes, stats *services.StatsService) {
	admin.POST("/updatePesertaPaket", func(c *gin.Context) {
		var req models.PesertaPaketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Counts must be non-negative numbers")
			return
		}

		if err := stats.UpdatePesertaPaket(c.Request.Context(), req); err != nil {
			logger.Error("Error updating peserta paket", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to update peserta paket statistics")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Peserta paket statistics updated"})
	})

	public.GET("/pesertaPaket", func(c *gin.Context) {
		counts, err := stats.GetPesertaPaket(c.Request.Context())
		if err != nil {
			logger.Error("Error fetching peserta paket", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to load peserta paket statistics")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
	})
}
