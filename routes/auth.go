package routes

import (
	"errors"
	"net/http"

	"skb-backend/internal/config"
	"skb-backend/internal/logger"
	"skb-backend/middleware"
	"skb-backend/models"
	"skb-backend/services"
	"skb-backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, authService *services.AuthService, tokens TokenService, authMiddleware *middleware.AuthMiddleware) {
	// Login endpoint
	router.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Username and password are required")
			return
		}

		token, _, err := authService.Login(c.Request.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			utils.RespondWithUnauthorized(c, "User not found")
			return
		case errors.Is(err, models.ErrPasswordMismatch):
			utils.RespondWithUnauthorized(c, "Wrong password")
			return
		case err != nil:
			logger.Error("Login failed", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Login failed")
			return
		}

		setTokenCookie(c, cfg, token, int(tokens.TTL().Seconds()))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
	})

	// Logout endpoint
	router.POST("/logout", func(c *gin.Context) {
		setTokenCookie(c, cfg, "", -1)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
	})

	// Reports session validity; never fails
	router.GET("/verifyToken", func(c *gin.Context) {
		_, valid := authMiddleware.Authenticated(c)
		c.JSON(http.StatusOK, gin.H{"valid": valid})
	})
}

// setTokenCookie writes the session cookie; a negative maxAge clears it.
func setTokenCookie(c *gin.Context, cfg *config.Config, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", cfg.IsRelease(), true)
}
