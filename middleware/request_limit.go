package middleware

import (
	"net/http"

	"skb-backend/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit rejects bodies above maxSize and caps the reader so a
// missing or lying Content-Length cannot get past the limit either.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum size")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
