package routes

import (
	"fmt"
	"net/http"
	"time"

	"skb-backend/internal/logger"
	"skb-backend/middleware"
	"skb-backend/services"
	"skb-backend/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func SetupExportRoutes(admin gin.IRoutes, export *services.ExportService) {
	admin.GET("/export", func(c *gin.Context) {
		f, err := export.BuildWorkbook(c.Request.Context())
		if err != nil {
			logger.Error("Export failed", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to export site data")
			return
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			logger.Error("Export failed", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to export site data")
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename(time.Now())))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	})
}
