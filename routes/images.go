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

// SetupImageRoutes registers the gallery endpoints; admin carries the
// session and role guards.
func SetupImageRoutes(public, admin gin.IRoutes, cfg *config.Config, gallery *services.GalleryService) {
	admin.POST("/upload", middleware.RequestSizeLimit(cfg.MaxUploadSize), HandleImageUpload(gallery))

	public.GET("/images", HandleListImages(gallery))
	admin.POST("/images", HandleRegisterImage(gallery))
	admin.PUT("/images/:id", HandleUpdateImage(gallery))
	admin.DELETE("/images/:id", HandleDeleteImage(gallery))
}

// HandleImageUpload sends the multipart "image" field to the asset store.
func HandleImageUpload(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			// Bodies without a Content-Length only hit the limit while parsing.
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum size")
				return
			}
			utils.RespondWithBadRequest(c, "Field 'image' must contain a file")
			return
		}
		if !utils.IsValidImageType(file.Header.Get("Content-Type")) {
			utils.RespondWithBadRequest(c, "Field 'image' must be an image")
			return
		}

		asset, err := gallery.UploadImage(c.Request.Context(), file)
		if err != nil {
			logger.Error("Upload error", "error", err, "filename", file.Filename, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to upload image")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Image uploaded",
			"data":    asset,
		})
	}
}

func HandleListImages(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		images, err := gallery.ListImages(c.Request.Context())
		if err != nil {
			logger.Error("Get images error", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to load images")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": images})
	}
}

func HandleRegisterImage(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "imageUrl is required")
			return
		}

		image, err := gallery.Register(c.Request.Context(), req)
		if err != nil {
			logger.Error("Save image error", "error", err, "request_id", middleware.GetRequestID(c))
			utils.RespondWithInternalError(c, "Failed to save image")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Image saved",
			"data":    image,
		})
	}
}

func HandleUpdateImage(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "imageUrl is required")
			return
		}

		image, err := gallery.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondGalleryError(c, err, "Failed to update image")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Image updated",
			"data":    image,
		})
	}
}

func HandleDeleteImage(gallery *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gallery.Remove(c.Request.Context(), c.Param("id")); err != nil {
			respondGalleryError(c, err, "Failed to delete image")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted"})
	}
}

func respondGalleryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound):
		utils.RespondWithNotFound(c, "Image data not found")
	case errors.Is(err, models.ErrImageNotFound):
		utils.RespondWithNotFound(c, "Image not found")
	case errors.Is(err, models.ErrConcurrentModification):
		utils.RespondWithConflict(c, "Images were changed by another request, reload and try again")
	default:
		logger.Error(fallback, "error", err, "image_id", c.Param("id"), "request_id", middleware.GetRequestID(c))
		utils.RespondWithInternalError(c, fallback)
	}
}
