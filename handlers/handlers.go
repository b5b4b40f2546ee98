package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"photoshare/auth"
	"photoshare/models"
	"photoshare/service"
	"photoshare/storage"
)

type Handlers struct {
	Uploader   *service.Uploader
	Catalog    *service.Catalog
	Photos     *service.Photos
	Engagement *service.Engagement
	Store      storage.StorageAPI
	DB         *gorm.DB
	TmpDir     string
	Log        *slog.Logger
}

// Register mounts the API on router. Role gates are applied here, handlers
// only deal with ownership through the services.
func (h *Handlers) Register(router gin.IRouter, users auth.UserLoader) {
	api := router.Group("/api")
	authAPI := &auth.Router{Base: api, Users: users}

	api.GET("/health", h.Health)
	api.GET("/photos", h.PhotoList)
	api.GET("/photos/:id/comments", h.CommentList)
	api.GET("/photos/:id/file", h.PhotoFile)
	authAPI.OptionalGET("/photos/:id", h.PhotoDetail)

	authAPI.POST("/photos", h.PhotoUpload, models.RoleCreator)
	authAPI.GET("/my/photos", h.MyPhotos, models.RoleCreator)
	authAPI.PUT("/photos/:id", h.PhotoUpdate, models.RoleCreator)
	authAPI.DELETE("/photos/:id", h.PhotoDelete, models.RoleCreator)

	authAPI.POST("/photos/:id/comment", h.CommentAdd, models.RoleConsumer)
	authAPI.PUT("/comments/:id", h.CommentEdit, models.RoleConsumer)
	authAPI.DELETE("/comments/:id", h.CommentDelete, models.RoleConsumer)
	authAPI.POST("/photos/:id/rate", h.RatingSave, models.RoleConsumer)
	authAPI.DELETE("/photos/:id/rate", h.RatingDelete, models.RoleConsumer)
}

func (h *Handlers) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{"database unavailable"})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
