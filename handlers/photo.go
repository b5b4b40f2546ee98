package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/models"
	"photoshare/service"
	"photoshare/utils"
)

type photoUpdateRequest struct {
	Title         *string   `json:"title"`
	Caption       *string   `json:"caption"`
	Location      *string   `json:"location"`
	PeoplePresent *[]string `json:"people_present"`
}

func (h *Handlers) PhotoList(c *gin.Context) {
	page, err := h.Catalog.GetCatalogPage(c.Request.Context(), service.CatalogQuery{
		Page:      utils.QueryInt(c, "page"),
		Limit:     utils.QueryInt(c, "limit"),
		Search:    c.Query("search"),
		Location:  c.Query("location"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) PhotoDetail(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	var viewerID *uint64
	if user != nil {
		viewerID = &user.ID
	}
	detail, err := h.Catalog.GetPhotoDetail(c.Request.Context(), id, viewerID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handlers) MyPhotos(c *gin.Context, user *models.User) {
	page, err := h.Catalog.ListByCreator(c.Request.Context(), user.ID, utils.QueryInt(c, "page"), utils.QueryInt(c, "limit"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) PhotoUpdate(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	var req photoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	photo, err := h.Photos.Update(c.Request.Context(), id, user.ID, models.PhotoUpdate{
		Title:         req.Title,
		Caption:       req.Caption,
		Location:      req.Location,
		PeoplePresent: req.PeoplePresent,
	})
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *Handlers) PhotoDelete(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	if err := h.Photos.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// PhotoFile serves the original, or the thumbnail with ?thumb=1
func (h *Handlers) PhotoFile(c *gin.Context) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	photo, err := h.Catalog.FindPhoto(c.Request.Context(), id)
	if err != nil {
		h.respond(c, err)
		return
	}
	path, contentType := photo.FilePath, photo.MimeType
	if c.Query("thumb") == "1" {
		if photo.ThumbnailPath == nil {
			c.JSON(http.StatusNotFound, NotFoundResponse)
			return
		}
		path, contentType = *photo.ThumbnailPath, "image/jpeg"
	}
	// Type sniffed on upload, never the one implied by the path
	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	utils.SetCache(c, utils.CacheWeek)
	h.Store.Serve(path, c.Request, c.Writer)
}
