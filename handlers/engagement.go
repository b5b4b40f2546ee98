package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/models"
	"photoshare/utils"
)

type commentRequest struct {
	Content         string  `json:"content"`
	ParentCommentID *uint64 `json:"parent_comment_id"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handlers) CommentList(c *gin.Context) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	page, err := h.Engagement.ListComments(c.Request.Context(), id, utils.QueryInt(c, "page"), utils.QueryInt(c, "limit"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) CommentAdd(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	comment, err := h.Engagement.AddComment(c.Request.Context(), id, user.ID, req.Content, req.ParentCommentID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handlers) CommentEdit(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	comment, err := h.Engagement.EditComment(c.Request.Context(), id, user.ID, req.Content)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *Handlers) CommentDelete(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	if err := h.Engagement.RemoveComment(c.Request.Context(), id, user.ID); err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func (h *Handlers) RatingSave(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BadRequestResponse)
		return
	}
	result, err := h.Engagement.Rate(c.Request.Context(), id, user.ID, req.Rating)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) RatingDelete(c *gin.Context, user *models.User) {
	id, ok := utils.ParamUint64(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, InvalidIDResponse)
		return
	}
	if err := h.Engagement.RemoveRating(c.Request.Context(), id, user.ID); err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
