package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"photoshare/models"
	"photoshare/processing"
	"photoshare/service"
)

// PhotoUpload stages the multipart "photo" field in TmpDir and hands it to
// the uploader. The staged copy is always removed afterwards.
func (h *Handlers) PhotoUpload(c *gin.Context, user *models.User) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"photo file is required"})
		return
	}
	people, err := parsePeople(c.PostForm("people_present"))
	if err != nil {
		h.respond(c, err)
		return
	}

	staged := filepath.Join(h.TmpDir, "upload-"+uuid.NewString())
	if err := c.SaveUploadedFile(file, staged); err != nil {
		h.respond(c, err)
		return
	}
	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			h.Log.Warn("staged upload not removed", "path", staged, "error", err)
		}
	}()

	photo, err := h.Uploader.Upload(c.Request.Context(), service.UploadRequest{
		CreatorID: user.ID,
		File: processing.StagedFile{
			Path:     staged,
			Filename: file.Filename,
			MimeType: file.Header.Get("Content-Type"),
			Size:     file.Size,
		},
		Title:         c.PostForm("title"),
		Caption:       c.PostForm("caption"),
		Location:      c.PostForm("location"),
		PeoplePresent: people,
	})
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// parsePeople accepts a JSON array of names or one plain name.
func parsePeople(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") {
		return []string{raw}, nil
	}
	var people []string
	if err := json.Unmarshal([]byte(raw), &people); err != nil {
		return nil, models.NewValidationError("people_present", models.ReasonInvalid, "people_present must be a JSON array of names")
	}
	return models.NormalizePeople(people), nil
}
