package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/models"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined responses
	OKResponse            = Response{}
	InvalidIDResponse     = Response{"invalid id"}
	BadRequestResponse    = Response{"malformed request"}
	InternalErrorResponse = Response{"internal server error"}
	NotFoundResponse      = Response{models.ErrNotFound.Error()}
)

// respond maps the error taxonomy to status codes. Only unexpected errors
// are logged; validation and not-found are ordinary outcomes.
func (h *Handlers) respond(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		switch verr.Reason {
		case models.ReasonUnsupportedType:
			status = http.StatusUnsupportedMediaType
		case models.ReasonTooLarge:
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, Response{verr.Message})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, NotFoundResponse)
	default:
		h.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, InternalErrorResponse)
	}
}
