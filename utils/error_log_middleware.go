package utils

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type errorLogWriter struct {
	gin.ResponseWriter
	gc  *gin.Context
	log *slog.Logger
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	status := w.gc.Writer.Status()
	if status >= 400 {
		w.log.Debug("error response", "status", status, "path", w.gc.Request.URL.Path, "body", string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs every error body. It doesn't work with GZIP
func ErrorLogMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &errorLogWriter{gc: c, ResponseWriter: c.Writer, log: log}
		c.Next()
	}
}
