package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRandSalt(t *testing.T) {
	a, b := RandSalt(16), RandSalt(16)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestParamsAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		path string
		id   uint64
		ok   bool
		page int
	}{
		{"/items/12?page=3", 12, true, 3},
		{"/items/0?page=x", 0, false, 0},
		{"/items/-4", 0, false, 0},
		{"/items/abc?page=-2", 0, false, -2},
	}
	for _, tt := range tests {
		engine := gin.New()
		engine.GET("/items/:id", func(c *gin.Context) {
			id, ok := ParamUint64(c, "id")
			assert.Equal(t, tt.ok, ok, tt.path)
			if ok {
				assert.Equal(t, tt.id, id, tt.path)
			}
			assert.Equal(t, tt.page, QueryInt(c, "page"), tt.path)
			c.Status(http.StatusOK)
		})
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
	}
}

func TestCacheRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use((&CacheRouter{CacheTime: CacheNoCache}).Handler())
	engine.GET("/default", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/cached", func(c *gin.Context) {
		SetCache(c, CacheWeek)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/default", nil))
	assert.Equal(t, "no-cache", w.Header().Get("cache-control"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	assert.Equal(t, "private, max-age=604800", w.Header().Get("cache-control"))
}

func TestErrorLogMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := gin.New()
	engine.Use(ErrorLogMiddleware(log))
	engine.GET("/fail", func(c *gin.Context) { c.JSON(http.StatusTeapot, gin.H{"error": "short and stout"}) })
	engine.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"error": ""}) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, logs.String())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, logs.String(), "short and stout")
	assert.Contains(t, logs.String(), "status=418")
}
