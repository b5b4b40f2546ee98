package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/models"
)

// User is authenticated and has one of the required roles
type HandlerFunc func(c *gin.Context, user *models.User)

type UserLoader interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
}

// Router is a wrapper that adds auth checks + User pre-loading
type Router struct {
	Base  gin.IRouter
	Users UserLoader
}

type errorResponse struct {
	Error string `json:"error"`
}

func (cr *Router) currentUser(c *gin.Context) *models.User {
	id := LoadSession(c).UserID()
	if id == 0 {
		return nil
	}
	user, err := cr.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return user
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Role) {
	user := cr.currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, errorResponse{"access denied"})
		return
	}
	if !user.HasRole(required) {
		c.JSON(http.StatusForbidden, errorResponse{"forbidden"})
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required ...models.Role) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

// OptionalGET passes a nil user to anonymous callers instead of refusing them.
func (cr *Router) OptionalGET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		handler(c, cr.currentUser(c))
	})
}
