package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIdKey = "id"

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(id uint64) error {
	s.Set(userIdKey, id)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// UserID returns 0 when nobody is logged in.
func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}
