package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	obscontext "github.com/delivize/delivize/internal/observability/context"
)

const contextUserIDKey = "user_id"

// SessionGate resolves the session cookie once per request and enforces the
// protected-prefix policy against the rewritten path. Public paths never
// block: a broken session store degrades them to anonymous. Protected paths
// fail closed and redirect browsers to the login page.
func (s *Server) SessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := s.sessions.ReadToken(c); ok {
			if sess, err := s.authsvc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(contextUserIDKey, sess.UserID)
				ctx := obscontext.WithUserID(c.Request.Context(), sess.UserID.String())
				c.Request = c.Request.WithContext(ctx)
			}
		}

		_, authenticated := currentUserID(c)
		redirectTo, allowed := s.gate.Authorize(c.Request.URL.Path, authenticated)
		if allowed {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}
		AbortWithError(c, ErrUnauthorized)
	}
}

// AuthRequired rejects requests that did not resolve to a session upstream.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

func (s *Server) mustUserID(c *gin.Context) (snowflake.ID, bool) {
	id, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
	}
	return id, ok
}
