package routing

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Rewriter owns the per-request rewrite flow: classify the Host header,
// translate the path, and re-dispatch through the engine so the canonical
// route handles the request.
type Rewriter struct {
	engine        *gin.Engine
	primaryDomain string
	previewMarker string
}

func NewRewriter(engine *gin.Engine, primaryDomain, previewMarker string) *Rewriter {
	return &Rewriter{
		engine:        engine,
		primaryDomain: primaryDomain,
		previewMarker: previewMarker,
	}
}

// Middleware performs the hostname rewrite. It must be registered before any
// route group so tenant hosts reach the canonical "/{subdomain}" and
// "/custom/{host}" routes. Classification is idempotent: the re-dispatched
// request passes through here again and classifies Internal.
func (rw *Rewriter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := Classify(c.Request.Host, rw.primaryDomain, rw.previewMarker, c.Request.URL.Path)

		newPath, changed := Rewrite(decision, c.Request.URL.Path)
		if !changed {
			c.Next()
			return
		}

		zap.L().Debug("host rewrite",
			zap.String("host", c.Request.Host),
			zap.String("from", c.Request.URL.Path),
			zap.String("to", newPath),
		)

		c.Request.URL.Path = newPath
		rw.engine.HandleContext(c)
		c.Abort()
	}
}
