package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "resume-backend/internal/transport/http/response"
)

func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString("rid")),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				resp.AbortFail(c, http.StatusInternalServerError, "internal error")
			}
		}()
		c.Next()
	}
}
