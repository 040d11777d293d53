package response

import "github.com/gin-gonic/gin"

// 统一信封：成功 {ok:true, ...}，失败 {ok:false, error:"..."}，
// HTTP 状态码即业务状态码。

func OK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// AbortFail 中间件用：终止后续 handler
func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}
