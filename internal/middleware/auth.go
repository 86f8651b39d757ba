package middleware

import (
	"net/http"

	"shortlink-service/internal/session"

	"github.com/gin-gonic/gin"
)

// LoginPath 未登录时跳转的页面
const LoginPath = "/login"

// AdminRequired 管理员会话校验中间件，未登录直接跳转到登录页
func AdminRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessions.Current(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("username", claims.Username)
		c.Next()
	}
}
