package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部路由，adminMiddleware 保护 /admin 和 /toggle
func RegisterRoutes(
	router *gin.Engine,
	urlHandler *ShortLinkHandler,
	authHandler *AuthHandler,
	adminMiddleware gin.HandlerFunc,
) {
	router.GET("/", urlHandler.IndexPage)
	router.POST("/", urlHandler.CreateShortLink)
	router.GET("/health", urlHandler.HealthCheck)
	router.GET("/stats/:code", urlHandler.StatsPage)

	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	admin := router.Group("")
	admin.Use(adminMiddleware)
	{
		admin.GET("/admin", urlHandler.AdminPage)
		admin.GET("/toggle/:code", urlHandler.ToggleLink)
	}

	// 短码跳转放在最后注册，静态路由优先匹配
	router.GET("/:code", urlHandler.RedirectToOriginal)
}
