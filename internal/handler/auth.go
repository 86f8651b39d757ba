package handler

import (
	"net/http"

	"shortlink-service/internal/model"
	"shortlink-service/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 管理员登录和退出
type AuthHandler struct {
	admin    model.Admin
	sessions *session.Manager
	logger   *zap.SugaredLogger
}

// NewAuthHandler 创建一个新的 AuthHandler
func NewAuthHandler(admin model.Admin, sessions *session.Manager, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{admin: admin, sessions: sessions, logger: logger.Named("auth_handler")}
}

type loginPage struct {
	Error string
}

// LoginPage 登录表单
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

// Login 校验用户名和密码，成功后写入会话并进入管理后台
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !h.admin.Authenticate(username, password) {
		h.logger.Warnw("登录失败", "username", username, "ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{Error: "用户名或密码错误"})
		return
	}

	if err := h.sessions.Login(c, username); err != nil {
		h.logger.Errorf("生成会话失败: %v", err)
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "error.html", nil)
		return
	}

	h.logger.Infow("管理员登录", "username", username, "ip", c.ClientIP())
	c.Redirect(http.StatusFound, "/admin")
}

// Logout 清除会话
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/login")
}
