package session

import (
	"context"
	"net/http"
	"time"

	auth "shortlink-service/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "session_claims"

// Options cookie 相关设置
type Options struct {
	CookieName string
	Secure     bool
}

// Manager 用签名 cookie 保存管理员登录状态
type Manager struct {
	tokens      *auth.TokenManager
	revocations Revocations
	opts        Options
	logger      *zap.SugaredLogger
}

// NewManager revocations 可以为 nil，此时注销只清除 cookie
func NewManager(tokens *auth.TokenManager, revocations Revocations, opts Options, logger *zap.SugaredLogger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "shortlink_session"
	}
	return &Manager{
		tokens:      tokens,
		revocations: revocations,
		opts:        opts,
		logger:      logger.Named("session"),
	}
}

// Login 签发令牌并写入 cookie
func (m *Manager) Login(c *gin.Context, username string) error {
	token, _, err := m.tokens.GenerateToken(username)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.tokens.TTL()/time.Second))
	return nil
}

// Current 返回当前请求的会话，cookie 缺失、无效或已注销时返回 false
func (m *Manager) Current(c *gin.Context) (*auth.Claims, bool) {
	if v, ok := c.Get(claimsKey); ok {
		claims, ok := v.(*auth.Claims)
		return claims, ok
	}

	token, err := c.Cookie(m.opts.CookieName)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, false
	}

	if m.revocations != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			m.logger.Warnf("查询会话注销状态失败: %v", err)
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}

	c.Set(claimsKey, claims)
	return claims, true
}

// Logout 注销当前令牌并清除 cookie
func (m *Manager) Logout(c *gin.Context) {
	if claims, ok := m.Current(c); ok && m.revocations != nil && claims.ExpiresAt != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := m.revocations.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			m.logger.Errorf("注销会话失败: %v", err)
		}
	}
	m.setCookie(c, "", -1)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}
