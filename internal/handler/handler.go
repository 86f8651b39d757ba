package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"shortlink-service/internal/model"
	"shortlink-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShortLinkHandler 处理器
type ShortLinkHandler struct {
	links   *service.LinkService
	baseURL string
	logger  *zap.SugaredLogger
}

// NewShortLinkHandler 创建处理器实例。baseURL 为空时按请求的 Host 拼接短链接。
func NewShortLinkHandler(links *service.LinkService, baseURL string, logger *zap.SugaredLogger) *ShortLinkHandler {
	return &ShortLinkHandler{
		links:   links,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("shortlink_handler"),
	}
}

// indexPage 首页模板数据
type indexPage struct {
	URL      string
	Custom   string
	Expiry   string
	ShortURL string
	Message  string
}

type statsPage struct {
	Link    *model.ShortLink
	Expired bool
}

type adminPage struct {
	Username string
	Links    []model.ShortLink
	Summary  model.Summary
}

// IndexPage 首页表单
func (h *ShortLinkHandler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage{})
}

// HealthCheck 健康检查
func (h *ShortLinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// CreateShortLink 处理首页表单提交
func (h *ShortLinkHandler) CreateShortLink(c *gin.Context) {
	page := indexPage{
		URL:    c.PostForm("url"),
		Custom: c.PostForm("custom"),
		Expiry: c.PostForm("expiry"),
	}

	link, err := h.links.Create(c.Request.Context(), service.CreateInput{
		URL:        page.URL,
		CustomCode: page.Custom,
		ExpiresAt:  page.Expiry,
	})
	if err != nil {
		status, message, ok := createErrorMessage(err)
		if !ok {
			h.serverError(c, "创建短链接失败", err)
			return
		}
		page.Message = message
		c.HTML(status, "index.html", page)
		return
	}

	h.logger.Infow("短链接已创建", "code", link.ShortCode, "url", link.OriginalURL)
	c.HTML(http.StatusOK, "index.html", indexPage{ShortURL: h.shortURL(c, link.ShortCode)})
}

// createErrorMessage 把可由用户修正的错误转换为状态码和提示
func createErrorMessage(err error) (int, string, bool) {
	switch {
	case errors.Is(err, service.ErrEmptyURL):
		return http.StatusBadRequest, "请输入要缩短的链接", true
	case errors.Is(err, service.ErrReservedCode):
		return http.StatusBadRequest, "该短码为系统保留，请换一个", true
	case errors.Is(err, service.ErrInvalidCode):
		return http.StatusBadRequest, "短码只能包含字母、数字、- 和 _，最长 32 位", true
	case errors.Is(err, service.ErrInvalidExpiry):
		return http.StatusBadRequest, "过期时间格式无效", true
	case errors.Is(err, service.ErrCodeExists):
		return http.StatusConflict, "短码已存在，请换一个再试", true
	default:
		return 0, "", false
	}
}

// RedirectToOriginal 跳转到原始链接并记一次点击
func (h *ShortLinkHandler) RedirectToOriginal(c *gin.Context) {
	code := c.Param("code")

	link, err := h.links.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) || errors.Is(err, service.ErrLinkUnavailable) {
			h.notFound(c)
			return
		}
		h.serverError(c, "解析短链接失败", err)
		return
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

// StatsPage 展示单个短链接的统计，不论是否启用或过期
func (h *ShortLinkHandler) StatsPage(c *gin.Context) {
	link, err := h.links.Stats(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "查询统计失败", err)
		return
	}

	c.HTML(http.StatusOK, "stats.html", statsPage{Link: link, Expired: link.IsExpired(h.links.Now())})
}

// AdminPage 管理后台，列出全部链接
func (h *ShortLinkHandler) AdminPage(c *gin.Context) {
	ctx := c.Request.Context()

	links, err := h.links.List(ctx)
	if err != nil {
		h.serverError(c, "获取链接失败", err)
		return
	}
	summary, err := h.links.Summary(ctx)
	if err != nil {
		h.serverError(c, "统计失败", err)
		return
	}

	c.HTML(http.StatusOK, "admin.html", adminPage{
		Username: c.GetString("username"),
		Links:    links,
		Summary:  summary,
	})
}

// ToggleLink 切换启用状态后回到管理后台
func (h *ShortLinkHandler) ToggleLink(c *gin.Context) {
	code := c.Param("code")

	link, err := h.links.Toggle(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "切换状态失败", err)
		return
	}

	h.logger.Infow("链接状态已切换", "code", code, "is_active", link.IsActive, "by", c.GetString("username"))
	c.Redirect(http.StatusFound, "/admin")
}

func (h *ShortLinkHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "expired.html", nil)
}

func (h *ShortLinkHandler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Errorf("%s: %v", msg, err)
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", nil)
}

// shortURL 拼接完整短链接
func (h *ShortLinkHandler) shortURL(c *gin.Context, code string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + code
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + "/" + code
}
