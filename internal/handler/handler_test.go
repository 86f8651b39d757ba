package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"shortlink-service/internal/middleware"
	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/service"
	"shortlink-service/internal/session"
	"shortlink-service/internal/shortcode"
	"shortlink-service/internal/testutil"
	auth "shortlink-service/pkg/jwt"
	"shortlink-service/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUser     = "admin"
	testPassword = "admin123"
)

var shortURLPattern = regexp.MustCompile(`id="short-url" href="(http://[^"]+)"`)

type testEnv struct {
	router *gin.Engine
	links  *service.LinkService
}

// setupTest 为集成测试初始化一个干净的环境
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()

	repo := repository.NewShortLinkRepository(testutil.NewDB(t))
	links := service.NewLinkService(repo, shortcode.NewGenerator(logger))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	admin := model.Admin{Username: testUser, PasswordHash: string(hash)}

	// 测试中不依赖 Redis，注销只清除 cookie
	sessions := session.NewManager(auth.NewManager("test-secret", "test", 1), nil, session.Options{}, logger)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	RegisterRoutes(router,
		NewShortLinkHandler(links, "", logger),
		NewAuthHandler(admin, sessions, logger),
		middleware.AdminRequired(sessions),
	)
	return &testEnv{router: router, links: links}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.postForm("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == "shortlink_session" {
			return c
		}
	}
	t.Fatal("登录后没有会话 cookie")
	return nil
}

func extractShortURL(t *testing.T, body string) string {
	t.Helper()
	m := shortURLPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "页面中应包含短链接")
	return m[1]
}

// TestShortLinkHandler_Integration 测试创建、跳转和统计的完整流程
func TestShortLinkHandler_Integration(t *testing.T) {
	env := setupTest(t)

	w := env.get("/")
	assert.Equal(t, http.StatusOK, w.Code)

	// === 步骤 1: 创建一个新的短链接 ===
	w = env.postForm("/", url.Values{"url": {"https://example.com"}, "custom": {""}, "expiry": {""}})
	require.Equal(t, http.StatusOK, w.Code)

	shortURL := extractShortURL(t, w.Body.String())
	assert.Regexp(t, `^http://example\.com/[A-Za-z0-9]{6}$`, shortURL)
	code := shortURL[strings.LastIndex(shortURL, "/")+1:]

	// === 步骤 2: 访问短链接并验证重定向 ===
	w = env.get("/" + code)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	// === 步骤 3: 统计页显示 1 次点击 ===
	w = env.get("/stats/" + code)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="clicks">1<`)
}

func TestCreate_UserErrors(t *testing.T) {
	env := setupTest(t)

	w := env.postForm("/", url.Values{"url": {"https://example.com"}, "custom": {"taken"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://example.com/taken", extractShortURL(t, w.Body.String()))

	tests := []struct {
		name   string
		form   url.Values
		status int
		msg    string
	}{
		{"重复短码", url.Values{"url": {"https://other.example"}, "custom": {"taken"}}, http.StatusConflict, "短码已存在"},
		{"保留短码", url.Values{"url": {"https://other.example"}, "custom": {"admin"}}, http.StatusBadRequest, "系统保留"},
		{"缺少链接", url.Values{"url": {""}}, http.StatusBadRequest, "请输入要缩短的链接"},
		{"非法短码", url.Values{"url": {"https://x.example"}, "custom": {"a b"}}, http.StatusBadRequest, "短码只能包含"},
		{"非法过期时间", url.Values{"url": {"https://x.example"}, "expiry": {"soon"}}, http.StatusBadRequest, "过期时间格式无效"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.postForm("/", tt.form)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
			assert.NotContains(t, w.Body.String(), `id="short-url"`)
		})
	}
}

func TestRedirect_Unavailable(t *testing.T) {
	env := setupTest(t)

	past := time.Now().Add(-time.Hour).Format("2006-01-02T15:04")
	w := env.postForm("/", url.Values{"url": {"https://old.example"}, "custom": {"old"}, "expiry": {past}})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.postForm("/", url.Values{"url": {"https://off.example"}, "custom": {"off"}})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := env.login(t)
	w = env.get("/toggle/off", cookie)
	require.Equal(t, http.StatusFound, w.Code)

	for _, code := range []string{"old", "off", "missing"} {
		w := env.get("/" + code)
		assert.Equal(t, http.StatusNotFound, w.Code, code)
		assert.Empty(t, w.Header().Get("Location"), code)
		assert.Contains(t, w.Body.String(), "链接不存在或已失效")
	}

	// 统计页仍可查看，点击数保持 0
	w = env.get("/stats/old")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="clicks">0<`)
	assert.Contains(t, w.Body.String(), "已过期")

	w = env.get("/stats/off")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="clicks">0<`)
	assert.Contains(t, w.Body.String(), "已禁用")

	w = env.get("/stats/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_RequiresLogin(t *testing.T) {
	env := setupTest(t)
	_, err := env.links.Create(context.Background(), service.CreateInput{URL: "https://example.com", CustomCode: "flip"})
	require.NoError(t, err)

	for _, path := range []string{"/admin", "/toggle/flip"} {
		w := env.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	// 未登录的切换请求不能修改状态
	link, err := env.links.Stats(context.Background(), "flip")
	require.NoError(t, err)
	assert.True(t, link.IsActive)

	cookie := env.login(t)

	w := env.get("/admin", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.com")
	assert.Contains(t, w.Body.String(), "当前用户：admin")

	w = env.get("/toggle/flip", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	link, err = env.links.Stats(context.Background(), "flip")
	require.NoError(t, err)
	assert.False(t, link.IsActive)

	w = env.get("/toggle/flip", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	link, err = env.links.Stats(context.Background(), "flip")
	require.NoError(t, err)
	assert.True(t, link.IsActive, "切换两次应恢复原状态")

	w = env.get("/toggle/missing", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := setupTest(t)

	w := env.get("/login")
	assert.Equal(t, http.StatusOK, w.Code)

	for _, form := range []url.Values{
		{"username": {testUser}, "password": {"wrong"}},
		{"username": {"root"}, "password": {testPassword}},
		{},
	} {
		w := env.postForm("/login", form)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "用户名或密码错误")
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestLogout(t *testing.T) {
	env := setupTest(t)
	cookie := env.login(t)

	w := env.get("/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "shortlink_session" {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// 浏览器丢弃 cookie 后访问后台会回到登录页
	w = env.get("/admin")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)
	w := env.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestShortURL_BaseURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &ShortLinkHandler{baseURL: "https://s.example"}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, "https://s.example/abc", h.shortURL(c, "abc"))

	h.baseURL = ""
	c.Request.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com/abc", h.shortURL(c, "abc"))
}
