package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"infofix/backend/config"
	"infofix/backend/internal/model"
	"infofix/backend/pkg/jwt"
	"infofix/backend/pkg/metrics"
	"infofix/backend/pkg/redis"
)

const testSecret = "middleware-test-secret-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      testSecret,
		AccessTokenTTL: time.Hour,
		Issuer:         "infofix",
	})
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// JWTAuth / RequireAdmin
// ═══════════════════════════════════════════════════════════

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newJWTManager()
	token, err := mgr.GenerateAccessToken("tech-1", model.RoleTechnician)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}

	r := gin.New()
	r.GET("/me", JWTAuth(mgr), okHandler)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user_id":"tech-1"`) {
		t.Errorf("上下文未注入 user_id: %s", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newJWTManager()

	// 同一密钥签发、但类型不是 access 的 Token
	refreshClaims := jwt.Claims{
		UserID:    "tech-1",
		Role:      model.RoleAdmin,
		TokenType: "refresh",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "infofix",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	refresh, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, refreshClaims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}

	unknownRole, _ := mgr.GenerateAccessToken("tech-1", "guest")
	noSubject, _ := mgr.GenerateAccessToken("  ", model.RoleAdmin)

	cases := []struct{ name, header string }{
		{"缺少认证头", ""},
		{"格式错误", "Token abc"},
		{"空 Token", "Bearer  "},
		{"无效 Token", "Bearer not-a-token"},
		{"类型错误", "Bearer " + refresh},
		{"未知角色", "Bearer " + unknownRole},
		{"缺少员工 id", "Bearer " + noSubject},
	}

	r := gin.New()
	r.GET("/me", JWTAuth(mgr), okHandler)

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := serve(r, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: 期望 401, 实际 %d", tc.name, w.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{model.RoleSuperAdmin, http.StatusOK},
		{model.RoleAdmin, http.StatusOK},
		{model.RoleManager, http.StatusOK},
		{model.RoleTechnician, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin",
				func(c *gin.Context) { c.Set("role", tt.role) },
				RequireAdmin(),
				okHandler,
			)
			w := serve(r, httptest.NewRequest("GET", "/admin", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d, 实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRequireAdmin_Unauthenticated(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdmin(), okHandler)

	w := serve(r, httptest.NewRequest("GET", "/admin", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient 失败: %v", err)
	}
	defer rdb.Close()

	r := gin.New()
	r.POST("/write", RateLimit(rdb, 2, time.Minute), okHandler)

	for i := 1; i <= 2; i++ {
		if w := serve(r, httptest.NewRequest("POST", "/write", nil)); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次应放行, 实际 %d", i, w.Code)
		}
	}
	if w := serve(r, httptest.NewRequest("POST", "/write", nil)); w.Code != http.StatusTooManyRequests {
		t.Errorf("超限应返回 429, 实际 %d", w.Code)
	}

	mr.FastForward(61 * time.Second)
	if w := serve(r, httptest.NewRequest("POST", "/write", nil)); w.Code != http.StatusOK {
		t.Errorf("窗口过期后应放行, 实际 %d", w.Code)
	}
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/write", RateLimit(nil, 1, time.Minute), okHandler)

	for i := 0; i < 3; i++ {
		if w := serve(r, httptest.NewRequest("POST", "/write", nil)); w.Code != http.StatusOK {
			t.Fatalf("未配置 Redis 时应放行, 实际 %d", w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// RequestID / Logger / Metrics / SecurityHeaders
// ═══════════════════════════════════════════════════════════

func TestRequestID_LoggedAndEchoed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ping", okHandler)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	w := serve(r, req)

	if got := w.Header().Get("X-Request-ID"); got != "rid-123" {
		t.Errorf("响应头 X-Request-ID 错误: %q", got)
	}
	entries := logs.FilterField(zap.String("request_id", "rid-123")).All()
	if len(entries) != 1 {
		t.Errorf("期望 1 条带 request_id 的日志, 实际 %d", len(entries))
	}
}

func TestRequestID_GeneratedWhenTooLong(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", okHandler)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	w := serve(r, req)

	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("过长的 Request-ID 应被替换为 UUID, 实际 %q", got)
	}
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/scorecards/:tech_id", okHandler)

	counter := metrics.HTTPRequests.WithLabelValues("/scorecards/:tech_id", "GET", "200")
	before := testutil.ToFloat64(counter)

	serve(r, httptest.NewRequest("GET", "/scorecards/tech-1", nil))
	serve(r, httptest.NewRequest("GET", "/scorecards/tech-2", nil))

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("期望按路由模板累计 2 次, 实际 %v", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", okHandler)

	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy", "Cache-Control"} {
		if w.Header().Get(h) == "" {
			t.Errorf("缺少安全响应头 %s", h)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/write", BodyLimit(16), okHandler)

	w := serve(r, httptest.NewRequest("POST", "/write", strings.NewReader(`{"a":1}`)))
	if w.Code != http.StatusOK {
		t.Errorf("未超限应放行, 实际 %d", w.Code)
	}

	w = serve(r, httptest.NewRequest("POST", "/write", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限应返回 413, 实际 %d", w.Code)
	}
}

func TestCORS_ExposesDownloadHeaders(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/ping", okHandler)

	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204, 实际 %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("应暴露 Content-Disposition, 实际 %q", got)
	}
}
