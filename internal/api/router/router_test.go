package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"infofix/backend/config"
	"infofix/backend/internal/api/handler"
	"infofix/backend/internal/model"
	"infofix/backend/pkg/jwt"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, BodyLimit: 1 << 20, MetricsPath: "/metrics"},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret-0123456789", AccessTokenTTL: time.Hour, Issuer: "infofix"},
	}
}

// 请求在中间件层被拦截，不会进入 Handler，因此 Handler 可以为空
func setupRouter(t *testing.T, db Pinger) (*jwt.Manager, http.Handler) {
	t.Helper()
	cfg := testConfig()
	mgr := jwt.NewManager(&cfg.Auth)
	h := &handler.Handler{}
	return mgr, Setup(cfg, h, mgr, nil, db, zap.NewNop())
}

func token(t *testing.T, mgr *jwt.Manager, role string) string {
	t.Helper()
	tok, err := mgr.GenerateAccessToken("tech-1", role)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}
	return "Bearer " + tok
}

func TestHealth(t *testing.T) {
	_, r := setupRouter(t, fakePinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("期望 200, 实际 %d", w.Code)
	}

	_, r = setupRouter(t, fakePinger{err: errors.New("db down")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("数据库不可用时期望 503, 实际 %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, r := setupRouter(t, fakePinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("指标输出缺少默认 Go 运行时指标")
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	_, r := setupRouter(t, fakePinger{})
	for _, path := range []string{"/api/v1/staff", "/api/v1/performance/scorecards", "/api/v1/duty-records"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: 期望 401, 实际 %d", path, w.Code)
		}
	}
}

func TestAdminRoutesRejectTechnician(t *testing.T) {
	mgr, r := setupRouter(t, fakePinger{})
	auth := token(t, mgr, model.RoleTechnician)

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/duty-records"},
		{"POST", "/api/v1/duty-records/attendance"},
		{"PUT", "/api/v1/duty-records/merit/m1"},
		{"DELETE", "/api/v1/duty-records/merit/m1"},
		{"POST", "/api/v1/duty-records/reload"},
		{"GET", "/api/v1/export/performance"},
	}
	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: 期望 403, 实际 %d", rt.method, rt.path, w.Code)
		}
	}
}
