package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"infofix/backend/config"
	"infofix/backend/internal/api/handler"
	"infofix/backend/internal/api/middleware"
	"infofix/backend/pkg/jwt"
	"infofix/backend/pkg/redis"
)

// Pinger 健康检查依赖（*repository.Repository 实现）
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（未配置 Redis 时写接口不限流）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db Pinger, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 & 指标 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(cfg.Server.MetricsPath, gin.WrapH(promhttp.Handler()))

	// 写接口限流
	writeLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled && rdb != nil {
		writeLimit = middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}
	adminOnly := middleware.RequireAdmin()

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 员工目录
		staff := v1.Group("/staff")
		{
			staff.GET("", h.Staff.ListStaff) // 技术员只能看到自己（Service 层鉴权）
			staff.GET("/me", h.Staff.GetCurrentStaff)
		}

		// 绩效
		perf := v1.Group("/performance")
		{
			perf.GET("/window", h.Performance.Navigate)
			perf.GET("/scorecards", h.Performance.Leaderboard)
			perf.GET("/scorecards/:tech_id", h.Performance.GetScorecard) // 本人或管理员
		}

		// 值班登记册（出勤 / 奖惩）
		duty := v1.Group("/duty-records", adminOnly)
		{
			duty.GET("", h.DutyRecord.ListDutyRecords)

			duty.POST("/attendance", writeLimit, h.DutyRecord.CreateAttendance)
			duty.PUT("/attendance/:id", writeLimit, h.DutyRecord.UpdateAttendance)
			duty.DELETE("/attendance/:id", writeLimit, h.DutyRecord.DeleteAttendance)

			duty.POST("/merit", writeLimit, h.DutyRecord.CreateMerit)
			duty.PUT("/merit/:id", writeLimit, h.DutyRecord.UpdateMerit)
			duty.DELETE("/merit/:id", writeLimit, h.DutyRecord.DeleteMerit)

			duty.POST("/reload", writeLimit, h.DutyRecord.Reload)
		}

		// 导出
		export := v1.Group("/export")
		{
			export.GET("/performance", adminOnly, h.Export.ExportPerformance)
			export.GET("/tasks/:tech_id", h.Export.ExportTaskCalendar) // 本人或管理员
		}
	}

	return r
}
