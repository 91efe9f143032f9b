package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"infofix/backend/internal/api/handler"
	"infofix/backend/internal/api/router"
	"infofix/backend/internal/repository"
	"infofix/backend/internal/service"
	"infofix/backend/pkg/database"
	"infofix/backend/pkg/jwt"
	"infofix/backend/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	// 1. 加载配置 & 初始化日志
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 连接数据库并执行迁移
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB(db)
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 3. 连接 Redis（可选：失败时降级运行，不广播变更、不限流）
	var publisher service.RegistryPublisher
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，登记册变更广播与限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		publisher = rdb
		defer rdb.Close()
	}

	// 4. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, publisher, logger)
	h := handler.NewHandler(svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. 加载值班登记册；其他实例写入后重新加载
	if cfg.Server.LoadOnServe {
		loaded := svc.Performance.Load(ctx)
		logger.Info("登记册已加载",
			zap.Int("records", loaded.Records),
			zap.Int("reports", loaded.Reports),
			zap.Int("tasks", loaded.Tasks),
		)
	}
	if rdb != nil {
		go func() {
			err := rdb.WatchRegistryChanges(ctx, func(evt redis.RegistryEvent) {
				logger.Info("收到其他实例的登记册变更，重新加载",
					zap.String("op", evt.Op),
					zap.String("record_id", evt.RecordID),
				)
				svc.Performance.Load(ctx)
			})
			if err != nil {
				logger.Warn("登记册变更订阅已停止", zap.Error(err))
			}
		}()
	}

	// 6. 启动 HTTP 服务器（优雅关闭）
	engine := router.Setup(cfg, h, jwtMgr, rdb, repo, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP 服务器异常: %w", err)
	case <-ctx.Done():
	}

	logger.Info("收到关闭信号，开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownWait)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
