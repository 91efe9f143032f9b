package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/config"
	"infofix/backend/pkg/database"
	applogger "infofix/backend/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "infofix",
	Short: "InfoFix 绩效评分服务",
	Long: `InfoFix 绩效评分服务：加载值班登记册、设备报告与任务数据，
按日 / 月 / 年窗口为技师计算绩效得分与等级。

不带子命令时等同于 serve。`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml 与 ./config.yaml）")

	rootCmd.AddCommand(serveCmd, migrateCmd, scorecardCmd, issueTokenCmd)
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

// openDB 连接数据库；调用方负责 closeDB
func openDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
}
