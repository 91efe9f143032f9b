package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"infofix/backend/pkg/database"
)

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移（--down N 回滚 N 步）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := openDB(cfg, logger)
		if err != nil {
			return err
		}
		defer closeDB(db)

		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}

		if migrateDown > 0 {
			return database.RollbackMigrations(sqlDB, migrateDown, logger)
		}
		return database.RunMigrations(sqlDB, logger)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "回滚的迁移步数")
}
