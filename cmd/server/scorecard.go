package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
	"infofix/backend/internal/report"
	"infofix/backend/internal/repository"
	"infofix/backend/internal/service"
)

var (
	scorecardDate        string
	scorecardGranularity string
	scorecardTech        string
)

var scorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "在终端打印绩效排行榜或单个技师的绩效卡",
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

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		svc := service.NewService(repository.NewRepository(db), nil, logger)
		loaded := svc.Performance.Load(ctx)
		logger.Debug("登记册已加载", zap.Int("records", loaded.Records))

		q := &dto.WindowQuery{Date: scorecardDate, Granularity: scorecardGranularity}
		out := cmd.OutOrStdout()

		// 命令行以超级管理员身份查看
		const caller = "cli"
		if scorecardTech != "" {
			card, err := svc.Performance.Scorecard(ctx, scorecardTech, q, caller, model.RoleSuperAdmin)
			if err != nil {
				return err
			}
			fmt.Fprint(out, report.Scorecard(card))
			return nil
		}

		board, err := svc.Performance.Leaderboard(ctx, q, caller, model.RoleSuperAdmin)
		if err != nil {
			return err
		}
		fmt.Fprint(out, report.Leaderboard(board))
		return nil
	},
}

func init() {
	scorecardCmd.Flags().StringVar(&scorecardDate, "date", "", "参考日期 YYYY-MM-DD（默认今天）")
	scorecardCmd.Flags().StringVar(&scorecardGranularity, "granularity", "month", "时间粒度 day|month|year")
	scorecardCmd.Flags().StringVar(&scorecardTech, "tech", "", "只显示指定技师的绩效卡")
}
