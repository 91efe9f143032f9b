package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"infofix/backend/internal/model"
	"infofix/backend/pkg/jwt"
)

var (
	tokenUser string
	tokenRole string
)

// issueTokenCmd 签发开发用访问令牌；生产环境令牌由外部身份系统签发
var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "签发开发用访问令牌",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !model.IsKnownRole(tokenRole) {
			return fmt.Errorf("未知角色: %s", tokenRole)
		}

		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(tokenUser, tokenRole)
		if err != nil {
			return fmt.Errorf("签发令牌失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().StringVar(&tokenUser, "user", "", "员工 id")
	issueTokenCmd.Flags().StringVar(&tokenRole, "role", model.RoleTechnician, "角色 super_admin|admin|manager|technician")
	issueTokenCmd.MarkFlagRequired("user")
}
