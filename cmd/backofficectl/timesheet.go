package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/database"
)

func timesheetCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "工时表",
	}

	var (
		orgID  string
		from   string
		to     string
		userID string
		outDir string
	)
	export := &cobra.Command{
		Use:     "export",
		Short:   "导出工时表 xlsx",
		Example: `  backofficectl timesheet export --org <id> --from 2030-03-01T00:00:00Z --to 2030-04-01T00:00:00Z`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromT, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return fmt.Errorf("--from 不是 RFC3339 时间: %w", err)
			}
			toT, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return fmt.Errorf("--to 不是 RFC3339 时间: %w", err)
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			// 以店主身份导出
			caller := service.Caller{UserID: "backofficectl", OrganizationID: orgID, Role: model.RoleOwner}
			ctx := database.WithOrganization(cmd.Context(), orgID)

			buf, filename, err := a.svc.Export.ExportTimesheet(ctx, caller, &dto.ExportRequest{From: fromT, To: toT, UserID: userID})
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("写入文件失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出: %s\n", path)
			return nil
		},
	}
	export.Flags().StringVar(&orgID, "org", "", "组织 ID")
	export.Flags().StringVar(&from, "from", "", "起始时间（含，RFC3339）")
	export.Flags().StringVar(&to, "to", "", "截止时间（不含，RFC3339）")
	export.Flags().StringVar(&userID, "user", "", "仅导出该员工（可选）")
	export.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	for _, f := range []string{"org", "from", "to"} {
		_ = export.MarkFlagRequired(f)
	}
	cmd.AddCommand(export)

	return cmd
}
