package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tablehub/backend/internal/model"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/database"
)

func userCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "员工管理",
	}

	var (
		orgID      string
		name       string
		email      string
		role       string
		positionID string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "创建员工账号，密码从环境变量 BACKOFFICE_USER_PASSWORD 读取",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("BACKOFFICE_USER_PASSWORD")
			if password == "" {
				return fmt.Errorf("未设置 BACKOFFICE_USER_PASSWORD")
			}

			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			in := &service.CreateUserInput{
				OrganizationID: orgID,
				Name:           name,
				Email:          email,
				Password:       password,
				Role:           role,
			}
			if positionID != "" {
				in.PositionID = &positionID
			}

			ctx := database.WithOrganization(cmd.Context(), orgID)
			user, err := a.svc.User.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "员工已创建: %s <%s> %s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	create.Flags().StringVar(&orgID, "org", "", "组织 ID")
	create.Flags().StringVar(&name, "name", "", "姓名")
	create.Flags().StringVar(&email, "email", "", "登录邮箱")
	create.Flags().StringVar(&role, "role", model.RoleEmployee, "角色: owner | manager | employee")
	create.Flags().StringVar(&positionID, "position", "", "岗位 ID（可选）")
	for _, f := range []string{"org", "name", "email"} {
		_ = create.MarkFlagRequired(f)
	}
	cmd.AddCommand(create)

	return cmd
}
