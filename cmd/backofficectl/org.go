package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func orgCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "组织管理",
	}

	var timezone string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "创建组织（租户）",
		Example: `  backofficectl org create "老街小馆" --timezone Europe/Berlin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			tz := timezone
			if tz == "" {
				tz = a.cfg.TimeClock.DefaultTimezone
			}
			org, err := a.svc.User.CreateOrganization(cmd.Context(), args[0], tz)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "组织已创建: %s (%s, %s)\n", org.OrganizationID, org.Name, org.Timezone)
			return nil
		},
	}
	create.Flags().StringVar(&timezone, "timezone", "", "IANA 时区，默认取配置 timeclock.default_timezone")
	cmd.AddCommand(create)

	return cmd
}
