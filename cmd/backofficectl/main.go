// backofficectl 运维命令行：数据库迁移、组织与员工初始化、工时表导出
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/config"
	"tablehub/backend/internal/repository"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/database"
	"tablehub/backend/pkg/jwt"
	applogger "tablehub/backend/pkg/logger"
)

var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "backofficectl",
		Short:         "餐厅后台运维工具",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(orgCmd(&configPath))
	rootCmd.AddCommand(userCmd(&configPath))
	rootCmd.AddCommand(timesheetCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

// app 命令执行所需的依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	svc    *service.Service
}

// bootstrap 加载配置并连接数据库；命令行不连接 Redis
func bootstrap(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log, "backofficectl")
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, logger)

	return &app{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
