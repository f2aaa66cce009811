package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/config"
	"tablehub/backend/internal/api/handler"
	"tablehub/backend/internal/api/middleware"
	"tablehub/backend/internal/model"
	"tablehub/backend/pkg/jwt"
	"tablehub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// db 仅用于健康检查，可为 nil
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	supervisor := middleware.RoleAuth(model.RoleOwner, model.RoleManager)
	limiter := middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", limiter, h.Auth.Login)
			auth.POST("/refresh", limiter, h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 员工列表
			authorized.GET("/users", supervisor, h.User.ListUsers)

			// 岗位
			positions := authorized.Group("/positions")
			{
				positions.GET("", h.Position.ListPositions)
				positions.POST("", supervisor, h.Position.CreatePosition)
			}

			// 班次
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Shift.ListShifts)
				shifts.GET("/my.ics", h.Shift.MyCalendar)
				shifts.GET("/:id", h.Shift.GetShift)
				shifts.POST("", supervisor, h.Shift.CreateShift)
				shifts.PUT("/:id", supervisor, h.Shift.UpdateShift)
				shifts.POST("/:id/cancel", supervisor, h.Shift.CancelShift)
			}

			// 班次模板
			templates := authorized.Group("/shift-templates")
			{
				templates.GET("", h.ShiftTemplate.ListTemplates)
				templates.POST("", supervisor, h.ShiftTemplate.CreateTemplate)
				templates.DELETE("/:id", supervisor, h.ShiftTemplate.DeleteTemplate)
				templates.POST("/:id/apply", supervisor, h.ShiftTemplate.ApplyTemplate)
			}

			// 打卡
			timeClock := authorized.Group("/time-clock")
			{
				timeClock.POST("/clock-in", h.TimeClock.ClockIn)
				timeClock.POST("/clock-out", h.TimeClock.ClockOut)
				timeClock.POST("/break/start", h.TimeClock.BreakStart)
				timeClock.POST("/break/end", h.TimeClock.BreakEnd)
				timeClock.GET("/status", h.TimeClock.Status)
				timeClock.GET("/entries", h.TimeClock.ListEntries) // 员工仅能查看本人（Service 层鉴权）

				timeClock.POST("/approve", supervisor, h.TimeClock.Approve)
				timeClock.POST("/reject", supervisor, h.TimeClock.Reject)
				timeClock.PUT("/update", supervisor, h.TimeClock.Update)
				timeClock.GET("/export", supervisor, h.Export.ExportTimesheet)
			}
		}
	}

	return r
}
