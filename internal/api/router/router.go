package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/api/handler"
	"github.com/yuktaemrith12/ConnectEd/internal/api/middleware"
	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/pkg/jwt"
	"github.com/yuktaemrith12/ConnectEd/pkg/redis"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（黑名单与限流降级放行）；db 仅用于健康检查
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, 10404, "接口不存在")
	})

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "redis": rdb != nil}
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": false})
				return
			}
		}
		c.JSON(http.StatusOK, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")

	// 课表管理（仅管理员；Service 层再次校验角色）
	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	if cfg.RateLimit.Enabled {
		admin.Use(middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))
	}
	admin.Use(middleware.RoleAuth(dto.RoleAdmin))
	{
		// 基础名册
		admin.GET("/subjects", h.Roster.ListSubjects)
		admin.GET("/teachers", h.Roster.ListTeachers)
		admin.GET("/students", h.Roster.ListStudents)

		// 班级
		classes := admin.Group("/classes")
		{
			classes.GET("", h.Roster.ListClasses)
			classes.GET("/:id/teachers", h.Roster.ListClassTeachers)
			classes.PUT("/:id/teachers", h.Assignment.ReplaceTeachers)
			classes.GET("/:id/students", h.Roster.ListClassStudents)
			classes.POST("/:id/students", h.Assignment.AssignStudents)
			classes.GET("/:id/slots", h.Slot.ListClassSlots)
			classes.GET("/:id/timetable", h.Timetable.GetTimetable)
			classes.GET("/:id/timetable/conflicts", h.Timetable.GetConflicts)
			classes.GET("/:id/timetable/export", h.Export.ExportTimetable)
		}

		// 课时
		slots := admin.Group("/slots")
		{
			slots.POST("", h.Slot.CreateSlot)
			slots.GET("/:id", h.Slot.GetSlot)
			slots.PUT("/:id", h.Slot.UpdateSlot)
			slots.DELETE("/:id", h.Slot.DeleteSlot)
		}
	}

	return r, nil
}
