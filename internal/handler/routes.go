package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

// RegisterTimetableRoutes mounts the timetable API. Reads are open to staff, writes to administrators.
func RegisterTimetableRoutes(api *gin.RouterGroup, h *TimetableHandler, tokens *service.TokenService, logger *zap.Logger) {
	readers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)
	writers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	timetable := api.Group("/timetable", middleware.JWT(tokens))
	timetable.GET("", readers, h.List)
	timetable.GET("/:id", readers, h.Get)
	timetable.GET("/:id/validation", readers, h.Validate)
	timetable.GET("/:id/export", readers, h.Export)
	timetable.GET("/:id/teachers/:teacherId/calendar.ics", readers, h.TeacherCalendar)

	timetable.POST("/generate", writers, middleware.Audit(logger, "timetable.generate"), h.Generate)
	timetable.PUT("/:id", writers, middleware.Audit(logger, "timetable.update"), h.Update)
	timetable.DELETE("/:id", writers, middleware.Audit(logger, "timetable.delete"), h.Delete)
	timetable.POST("/:id/activate", writers, middleware.Audit(logger, "timetable.activate"), h.Activate)
	timetable.PUT("/:id/slot", writers, middleware.Audit(logger, "timetable.slot.update"), h.UpdateSlot)
	timetable.POST("/:id/conflicts/:conflictId/resolve", writers, middleware.Audit(logger, "timetable.conflict.resolve"), h.ResolveConflict)
}

// RegisterObservabilityRoutes mounts health and metrics endpoints at the root.
func RegisterObservabilityRoutes(r *gin.Engine, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Prometheus)
	r.GET("/metrics/summary", h.Summary)
}
