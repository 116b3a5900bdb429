package controller

import (
	"hexaboard_backend/internal/service"
	"hexaboard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// Dashboard godoc
// @Summary Admin dashboard counts
// @Description Aggregate counts of freshers, courses and tasks; cached briefly
// @Tags stats
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardStats} "Success"
// @Router /api/admin/stats [get]
func (c *StatsController) Dashboard(ctx *gin.Context) {
	stats, err := c.StatsService.Dashboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// LoginLogs godoc
// @Summary Recent login audit entries
// @Tags stats
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "Max entries" default(50)
// @Success 200 {object} util.Response{data=[]model.LoginLog} "Success"
// @Router /api/admin/login-logs [get]
func (c *StatsController) LoginLogs(ctx *gin.Context) {
	logs, err := c.StatsService.RecentLogins(util.QueryInt(ctx, "limit", 50))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, logs)
}
