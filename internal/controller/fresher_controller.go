package controller

import (
	"errors"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/repository"
	"hexaboard_backend/internal/service"
	"hexaboard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FresherController struct {
	FresherService *service.FresherService
	CourseService  *service.CourseService
	StatsService   *service.StatsService
}

func NewFresherController(fresherService *service.FresherService, courseService *service.CourseService, statsService *service.StatsService) *FresherController {
	return &FresherController{
		FresherService: fresherService,
		CourseService:  courseService,
		StatsService:   statsService,
	}
}

// Provision godoc
// @Summary Provision a new fresher
// @Description Creates the account and profile for a new hire and emails the temporary credentials
// @Tags freshers
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProvisionRequest true "Fresher details"
// @Success 201 {object} util.Response{data=service.ProvisionResult} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 409 {object} util.Response "Email already registered"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/admin/freshers [post]
func (c *FresherController) Provision(ctx *gin.Context) {
	var req service.ProvisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.FresherService.Provision(req)
	if err != nil {
		var pf *util.PartialFailureError
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "email is already registered")
		case errors.Is(err, util.ErrInvalidEmail), errors.Is(err, util.ErrDepartmentRequired):
			util.BadRequest(ctx, err.Error())
		case errors.As(err, &pf):
			util.Error(ctx, 500, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// BulkImport godoc
// @Summary Bulk import freshers from CSV
// @Description Provisions one fresher per CSV row; rows succeed or fail independently
// @Tags freshers
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "CSV file with email, name, department columns"
// @Success 200 {object} util.Response{data=service.BulkImportResult} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/admin/freshers/bulk [post]
func (c *FresherController) BulkImport(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "CSV file is required")
		return
	}

	f, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	result, err := c.FresherService.BulkImport(f)
	if err != nil {
		util.BadRequest(ctx, "failed to parse CSV: "+err.Error())
		return
	}

	util.Success(ctx, result)
}

// List godoc
// @Summary List freshers
// @Description Returns a paginated, filterable list of freshers
// @Tags freshers
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Param   departmentId query string false "Filter by department"
// @Param   search query string false "Search by name or email"
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/admin/freshers [get]
func (c *FresherController) List(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	pageSize := util.QueryInt(ctx, "pageSize", 20)

	filter := repository.UserFilter{
		Role:         model.Fresher,
		DepartmentID: ctx.Query("departmentId"),
		Search:       ctx.Query("search"),
	}

	freshers, total, err := c.FresherService.List(page, pageSize, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items":    freshers,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Get godoc
// @Summary Get one fresher
// @Tags freshers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/freshers/{id} [get]
func (c *FresherController) Get(ctx *gin.Context) {
	user, err := c.FresherService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// Delete godoc
// @Summary Delete a fresher
// @Description Removes the fresher's account, courses, tasks and chat history. Idempotent.
// @Tags freshers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/freshers/{id} [delete]
func (c *FresherController) Delete(ctx *gin.Context) {
	if err := c.FresherService.Delete(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// ResetProgress godoc
// @Summary Reset a fresher's course progress
// @Description Zeroes progress on every course the fresher owns
// @Tags freshers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/freshers/{id}/reset-progress [post]
func (c *FresherController) ResetProgress(ctx *gin.Context) {
	if err := c.CourseService.ResetProgress(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reset": true})
}

// Dashboard godoc
// @Summary Fresher dashboard
// @Description Summarizes the fresher's own courses and pending tasks
// @Tags freshers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response{data=service.FresherDashboard} "Success"
// @Router /api/freshers/{id}/dashboard [get]
func (c *FresherController) Dashboard(ctx *gin.Context) {
	fresherID := ctx.Param("id")

	courses, err := c.CourseService.CoursesForFresher(fresherID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	tasks, err := c.CourseService.TasksForFresher(fresherID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, c.StatsService.ForFresher(courses, tasks))
}
